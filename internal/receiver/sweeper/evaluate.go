package sweeper

import (
	"time"

	"gelfgate/internal/receiver/pending"
)

// A message is complete once chunk zero arrived and every declared chunk is buffered.
// Chunk zero is the root of trust for the total, without it the total is unknown.
func isComplete(info pending.Info) (complete bool) {
	if !info.HasFirst {
		return
	}
	if info.DeclaredCount < 1 {
		return
	}
	complete = info.SlotCount == info.DeclaredCount
	return
}

// A message is outdated once its oldest currently held chunk has aged past the lifetime.
// Retransmits refresh a slot's arrival, so a sender re-sending every chunk stays fresh.
func isOutdated(info pending.Info, now time.Time, lifetime time.Duration) (outdated bool) {
	outdated = now.Sub(info.OldestArrival) >= lifetime
	return
}
