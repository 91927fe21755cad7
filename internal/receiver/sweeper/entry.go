// Periodic sweep over pending messages, dropping outdated ones and dispatching complete ones
package sweeper

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/pbnjay/memory"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/receiver/pending"
	"gelfgate/pkg/gelf"
)

// Creates a new sweeper over the given store.
// Non-positive intervals fall back to defaults.
func New(namespace []string, store *pending.Store, forward Forwarder, sweepInterval, chunkLifetime time.Duration) (new *Instance) {
	if sweepInterval <= 0 {
		sweepInterval = global.DefaultSweepInterval
	}
	if chunkLifetime <= 0 {
		chunkLifetime = global.DefaultChunkLifetime
	}

	new = &Instance{
		Namespace:     append(namespace, global.NSSweep),
		store:         store,
		forward:       forward,
		sweepInterval: sweepInterval,
		chunkLifetime: chunkLifetime,
		Metrics:       &MetricStorage{},
	}
	return
}

// Ticks until the context ends
func (instance *Instance) Run(ctx context.Context) {
	ticker := time.NewTicker(instance.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		func() {
			// Record panics and continue sweeping
			defer func() {
				if fatalError := recover(); fatalError != nil {
					stack := debug.Stack()
					logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
						"panic in sweeper thread: %v\n%s", fatalError, stack)
				}
			}()

			instance.SweepOnce(ctx, time.Now())
		}()
	}
}

// Walks every pending message once.
// Outdated wins over complete when a message is both, a sender that straggled
// past the lifetime does not get its message through.
// Errors on one message never stop the sweep.
func (instance *Instance) SweepOnce(ctx context.Context, now time.Time) {
	instance.Metrics.SweepCount.Add(1)
	start := time.Now()

	for _, messageID := range instance.store.SnapshotIDs() {
		err := instance.sweepID(ctx, messageID, now)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"sweep failed for message id %s: %v\n", gelf.FormatMessageID(messageID), err)
		}
	}

	instance.Metrics.SweepDurationNs.Add(uint64(time.Since(start).Nanoseconds()))

	// No upper bound is enforced on the buffer, surface pressure instead
	pendingBytes := instance.store.PendingBytes()
	freeBytes := memory.FreeMemory()
	if freeBytes > 0 && pendingBytes > freeBytes/4 {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"pending chunk buffer holds %d bytes against %d bytes free memory, senders may be withholding chunks\n",
			pendingBytes, freeBytes)
	}
}

// Evaluates and acts on a single pending message
func (instance *Instance) sweepID(ctx context.Context, messageID string, now time.Time) (err error) {
	info, err := instance.store.Inspect(messageID)
	if errors.Is(err, pending.ErrNotFound) {
		// Dropped by a concurrent sweep between snapshot and inspect
		instance.Metrics.ReassemblyRaces.Add(1)
		logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
			"message id %s vanished before inspection\n", gelf.FormatMessageID(messageID))
		err = nil
		return
	}
	if err != nil {
		return
	}

	if isOutdated(info, now, instance.chunkLifetime) {
		instance.store.Drop(messageID)
		instance.Metrics.OutdatedDropped.Add(1)
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"dropped outdated message id %s with %d of %d chunks\n",
			gelf.FormatMessageID(messageID), info.SlotCount, info.DeclaredCount)
		return
	}

	if isComplete(info) {
		err = instance.dispatch(ctx, messageID)
	}
	return
}

// Reassembles a complete message, removes it, and hands it to the forwarder.
// Removal happens before forwarding, a failed forward never causes a redeliver.
func (instance *Instance) dispatch(ctx context.Context, messageID string) (err error) {
	payloads, source, err := instance.store.ChunksOf(messageID)
	if errors.Is(err, pending.ErrNotFound) {
		instance.Metrics.ReassemblyRaces.Add(1)
		logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
			"message id %s vanished before reassembly\n", gelf.FormatMessageID(messageID))
		err = nil
		return
	}
	if err != nil {
		return
	}

	data := reassemble(payloads)
	instance.store.Drop(messageID)

	err = instance.forward.Forward(ctx, data, source)
	if err != nil {
		instance.Metrics.ForwardFailures.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"failed to forward reassembled message id %s: %v\n", gelf.FormatMessageID(messageID), err)
		err = nil
		return
	}

	instance.Metrics.Dispatched.Add(1)
	logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
		"dispatched reassembled message id %s (%d bytes)\n", gelf.FormatMessageID(messageID), len(data))
	return
}
