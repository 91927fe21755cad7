package pending

import (
	"time"

	"gelfgate/internal/atomics"
	"gelfgate/pkg/gelf"
)

// Buffers a chunk under its message id.
// A repeat (id, sequence number) pair overwrites the earlier payload, last write wins.
// An overwrite refreshes the slot's arrival time, staleness tracks what is currently held.
func (store *Store) Insert(chunk gelf.Chunk, source string, arrival time.Time) {
	target := store.shardFor(chunk.MessageID)

	target.mu.Lock()
	defer target.mu.Unlock()

	store.Metrics.InsertCount.Add(1)

	msg, exists := target.messages[chunk.MessageID]
	if !exists {
		msg = &message{
			slots:         make(map[int]slot),
			oldestArrival: arrival,
		}
		target.messages[chunk.MessageID] = msg
		store.Metrics.PendingMessages.Add(1)
	}

	previous, overwrite := msg.slots[chunk.SequenceNumber]
	if overwrite {
		store.Metrics.OverwriteCount.Add(1)
		msg.byteSize -= len(previous.payload)
		if !atomics.Subtract(&store.Metrics.PendingBytes, uint64(len(previous.payload)), 4) {
			store.Metrics.PendingBytes.Store(0)
		}
	}

	msg.slots[chunk.SequenceNumber] = slot{
		payload: chunk.Payload,
		arrival: arrival,
	}
	msg.byteSize += len(chunk.Payload)
	store.Metrics.PendingBytes.Add(uint64(len(chunk.Payload)))

	// Chunk zero declares the total and identifies the sender
	if chunk.SequenceNumber == 0 {
		msg.declaredCount = chunk.SequenceCount
		msg.source = source
	}

	if overwrite && previous.arrival.Equal(msg.oldestArrival) {
		// The refreshed slot may have been the oldest, recompute from the held slots
		oldest := arrival
		for _, held := range msg.slots {
			if held.arrival.Before(oldest) {
				oldest = held.arrival
			}
		}
		msg.oldestArrival = oldest
	} else if arrival.Before(msg.oldestArrival) {
		msg.oldestArrival = arrival
	}
}
