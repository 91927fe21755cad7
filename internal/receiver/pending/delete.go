package pending

import "gelfgate/internal/atomics"

// Removes a message and all its buffered chunks. Idempotent.
func (store *Store) Drop(messageID string) (existed bool) {
	target := store.shardFor(messageID)
	target.mu.Lock()
	defer target.mu.Unlock()

	msg, existed := target.messages[messageID]
	if !existed {
		return
	}

	delete(target.messages, messageID)

	if !atomics.Subtract(&store.Metrics.PendingMessages, 1, 4) {
		store.Metrics.PendingMessages.Store(0)
	}
	if !atomics.Subtract(&store.Metrics.PendingBytes, uint64(msg.byteSize), 4) {
		store.Metrics.PendingBytes.Store(0)
	}
	return
}
