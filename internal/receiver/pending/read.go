package pending

import "sort"

// Reports whether any chunks are buffered for a message id
func (store *Store) Has(messageID string) (present bool) {
	target := store.shardFor(messageID)
	target.mu.Lock()
	defer target.mu.Unlock()

	_, present = target.messages[messageID]
	return
}

// Returns the ids of every pending message across all shards.
// The snapshot is not a consistent cut, ids may be dropped concurrently.
func (store *Store) SnapshotIDs() (ids []string) {
	for _, target := range store.shards {
		target.mu.Lock()
		for id := range target.messages {
			ids = append(ids, id)
		}
		target.mu.Unlock()
	}
	return
}

// Returns sweep-relevant facts about one pending message
func (store *Store) Inspect(messageID string) (info Info, err error) {
	target := store.shardFor(messageID)
	target.mu.Lock()
	defer target.mu.Unlock()

	msg, exists := target.messages[messageID]
	if !exists {
		err = ErrNotFound
		return
	}

	_, hasFirst := msg.slots[0]
	info = Info{
		SlotCount:     len(msg.slots),
		HasFirst:      hasFirst,
		DeclaredCount: msg.declaredCount,
		OldestArrival: msg.oldestArrival,
		Source:        msg.source,
	}
	return
}

// Returns all buffered payloads of a message ordered by sequence number, plus the sender address
func (store *Store) ChunksOf(messageID string) (payloads [][]byte, source string, err error) {
	target := store.shardFor(messageID)
	target.mu.Lock()
	defer target.mu.Unlock()

	msg, exists := target.messages[messageID]
	if !exists {
		err = ErrNotFound
		return
	}

	sequences := make([]int, 0, len(msg.slots))
	for seq := range msg.slots {
		sequences = append(sequences, seq)
	}
	sort.Ints(sequences)

	payloads = make([][]byte, 0, len(sequences))
	for _, seq := range sequences {
		payloads = append(payloads, msg.slots[seq].payload)
	}
	source = msg.source
	return
}
