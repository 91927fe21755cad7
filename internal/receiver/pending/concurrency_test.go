package pending

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestConcurrentInsertDrop(t *testing.T) {
	store := New([]string{"Test"}, 16)
	now := time.Now()

	const writers = 8
	const messagesPerWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for m := 0; m < messagesPerWriter; m++ {
				id := fmt.Sprintf("w%02dm%03d", writer, m)
				store.Insert(testChunk(id, 0, 2, "first"), "src", now)
				store.Insert(testChunk(id, 1, 2, "second"), "src", now)
			}
		}(w)
	}

	// Concurrent sweeping over whatever exists
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			for _, id := range store.SnapshotIDs() {
				store.Drop(id)
			}
		}
	}()

	wg.Wait()

	// Drop everything left and verify gauges settle to zero
	for _, id := range store.SnapshotIDs() {
		store.Drop(id)
	}

	if remaining := store.Metrics.PendingMessages.Load(); remaining != 0 {
		t.Errorf("expected zero pending messages after full drain, got %d", remaining)
	}
	if remaining := store.Metrics.PendingBytes.Load(); remaining != 0 {
		t.Errorf("expected zero pending bytes after full drain, got %d", remaining)
	}
}
