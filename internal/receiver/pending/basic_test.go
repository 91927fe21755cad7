package pending

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"gelfgate/pkg/gelf"
)

func testChunk(id string, seq, count int, payload string) (chunk gelf.Chunk) {
	chunk = gelf.Chunk{
		MessageID:      id,
		SequenceNumber: seq,
		SequenceCount:  count,
		Payload:        []byte(payload),
	}
	return
}

func TestInsertAndInspect(t *testing.T) {
	store := New([]string{"Test"}, 4)
	now := time.Now()

	store.Insert(testChunk("msg00001", 1, 3, "bbb"), "10.0.0.2:999", now)
	store.Insert(testChunk("msg00001", 0, 3, "aaa"), "10.0.0.1:999", now.Add(time.Millisecond))

	info, err := store.Inspect("msg00001")
	if err != nil {
		t.Fatalf("unexpected inspect error: %v", err)
	}
	if info.SlotCount != 2 {
		t.Errorf("expected 2 slots, got %d", info.SlotCount)
	}
	if !info.HasFirst {
		t.Errorf("expected chunk zero to be present")
	}
	if info.DeclaredCount != 3 {
		t.Errorf("expected declared count 3, got %d", info.DeclaredCount)
	}
	if !info.OldestArrival.Equal(now) {
		t.Errorf("oldest arrival should be the first insert time")
	}
	if info.Source != "10.0.0.1:999" {
		t.Errorf("source should come from chunk zero, got %q", info.Source)
	}
}

func TestInspectMissing(t *testing.T) {
	store := New([]string{"Test"}, 4)

	_, err := store.Inspect("missing1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, _, err = store.ChunksOf("missing1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from ChunksOf, got %v", err)
	}
}

func TestChunksOfOrdering(t *testing.T) {
	store := New([]string{"Test"}, 4)
	now := time.Now()

	// Insert out of order
	store.Insert(testChunk("msg00001", 2, 3, "ccc"), "src", now)
	store.Insert(testChunk("msg00001", 0, 3, "aaa"), "src", now)
	store.Insert(testChunk("msg00001", 1, 3, "bbb"), "src", now)

	payloads, source, err := store.ChunksOf("msg00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "src" {
		t.Errorf("expected source src, got %q", source)
	}

	joined := bytes.Join(payloads, nil)
	if string(joined) != "aaabbbccc" {
		t.Errorf("expected payloads in sequence order, got %q", joined)
	}
}

func TestInsertOverwriteRefreshesArrival(t *testing.T) {
	store := New([]string{"Test"}, 4)
	first := time.Now()
	later := first.Add(10 * time.Second)

	store.Insert(testChunk("msg00001", 0, 2, "old"), "src", first)
	store.Insert(testChunk("msg00001", 0, 2, "newdata"), "src", later)

	info, err := store.Inspect("msg00001")
	if err != nil {
		t.Fatalf("unexpected inspect error: %v", err)
	}
	if !info.OldestArrival.Equal(later) {
		t.Errorf("overwrite must record the new arrival time, got %v", info.OldestArrival)
	}
	if info.SlotCount != 1 {
		t.Errorf("overwrite must not add a slot, got %d", info.SlotCount)
	}

	payloads, _, err := store.ChunksOf("msg00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payloads[0]) != "newdata" {
		t.Errorf("last write should win, got %q", payloads[0])
	}

	if store.Metrics.PendingBytes.Load() != uint64(len("newdata")) {
		t.Errorf("byte gauge should reflect only the surviving payload, got %d", store.Metrics.PendingBytes.Load())
	}
}

func TestOverwriteRecomputesOldestAcrossSlots(t *testing.T) {
	store := New([]string{"Test"}, 4)
	first := time.Now()
	second := first.Add(time.Second)

	store.Insert(testChunk("msg00001", 0, 3, "aaa"), "src", first)
	store.Insert(testChunk("msg00001", 1, 3, "bbb"), "src", second)

	// Retransmit of the oldest slot, the other slot now bounds the message's age
	store.Insert(testChunk("msg00001", 0, 3, "aaa"), "src", first.Add(4*time.Second))

	info, err := store.Inspect("msg00001")
	if err != nil {
		t.Fatalf("unexpected inspect error: %v", err)
	}
	if !info.OldestArrival.Equal(second) {
		t.Errorf("expected oldest arrival %v after refreshing slot 0, got %v", second, info.OldestArrival)
	}

	// Overwriting a slot that is not the oldest leaves the oldest untouched
	store.Insert(testChunk("msg00001", 1, 3, "bbb"), "src", first.Add(5*time.Second))
	info, err = store.Inspect("msg00001")
	if err != nil {
		t.Fatalf("unexpected inspect error: %v", err)
	}
	if !info.OldestArrival.Equal(first.Add(4 * time.Second)) {
		t.Errorf("expected oldest arrival to move to slot 0's refresh time, got %v", info.OldestArrival)
	}
}

func TestDrop(t *testing.T) {
	store := New([]string{"Test"}, 4)
	now := time.Now()

	store.Insert(testChunk("msg00001", 0, 1, "aaa"), "src", now)

	if !store.Drop("msg00001") {
		t.Errorf("drop of existing message should report true")
	}
	if store.Has("msg00001") {
		t.Errorf("message should be gone after drop")
	}
	if store.Drop("msg00001") {
		t.Errorf("second drop should report false")
	}
	if store.Metrics.PendingMessages.Load() != 0 {
		t.Errorf("message gauge should be zero, got %d", store.Metrics.PendingMessages.Load())
	}
	if store.Metrics.PendingBytes.Load() != 0 {
		t.Errorf("byte gauge should be zero, got %d", store.Metrics.PendingBytes.Load())
	}
}

func TestSnapshotIDs(t *testing.T) {
	store := New([]string{"Test"}, 4)
	now := time.Now()

	expected := map[string]bool{"msg00001": true, "msg00002": true, "msg00003": true}
	for id := range expected {
		store.Insert(testChunk(id, 0, 2, "x"), "src", now)
	}

	ids := store.SnapshotIDs()
	if len(ids) != len(expected) {
		t.Fatalf("expected %d ids, got %d", len(expected), len(ids))
	}
	for _, id := range ids {
		if !expected[id] {
			t.Errorf("unexpected id in snapshot: %q", id)
		}
	}
}
