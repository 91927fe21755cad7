package processor

import (
	"context"
	"testing"
	"time"

	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
	"gelfgate/internal/receiver/pending"
	"gelfgate/pkg/gelf"
)

func newTestProcessor(t *testing.T) (instance *Instance, store *pending.Store, outbox *mpmc.Queue[gelf.Envelope]) {
	t.Helper()

	inbox, err := mpmc.New[listener.Container]([]string{"Test"}, 16)
	if err != nil {
		t.Fatalf("failed to create inbox: %v", err)
	}
	outbox, err = mpmc.New[gelf.Envelope]([]string{"Test"}, 16)
	if err != nil {
		t.Fatalf("failed to create outbox: %v", err)
	}

	store = pending.New([]string{"Test"}, 4)
	instance = New([]string{"Test"}, inbox, store, outbox)
	return
}

func chunkDatagram(id string, seq, count byte, payload string) (data []byte) {
	data = []byte{0x1e, 0x0f}
	data = append(data, []byte(id)...)
	data = append(data, seq, count)
	data = append(data, []byte(payload)...)
	return
}

func TestHandleChunkBuffered(t *testing.T) {
	instance, store, _ := newTestProcessor(t)

	entry := listener.Container{
		Data: chunkDatagram("abcdefgh", 0, 2, "hello"),
		Meta: listener.Metadata{RemoteAddr: "10.0.0.1:5555", ReceivedAt: time.Now()},
	}
	instance.handle(context.Background(), entry)

	if !store.Has("abcdefgh") {
		t.Errorf("chunk should be buffered under its message id")
	}
	if instance.Metrics.ChunksBuffered.Load() != 1 {
		t.Errorf("expected chunk buffered metric of 1")
	}

	info, err := store.Inspect("abcdefgh")
	if err != nil {
		t.Fatalf("unexpected inspect error: %v", err)
	}
	if info.Source != "10.0.0.1:5555" {
		t.Errorf("expected source from chunk zero, got %q", info.Source)
	}
}

func TestHandleMalformedChunkDropped(t *testing.T) {
	instance, store, _ := newTestProcessor(t)

	// Chunk magic but sequence number out of range
	entry := listener.Container{
		Data: chunkDatagram("abcdefgh", 5, 2, "bad"),
		Meta: listener.Metadata{RemoteAddr: "src", ReceivedAt: time.Now()},
	}
	instance.handle(context.Background(), entry)

	if store.Has("abcdefgh") {
		t.Errorf("malformed chunk should not be buffered")
	}
	if instance.Metrics.MalformedChunks.Load() != 1 {
		t.Errorf("expected malformed chunk metric of 1")
	}
}

func TestHandleUnchunkedPassedThrough(t *testing.T) {
	instance, _, outbox := newTestProcessor(t)
	raw := []byte(`{"version":"1.1","host":"a","short_message":"x"}`)

	entry := listener.Container{
		Data: raw,
		Meta: listener.Metadata{RemoteAddr: "src", ReceivedAt: time.Now()},
	}
	instance.handle(context.Background(), entry)

	envelope, ok := outbox.Pop(context.Background())
	if !ok {
		t.Fatalf("expected envelope on output queue")
	}
	if string(envelope.Data) != string(raw) {
		t.Errorf("envelope data mismatch")
	}
	if envelope.Source != "src" {
		t.Errorf("envelope source mismatch: %q", envelope.Source)
	}
	if instance.Metrics.UnchunkedPassed.Load() != 1 {
		t.Errorf("expected unchunked metric of 1")
	}
}

func TestHandleUnknownEncodingDropped(t *testing.T) {
	instance, store, outbox := newTestProcessor(t)

	entry := listener.Container{
		Data: []byte{0xde, 0xad, 0xbe, 0xef},
		Meta: listener.Metadata{RemoteAddr: "src", ReceivedAt: time.Now()},
	}
	instance.handle(context.Background(), entry)

	if instance.Metrics.UnknownEncoding.Load() != 1 {
		t.Errorf("expected unknown encoding metric of 1")
	}
	if outbox.Depth() != 0 {
		t.Errorf("unknown encoding datagram should not reach output")
	}
	if len(store.SnapshotIDs()) != 0 {
		t.Errorf("unknown encoding datagram should not be buffered")
	}
}

func TestRunDrainsInbox(t *testing.T) {
	inbox, err := mpmc.New[listener.Container]([]string{"Test"}, 16)
	if err != nil {
		t.Fatalf("failed to create inbox: %v", err)
	}
	outbox, err := mpmc.New[gelf.Envelope]([]string{"Test"}, 16)
	if err != nil {
		t.Fatalf("failed to create outbox: %v", err)
	}
	store := pending.New([]string{"Test"}, 4)
	instance := New([]string{"Test"}, inbox, store, outbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		instance.Run(ctx)
		close(done)
	}()

	inbox.Push(listener.Container{
		Data: chunkDatagram("abcdefgh", 0, 2, "hello"),
		Meta: listener.Metadata{RemoteAddr: "src", ReceivedAt: time.Now()},
	})

	deadline := time.Now().Add(2 * time.Second)
	for !store.Has("abcdefgh") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("worker did not stop after context cancel")
	}

	if !store.Has("abcdefgh") {
		t.Errorf("worker never buffered the queued chunk")
	}
}
