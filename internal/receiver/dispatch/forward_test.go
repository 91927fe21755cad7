package dispatch

import (
	"context"
	"testing"

	"gelfgate/internal/queue/mpmc"
	"gelfgate/pkg/gelf"
)

func TestForwardQueuesEnvelope(t *testing.T) {
	outbox, err := mpmc.New[gelf.Envelope]([]string{"Test"}, 8)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	forwarder := New([]string{"Test"}, outbox)

	err = forwarder.Forward(context.Background(), []byte("payload"), "10.0.0.1:5555")
	if err != nil {
		t.Fatalf("unexpected forward error: %v", err)
	}

	envelope, ok := outbox.Pop(context.Background())
	if !ok {
		t.Fatalf("expected queued envelope")
	}
	if string(envelope.Data) != "payload" {
		t.Errorf("unexpected data %q", envelope.Data)
	}
	if envelope.Source != "10.0.0.1:5555" {
		t.Errorf("unexpected source %q", envelope.Source)
	}
}

func TestForwardFailsWhenQueueFull(t *testing.T) {
	outbox, err := mpmc.New[gelf.Envelope]([]string{"Test"}, 2)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	forwarder := New([]string{"Test"}, outbox)

	outbox.Push(gelf.Envelope{})
	outbox.Push(gelf.Envelope{})

	err = forwarder.Forward(context.Background(), []byte("payload"), "src")
	if err == nil {
		t.Errorf("expected error when queue stays full")
	}
}
