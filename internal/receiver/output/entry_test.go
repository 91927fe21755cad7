package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gelfgate/internal/externalio/file"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/pkg/gelf"
)

func TestRunPeriodicFlushCountsFileWrites(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.log")

	fileMod, err := file.NewOutput(outPath)
	if err != nil {
		t.Fatalf("failed to create file output: %v", err)
	}

	queue, err := mpmc.New[gelf.Envelope]([]string{"Test"}, 8)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logctx.NewLogger("test", 1, ctx.Done())
	ctx = logctx.WithLogger(ctx, logger)

	instance := New([]string{"Test"}, queue, fileMod, nil)

	done := make(chan struct{})
	go func() {
		instance.Run(ctx)
		close(done)
	}()

	envelope := gelf.Envelope{
		Data:   []byte(`{"version":"1.1","host":"web01","short_message":"ticker flushed"}`),
		Source: "10.0.0.1:999",
	}
	if !queue.Push(envelope) {
		t.Fatalf("push to empty queue failed")
	}

	// A single buffered line is under the batch threshold, only the periodic
	// flush writes it, and that flush must be counted
	deadline := time.Now().Add(3 * time.Second)
	for instance.Metrics.SuccessfulFileWrites.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 counted file write from the periodic flush, got %d",
				instance.Metrics.SuccessfulFileWrites.Load())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	<-done

	contents, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if !strings.Contains(string(contents), "ticker flushed") {
		t.Errorf("output file missing the flushed message, got %q", contents)
	}
	if instance.Metrics.SuccessfulFileWrites.Load() != 1 {
		t.Errorf("expected exactly 1 counted file write, got %d",
			instance.Metrics.SuccessfulFileWrites.Load())
	}
}
