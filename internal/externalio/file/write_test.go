package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteBuffersUntilFlush(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.log")

	mod, err := NewOutput(outPath)
	if err != nil {
		t.Fatalf("failed to create file output: %v", err)
	}

	// Below the batch threshold nothing reaches the file yet
	for i := 0; i < 3; i++ {
		n, err := mod.Write("2025-06-01T12:30:00Z line\n")
		if err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected buffered write to report 0 lines, got %d", n)
		}
	}

	flushed, err := mod.FlushBuffer()
	if err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if flushed != 3 {
		t.Errorf("expected flush to report 3 lines, got %d", flushed)
	}

	// Buffer is drained, a second flush reports nothing
	flushed, err = mod.FlushBuffer()
	if err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if flushed != 0 {
		t.Errorf("expected empty flush to report 0 lines, got %d", flushed)
	}

	if err := mod.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	contents, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if strings.Count(string(contents), "\n") != 3 {
		t.Errorf("expected 3 lines on disk, got %q", contents)
	}
}
