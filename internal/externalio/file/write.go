package file

import (
	"sort"
	"strings"
	"time"
)

// Buffers one formatted log line for the next batch write
func (mod *OutModule) Write(entry string) (linesWritten int, err error) {
	if mod == nil {
		return
	}

	// Always ensure outputs have only one trailing newline
	newLine := strings.TrimRight(entry, "\n") + "\n"

	// Buffer small amount to reorder and write in batches
	*mod.batchBuffer = append(*mod.batchBuffer, newLine)

	// Batch 20 at a time
	if len(*mod.batchBuffer) > 20 {
		linesWritten, err = mod.FlushBuffer()
		if err != nil {
			return
		}
	}

	return
}

// Flushes line buffer to the file, oldest entries first
func (mod *OutModule) FlushBuffer() (flushedCnt int, err error) {
	if mod == nil || mod.batchBuffer == nil {
		return
	}

	if len(*mod.batchBuffer) == 0 {
		return
	}

	sort.Slice(*mod.batchBuffer, func(i, j int) bool {
		// Extract timestamp prefix (up to first space)
		getTime := func(s string) time.Time {
			ts := s
			if idx := strings.IndexByte(s, ' '); idx != -1 {
				ts = s[:idx]
			}
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return time.Time{} // zero time on error
			}
			return t
		}

		ti := getTime((*mod.batchBuffer)[i])
		tj := getTime((*mod.batchBuffer)[j])

		return ti.Before(tj)
	})

	for _, line := range *mod.batchBuffer {
		data := []byte(line)
		for len(data) > 0 {
			var n int
			n, err = mod.sink.Write(data)
			if err != nil {
				return
			}
			data = data[n:] // remove the bytes that were successfully written
		}
		flushedCnt++
	}

	*mod.batchBuffer = (*mod.batchBuffer)[:0]
	return
}

// Flushes remaining lines and closes the file
func (mod *OutModule) Close() (err error) {
	if mod == nil {
		return
	}
	_, err = mod.FlushBuffer()
	if err != nil {
		return
	}
	err = mod.sink.Close()
	return
}
