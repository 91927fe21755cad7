package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"gelfgate/internal/logctx"
)

// Uses logger in context to search logger buffer for events matching filter (must match all 3 filters if filters are not empty)
func filterLogBuffer(ctx context.Context, searchText, searchTag, searchSeverity string) (matches string, found bool) {
	logger := logctx.GetLogger(ctx)
	if logger == nil {
		return
	}

	lines := logger.GetFormattedLogLines()

	bracketRe := regexp.MustCompile(`\[[^\]]*\]`)
	var re *regexp.Regexp
	if searchTag != "" {
		re = regexp.MustCompile(regexp.QuoteMeta(searchTag)) // just match the tag
	}

	var foundLines []string
	lastMsg := ""

	// Regex to strip the timestamp prefix [YYYY-MM-DDThh:mm:ss...]
	timestampRe := regexp.MustCompile(`^\[[^\]]*\]\s*`)

	for _, line := range lines {
		// Remove the timestamp for comparison
		msgOnly := timestampRe.ReplaceAllString(line, "")

		// Skip partial duplicates (same message ignoring timestamp)
		if msgOnly == lastMsg {
			continue
		}

		// Filter by tag if searchTag is non-empty
		if re != nil {
			brackets := bracketRe.FindAllString(line, -1)
			foundTag := false
			for _, b := range brackets {
				if re.MatchString(b) {
					foundTag = true
					break
				}
			}
			if !foundTag {
				continue
			}
		}

		// Filter by severity if searchSeverity is non-empty
		if searchSeverity != "" && !strings.Contains(line, "["+searchSeverity+"]") {
			continue
		}

		// Filter by text if searchText is non-empty
		if searchText != "" && !strings.Contains(line, searchText) {
			continue
		}

		// Passed all filters, include line
		foundLines = append(foundLines, line)
		found = true
		lastMsg = msgOnly
	}

	matches = strings.Join(foundLines, "\n")
	return
}

// For watching for output of receiver pipeline
func waitForCompleteLines(path string, expected int) (lines []string, err error) {
	deadline := time.Now().Add(10 * time.Second) // Default timeout

	var (
		lastSize    int64 = -1
		stableSince time.Time
	)

	for {
		if time.Now().After(deadline) {
			err = fmt.Errorf("timeout waiting for %d complete lines, have %d", expected, len(lines))
			return
		}

		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				err = nil
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return
		}

		curSize := int64(len(data))
		if curSize != lastSize {
			// file changed
			lastSize = curSize
			stableSince = time.Now()
		}

		// split lines, discarding the incomplete final line
		rawLines := bytes.Split(data, []byte("\n"))
		if len(rawLines) > 0 && len(rawLines[len(rawLines)-1]) == 0 {
			rawLines = rawLines[:len(rawLines)-1]
		}

		if len(rawLines) >= expected {
			// Has file been quiet long enough?
			if time.Since(stableSince) >= 150*time.Millisecond {
				lines = lines[:0]
				for _, ln := range rawLines {
					lines = append(lines, string(ln))
				}
				return
			}
		}

		// otherwise wait and retry
		time.Sleep(2 * time.Millisecond)
	}
}

// Creates one GELF payload with required fields plus any sender supplied fields
func mockGelfJSON(host, shortMessage string, extra map[string]any) (payload []byte, err error) {
	fields := map[string]any{
		"version":       "1.1",
		"host":          host,
		"short_message": shortMessage,
		"timestamp":     float64(time.Now().UnixNano()) / float64(time.Second),
		"level":         6,
	}
	for key, value := range extra {
		fields[key] = value
	}

	payload, err = json.Marshal(fields)
	return
}

// Compresses a payload the way gzip senders do
func gzipPayload(plain []byte) (compressed []byte, err error) {
	var buffer bytes.Buffer
	writer := gzip.NewWriter(&buffer)
	_, err = writer.Write(plain)
	if err != nil {
		return
	}
	err = writer.Close()
	if err != nil {
		return
	}
	compressed = buffer.Bytes()
	return
}

// Splits one payload into the requested number of chunked datagrams
func mockChunkedDatagrams(messageID []byte, payload []byte, chunkCount int) (datagrams [][]byte, err error) {
	if len(messageID) != 8 {
		err = fmt.Errorf("message id must be exactly 8 bytes, got %d", len(messageID))
		return
	}
	if chunkCount < 1 || chunkCount > len(payload) {
		err = fmt.Errorf("cannot split %d payload bytes into %d chunks", len(payload), chunkCount)
		return
	}

	pieceSize := (len(payload) + chunkCount - 1) / chunkCount
	for seq := 0; seq < chunkCount; seq++ {
		start := seq * pieceSize
		end := start + pieceSize
		if end > len(payload) {
			end = len(payload)
		}

		datagram := make([]byte, 0, 12+end-start)
		datagram = append(datagram, 0x1e, 0x0f)
		datagram = append(datagram, messageID...)
		datagram = append(datagram, byte(seq), byte(chunkCount))
		datagram = append(datagram, payload[start:end]...)
		datagrams = append(datagrams, datagram)
	}
	return
}
