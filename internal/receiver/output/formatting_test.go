package output

import (
	"strings"
	"testing"
	"time"

	"gelfgate/pkg/gelf"
)

func TestFormatAsText(t *testing.T) {
	message := gelf.Message{
		Version:      "1.1",
		Host:         "web01",
		ShortMessage: "request failed",
		Timestamp:    1693212345.5,
		Level:        3,
		Facility:     "nginx",
		Additional:   map[string]interface{}{"_request_id": "abc-123"},
	}
	envelope := gelf.Envelope{
		Source:     "10.0.0.1:5555",
		ReceivedAt: time.Now(),
	}

	line := formatAsText(message, envelope)

	expected := time.Unix(1693212345, int64(500*time.Millisecond)).UTC().Format(time.RFC3339Nano)
	if !strings.HasPrefix(line, expected) {
		t.Errorf("line should lead with the sender timestamp, got %q", line)
	}
	for _, substr := range []string{"host=web01", "source=10.0.0.1:5555", "level=3", "facility=nginx", "_request_id=abc-123", "msg=request failed"} {
		if !strings.Contains(line, substr) {
			t.Errorf("line missing %q: %q", substr, line)
		}
	}
}

func TestFormatAsTextFallsBackToReceiveTime(t *testing.T) {
	received := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	message := gelf.Message{Host: "a", ShortMessage: "x"}
	envelope := gelf.Envelope{Source: "src", ReceivedAt: received}

	line := formatAsText(message, envelope)
	if !strings.HasPrefix(line, received.Format(time.RFC3339Nano)) {
		t.Errorf("line should lead with receive time when sender timestamp absent, got %q", line)
	}
}

func TestFormatAsTextFlattensNewlines(t *testing.T) {
	message := gelf.Message{Host: "a", ShortMessage: "line one\nline two"}
	envelope := gelf.Envelope{Source: "src", ReceivedAt: time.Now()}

	line := formatAsText(message, envelope)
	if strings.Contains(line, "\n") {
		t.Errorf("formatted line must stay on one line: %q", line)
	}
}
