package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gelfgate/pkg/gelf"
)

// Renders one parsed message as a single log line.
// Leads with the event timestamp so batch flushes can order lines.
func formatAsText(message gelf.Message, envelope gelf.Envelope) (line string) {
	eventTime := envelope.ReceivedAt
	if message.Timestamp > 0 {
		seconds := int64(message.Timestamp)
		nanos := int64((message.Timestamp - float64(seconds)) * float64(time.Second))
		eventTime = time.Unix(seconds, nanos)
	}

	var builder strings.Builder
	builder.WriteString(eventTime.UTC().Format(time.RFC3339Nano))
	builder.WriteString(fmt.Sprintf(" host=%s", message.Host))
	builder.WriteString(fmt.Sprintf(" source=%s", envelope.Source))
	builder.WriteString(fmt.Sprintf(" level=%d", message.Level))
	if message.Facility != "" {
		builder.WriteString(fmt.Sprintf(" facility=%s", message.Facility))
	}

	// Stable ordering for the sender supplied fields
	keys := make([]string, 0, len(message.Additional))
	for key := range message.Additional {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		builder.WriteString(fmt.Sprintf(" %s=%v", key, message.Additional[key]))
	}

	builder.WriteString(" msg=")
	builder.WriteString(strings.ReplaceAll(message.ShortMessage, "\n", " "))
	line = builder.String()
	return
}
