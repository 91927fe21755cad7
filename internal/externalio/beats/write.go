package beats

import (
	"os"
	"time"

	"gelfgate/internal/global"
	"gelfgate/pkg/gelf"
)

// Writes a parsed log message and associated metadata to the configured beats server
func (mod *OutModule) Write(message gelf.Message, envelope gelf.Envelope) (logsSent int, err error) {
	if mod == nil {
		return
	}

	// Sender timestamp when present, receive time otherwise
	eventTime := envelope.ReceivedAt
	if message.Timestamp > 0 {
		seconds := int64(message.Timestamp)
		nanos := int64((message.Timestamp - float64(seconds)) * float64(time.Second))
		eventTime = time.Unix(seconds, nanos)
	}

	fields := map[string]interface{}{
		// Minimum required fields
		"@timestamp": eventTime.Format(time.RFC3339Nano),
		"message":    message.ShortMessage,

		// Common fields
		"host": map[string]interface{}{
			"name":     message.Host,
			"hostname": message.Host,
			"ip":       envelope.Source,
		},
		"agent": map[string]interface{}{
			"name": message.Host,
			// Meta fields identifying the gelfgate daemon itself
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"type":    "filebeat",
			"pid":     os.Getpid(),
		},

		"log": map[string]interface{}{
			"level": message.Level,
			"syslog": map[string]interface{}{
				"facility": map[string]interface{}{
					"name": message.Facility,
				},
				"priority": message.Level,
			},
		},
	}

	if message.FullMessage != "" {
		fields["full_message"] = message.FullMessage
	}

	// Sender-supplied additional fields keep their underscore keys
	for key, value := range message.Additional {
		fields[key] = value
	}

	events := []interface{}{fields}

	logsSent, err = mod.sink.Send(events)
	if err != nil {
		return
	}
	return
}
