package gelf

import "time"

// Single chunk of a multi-datagram message as received off the wire
type Chunk struct {
	MessageID      string // 8 raw header bytes, used as the correlation key
	SequenceNumber int    // position of this chunk (0 based)
	SequenceCount  int    // total chunks the sender declared
	Payload        []byte // body bytes after the 12 byte header
}

// Fully parsed log message
type Message struct {
	Version      string                 `json:"version"`
	Host         string                 `json:"host"`
	ShortMessage string                 `json:"short_message"`
	FullMessage  string                 `json:"full_message,omitempty"`
	Timestamp    float64                `json:"timestamp,omitempty"`
	Level        int                    `json:"level,omitempty"`
	Facility     string                 `json:"facility,omitempty"`
	Additional   map[string]interface{} `json:"-"`
}

// Reassembled (or unchunked) payload plus receive metadata
type Envelope struct {
	Data       []byte
	Source     string // remote address of the sender (chunk zero for reassembled messages)
	ReceivedAt time.Time
}
