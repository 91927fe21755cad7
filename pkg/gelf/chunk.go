// Wire format for chunked and unchunked log datagrams
package gelf

import "fmt"

// Reports whether a datagram carries the two byte chunked header magic
func IsChunked(data []byte) (chunked bool) {
	if len(data) < 2 {
		return
	}
	chunked = data[0] == chunkMagic0 && data[1] == chunkMagic1
	return
}

// Decodes the 12 byte chunk header and body.
// Callers must have already checked IsChunked.
func ParseChunk(data []byte) (chunk Chunk, err error) {
	if len(data) < ChunkHeaderSize {
		err = fmt.Errorf("datagram too short for chunk header: %d bytes", len(data))
		return
	}
	if !IsChunked(data) {
		err = fmt.Errorf("datagram does not carry chunk magic")
		return
	}

	seqNumber := int(data[10])
	seqCount := int(data[11])

	if seqCount < 1 {
		err = fmt.Errorf("chunk declares zero total chunks")
		return
	}
	if seqCount > MaxChunks {
		err = fmt.Errorf("chunk declares %d total chunks, maximum is %d", seqCount, MaxChunks)
		return
	}
	if seqNumber >= seqCount {
		err = fmt.Errorf("chunk sequence number %d out of range for declared count %d", seqNumber, seqCount)
		return
	}

	// Copy out of the receive buffer, callers reuse it
	payload := make([]byte, len(data)-ChunkHeaderSize)
	copy(payload, data[ChunkHeaderSize:])

	chunk = Chunk{
		MessageID:      string(data[2 : 2+MessageIDSize]),
		SequenceNumber: seqNumber,
		SequenceCount:  seqCount,
		Payload:        payload,
	}
	return
}

// Hex form of a message id for log output
func FormatMessageID(id string) (formatted string) {
	formatted = fmt.Sprintf("%x", id)
	return
}
