package gelf

const (
	// Chunked datagram header layout
	chunkMagic0 byte = 0x1e
	chunkMagic1 byte = 0x0f

	ChunkHeaderSize = 12 // magic(2) + message id(8) + seq number(1) + seq count(1)
	MessageIDSize   = 8

	// MaxChunks is the highest sequence count a sender may declare.
	// A one byte counter caps the wire format at 255 either way; the
	// conventional limit is 128.
	MaxChunks = 128

	// Compression magic for unchunked payloads
	gzipMagic0 byte = 0x1f
	gzipMagic1 byte = 0x8b
	zlibMagic  byte = 0x78
)

// Encoding of an unchunked payload
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingGzip
	EncodingZlib
	EncodingRaw // uncompressed JSON
)

func (enc Encoding) String() (name string) {
	switch enc {
	case EncodingGzip:
		name = "gzip"
	case EncodingZlib:
		name = "zlib"
	case EncodingRaw:
		name = "raw"
	default:
		name = "unknown"
	}
	return
}
