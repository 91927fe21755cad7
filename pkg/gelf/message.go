package gelf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Identifies the compression (or lack of) on an unchunked payload by its leading bytes
func DetectEncoding(data []byte) (enc Encoding) {
	enc = EncodingUnknown
	if len(data) < 2 {
		return
	}

	switch {
	case data[0] == gzipMagic0 && data[1] == gzipMagic1:
		enc = EncodingGzip
	case data[0] == zlibMagic:
		enc = EncodingZlib
	case data[0] == '{':
		enc = EncodingRaw
	}
	return
}

// Decompresses a payload according to its detected encoding
func Uncompress(data []byte) (plain []byte, enc Encoding, err error) {
	enc = DetectEncoding(data)

	var reader io.ReadCloser
	switch enc {
	case EncodingGzip:
		reader, err = gzip.NewReader(bytes.NewReader(data))
	case EncodingZlib:
		reader, err = zlib.NewReader(bytes.NewReader(data))
	case EncodingRaw:
		plain = data
		return
	default:
		err = fmt.Errorf("unrecognized payload encoding (leading bytes %x)", data[:min(len(data), 2)])
		return
	}
	if err != nil {
		err = fmt.Errorf("failed to open %s reader: %v", enc, err)
		return
	}
	defer reader.Close()

	plain, err = io.ReadAll(reader)
	if err != nil {
		err = fmt.Errorf("failed to decompress %s payload: %v", enc, err)
		return
	}
	return
}

// Decompresses and unmarshals a payload into a message.
// Fields prefixed with an underscore land in Additional.
func Parse(data []byte) (message Message, err error) {
	plain, _, err := Uncompress(data)
	if err != nil {
		return
	}

	err = json.Unmarshal(plain, &message)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal message json: %v", err)
		return
	}

	if message.Host == "" {
		err = fmt.Errorf("message is missing required host field")
		return
	}
	if message.ShortMessage == "" {
		err = fmt.Errorf("message is missing required short_message field")
		return
	}

	// Second pass for additional fields
	var raw map[string]interface{}
	err = json.Unmarshal(plain, &raw)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal message fields: %v", err)
		return
	}

	for key, value := range raw {
		if !strings.HasPrefix(key, "_") {
			continue
		}
		if key == "_id" {
			// Reserved, senders must not set it
			continue
		}
		if message.Additional == nil {
			message.Additional = make(map[string]interface{})
		}
		message.Additional[key] = value
	}
	return
}
