// Package charset detects and decodes the legacy encodings Croatian price
// lists are published in.
package charset

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingISO88592    Encoding = "iso-8859-2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseEncoding parses an encoding name. Empty means auto-detect and is
// returned as "".
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1250", "cp1250", "win1250":
		return EncodingWindows1250, nil
	case "iso-8859-2", "latin2", "latin-2":
		return EncodingISO88592, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// DetectEncoding detects the encoding of a byte buffer. Anything that is
// valid UTF-8 is taken as UTF-8; otherwise Windows-1250, the more common of
// the two single-byte encodings in practice.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) || utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1250
}

func decoderFor(enc Encoding) encoding.Encoding {
	switch enc {
	case EncodingWindows1250:
		return charmap.Windows1250
	case EncodingISO88592:
		return charmap.ISO8859_2
	default:
		return nil
	}
}

// Decode converts a byte buffer from the specified encoding to a UTF-8
// string. Data that is already valid UTF-8 is returned as is whatever enc
// says, since price-list publishers often mislabel their files.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	if enc == "" || enc == EncodingUTF8 {
		enc = EncodingWindows1250
	}
	dec := decoderFor(enc)
	if dec == nil {
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
	out, err := dec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return string(out), nil
}

// ToUTF8Reader wraps a reader with a decoder to convert to UTF-8
func ToUTF8Reader(r io.Reader, enc Encoding) io.Reader {
	dec := decoderFor(enc)
	if dec == nil {
		return r
	}
	return transform.NewReader(r, dec.NewDecoder())
}
