package input

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type EncodingResult struct {
	Encoding string
	HasBOM   bool
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding recognises BOMs, BOM-less UTF-16 and valid UTF-8; anything
// else is assumed to be Windows-1252, which covers stray Latin-1 bytes in
// hand-edited inputs.
func DetectEncoding(data []byte) EncodingResult {
	switch {
	case len(data) == 0:
		return EncodingResult{Encoding: "utf-8"}
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingResult{Encoding: "utf-8", HasBOM: true}
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingResult{Encoding: "utf-16le", HasBOM: true}
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingResult{Encoding: "utf-16be", HasBOM: true}
	}

	if looksUTF16(data, 1) {
		return EncodingResult{Encoding: "utf-16le"}
	}
	if looksUTF16(data, 0) {
		return EncodingResult{Encoding: "utf-16be"}
	}

	if utf8.Valid(data) {
		return EncodingResult{Encoding: "utf-8"}
	}

	return EncodingResult{Encoding: "windows-1252"}
}

// looksUTF16 looks for the zero high bytes ASCII text has when encoded as
// UTF-16; offset 1 checks little-endian, offset 0 big-endian.
func looksUTF16(data []byte, offset int) bool {
	if len(data) < 2 || len(data)%2 != 0 {
		return false
	}

	nullCount := 0
	for i := offset; i < len(data); i += 2 {
		if data[i] == 0 {
			nullCount++
		}
	}

	return float64(nullCount)/float64(len(data)/2) > 0.75
}

func NormalizeToUTF8(data []byte, detected EncodingResult) string {
	if detected.HasBOM {
		switch detected.Encoding {
		case "utf-8":
			data = data[len(bomUTF8):]
		case "utf-16le", "utf-16be":
			data = data[len(bomUTF16LE):]
		}
	}

	switch detected.Encoding {
	case "utf-16le":
		return decodeWithFallback(data, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case "utf-16be":
		return decodeWithFallback(data, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	case "windows-1252":
		return decodeWithFallback(data, charmap.Windows1252.NewDecoder())
	default:
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}
}

func decodeWithFallback(data []byte, decoder *encoding.Decoder) string {
	if len(data) == 0 {
		return ""
	}

	reader := transform.NewReader(bytes.NewReader(data), decoder)
	result, err := io.ReadAll(reader)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}

	return string(bytes.ToValidUTF8(result, []byte("\uFFFD")))
}
