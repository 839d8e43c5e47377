package mpfs

import "fmt"

// Format is the tag stored in a container literal that identifies how its
// payload was produced.
type Format int

const (
	// FormatRaw containers transcode the file's bytes directly.
	FormatRaw Format = 0
	// FormatRLE8 containers transcode the RLE8-encoded bytes of the file. The
	// builder only produces these when explicitly enabled.
	FormatRLE8 Format = 1
	// FormatLZSS containers transcode the flattened LZSS token stream.
	FormatLZSS Format = 2
)

// ForbiddenCodes are the byte values that must never appear unescaped in a
// quoted literal: newline, carriage return, double quote, and backslash.
var ForbiddenCodes = [...]int{'\n', '\r', '"', '\\'}

// IsValid returns true if the format tag is one this module can decode.
func (f Format) IsValid() bool {
	return f == FormatRaw || f == FormatRLE8 || f == FormatLZSS
}

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "RAW"
	case FormatRLE8:
		return "RLE8"
	case FormatLZSS:
		return "LZSS"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}
