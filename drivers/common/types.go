// Package common contains the container decoding variants shared by every
// stream implementation.
package common

import (
	"fmt"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/utilities/compression"
	"github.com/dargueta/mpfs/utilities/transcode"
)

// NewSymbolReader creates the decoding variant for the container's format.
// Each call returns a reader with its own private state.
func NewSymbolReader(container mpfs.Container) (mpfs.SymbolReader, error) {
	decoder, err := transcode.NewDecoder(container.Table, container.Payload)
	if err != nil {
		return nil, err
	}

	switch container.Format {
	case mpfs.FormatRaw:
		return &RawReader{decoder: decoder}, nil
	case mpfs.FormatRLE8:
		return &RLE8Reader{decoder: decoder, expander: compression.NewRLE8Expander()}, nil
	case mpfs.FormatLZSS:
		return &LZSSReader{decoder: decoder}, nil
	default:
		return nil, mpfs.ErrUnknownFormat.WithMessage(
			fmt.Sprintf("unknown file format: %d", int(container.Format)))
	}
}

// -----------------------------------------------------------------------------

// RawReader decodes containers whose payload is the file's bytes.
type RawReader struct {
	decoder *transcode.Decoder
}

func (r *RawReader) ReadSymbol() (byte, error) {
	symbol, err := r.decoder.Next()
	if err != nil {
		return 0, err
	}
	if symbol < 0 || symbol > 255 {
		return 0, mpfs.ErrDataRange.WithMessage(
			fmt.Sprintf("raw payload decoded to non-byte symbol %d", symbol))
	}
	return byte(symbol), nil
}

func (r *RawReader) Reset() {
	r.decoder.Reset()
}

// -----------------------------------------------------------------------------

// LZSSReader decodes containers whose payload is an LZSS token stream, keeping
// its own window and pending back-reference bytes.
type LZSSReader struct {
	decoder  *transcode.Decoder
	expander compression.LZSSExpander
}

func (r *LZSSReader) ReadSymbol() (byte, error) {
	return r.expander.ReadByte(r.decoder.Next)
}

func (r *LZSSReader) Reset() {
	r.decoder.Reset()
	r.expander.Reset()
}

// -----------------------------------------------------------------------------

// RLE8Reader decodes containers whose payload is RLE8-encoded.
type RLE8Reader struct {
	decoder  *transcode.Decoder
	expander *compression.RLE8Expander
}

func (r *RLE8Reader) ReadSymbol() (byte, error) {
	return r.expander.ReadByte(r.decoder.Next)
}

func (r *RLE8Reader) Reset() {
	r.decoder.Reset()
	r.expander.Reset()
}
