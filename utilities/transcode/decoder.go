package transcode

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/mpfs"
)

// Decoder reads symbols out of a transcoded payload one at a time. It only
// keeps an index into the payload, so it can be reset and replayed cheaply.
type Decoder struct {
	payload []byte
	pos     int

	// escape is the escape code for this table, derived from the final pair.
	// It's -1 (never a byte value) if the table is empty.
	escape       int
	replacements [256]int
	hasMapping   [256]bool
}

// NewDecoder creates a decoder for a payload produced by [Encode] with the
// given replacement table.
//
// The table is read as (substitute, original+128) pairs; the escape code is the
// second byte of the final pair minus 128. An empty table has no
// substitutions and no escape code.
func NewDecoder(table, payload []byte) (*Decoder, error) {
	if len(table)%2 != 0 {
		return nil, mpfs.ErrCorruptData.WithMessage(
			fmt.Sprintf("replacement table has odd length %d", len(table)))
	}

	decoder := &Decoder{
		payload: payload,
		escape:  -1,
	}
	for i := 0; i < len(table); i += 2 {
		decoder.replacements[table[i]] = int(table[i+1]) - 128
		decoder.hasMapping[table[i]] = true
	}
	if len(table) > 0 {
		decoder.escape = int(table[len(table)-1]) - 128
	}
	return decoder, nil
}

// Next returns the next decoded symbol. This is either a byte value in
// [0, 255] or one of the sentinels the payload was encoded with. It returns
// [io.EOF] at the end of the payload.
func (d *Decoder) Next() (int, error) {
	if d.pos >= len(d.payload) {
		return 0, io.EOF
	}

	b := d.payload[d.pos]
	d.pos++

	if int(b) == d.escape {
		if d.pos >= len(d.payload) {
			return 0, mpfs.ErrCorruptData.WithMessage(
				"escape code at end of payload").Wrap(io.ErrUnexpectedEOF)
		}
		escaped := d.payload[d.pos]
		d.pos++
		return (int(escaped) + 128) % 256, nil
	}

	if d.hasMapping[b] {
		return d.replacements[b], nil
	}
	return int(b), nil
}

// Offset gives the index of the next unread byte in the payload.
func (d *Decoder) Offset() int {
	return d.pos
}

// Reset moves the decoder back to the start of the payload.
func (d *Decoder) Reset() {
	d.pos = 0
}

// Decode reverses [Encode], returning the full symbol stream.
func Decode(table, payload []byte) ([]int, error) {
	decoder, err := NewDecoder(table, payload)
	if err != nil {
		return nil, err
	}

	symbols := make([]int, 0, len(payload))
	for {
		symbol, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			return symbols, nil
		} else if err != nil {
			return symbols, err
		}
		symbols = append(symbols, symbol)
	}
}
