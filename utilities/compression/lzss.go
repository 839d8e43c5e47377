package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/mpfs"
)

const (
	// LZSSSentinel marks the start of a back-reference in a token stream. It's
	// outside [0, 255] so it can never be confused with a literal byte.
	LZSSSentinel = -1
	// LZSSMinMatchLength is the shortest run worth encoding as a back-reference.
	// Anything shorter costs more as a three-symbol token than as literals.
	LZSSMinMatchLength = 4
	// LZSSMaxMatchLength is the longest back-reference the six length bits can
	// hold.
	LZSSMaxMatchLength = 0x3F + LZSSMinMatchLength
)

// SymbolFunc returns the next symbol of a token stream, or [io.EOF] when the
// stream is exhausted.
type SymbolFunc func() (int, error)

// CompressLZSS encodes `data` as a stream of literal and back-reference tokens.
//
// A literal is the byte value itself. A back-reference is three symbols:
//
//	LZSSSentinel, offset & 0xFF, (length - 4) | ((offset & 0x300) >> 2)
//
// where `offset` is a logical position in the [Window] and `length` is the
// number of bytes to copy from there.
func CompressLZSS(data []byte) []int {
	tokens := make([]int, 0, len(data))
	var window Window

	for i := 0; i < len(data); {
		bestOffset, bestLength := window.longestMatch(data, i)

		if bestLength >= LZSSMinMatchLength {
			tokens = append(
				tokens,
				LZSSSentinel,
				bestOffset&0xFF,
				(bestLength-LZSSMinMatchLength)|((bestOffset&0x300)>>2),
			)
		} else {
			bestLength = 1
			tokens = append(tokens, int(data[i]))
		}

		window.Append(data[i : i+bestLength]...)
		i += bestLength
	}
	return tokens
}

// longestMatch brute-force searches every slot in the window for the longest
// run matching `data` beginning at `start`. The first longest match found wins.
// It returns -1 for both values if no slot matches even a single byte.
//
// A run still open when the scan passes the last slot is discarded, as is a
// slot that ended the previous run; neither is scored.
func (w *Window) longestMatch(data []byte, start int) (int, int) {
	bestOffset := -1
	bestLength := -1
	matchStart := -1
	next := 0

	for j := 0; j < WindowSize; j++ {
		slot := w.At(j)
		if matchStart < 0 {
			if slot == data[start] {
				matchStart = j
				next = start + 1
			}
			continue
		}

		// A run ends at the end of the input, on a mismatch, or when it's as
		// long as a token can express.
		if next >= len(data) || slot != data[next] || next-start >= LZSSMaxMatchLength {
			length := j - matchStart
			if length > bestLength {
				bestOffset = matchStart
				bestLength = length
			}
			matchStart = -1
		} else {
			next++
		}
	}
	return bestOffset, bestLength
}

// DecompressLZSS reverses [CompressLZSS].
func DecompressLZSS(tokens []int) ([]byte, error) {
	var expander LZSSExpander
	output := make([]byte, 0, len(tokens))

	pos := 0
	next := func() (int, error) {
		if pos >= len(tokens) {
			return 0, io.EOF
		}
		symbol := tokens[pos]
		pos++
		return symbol, nil
	}

	for {
		b, err := expander.ReadByte(next)
		if errors.Is(err, io.EOF) {
			return output, nil
		} else if err != nil {
			return output, fmt.Errorf("token %d: %w", pos, err)
		}
		output = append(output, b)
	}
}

////////////////////////////////////////////////////////////////////////////////

// LZSSExpander replays a token stream one output byte at a time. It holds the
// window and the not-yet-delivered bytes of the last back-reference, so memory
// use is bounded regardless of the size of the decompressed data.
type LZSSExpander struct {
	window     Window
	pending    []byte
	pendingPos int
}

// ReadByte returns the next decompressed byte, pulling tokens from `next` only
// when the bytes of the previous back-reference have all been delivered.
//
// [io.EOF] from `next` at a token boundary is passed through unchanged.
func (e *LZSSExpander) ReadByte(next SymbolFunc) (byte, error) {
	if e.pendingPos < len(e.pending) {
		b := e.pending[e.pendingPos]
		e.pendingPos++
		return b, nil
	}

	symbol, err := next()
	if err != nil {
		return 0, err
	}

	if symbol != LZSSSentinel {
		if symbol < 0 || symbol > 255 {
			return 0, mpfs.ErrDataRange.WithMessage(
				fmt.Sprintf("literal %d not in [0, 255]", symbol))
		}
		e.window.Append(byte(symbol))
		return byte(symbol), nil
	}

	b1, err := nextReferenceByte(next)
	if err != nil {
		return 0, err
	}
	b2, err := nextReferenceByte(next)
	if err != nil {
		return 0, err
	}

	offset := b1 | ((b2 & 0xC0) << 2)
	length := (b2 & 0x3F) + LZSSMinMatchLength
	if offset+length > WindowSize {
		return 0, mpfs.ErrCorruptData.WithMessage(
			fmt.Sprintf(
				"back-reference of %d bytes at offset %d runs off the end of the window",
				length,
				offset,
			),
		)
	}

	e.pending = e.window.CopyOut(e.pending[:0], offset, length)
	e.window.Append(e.pending...)
	e.pendingPos = 1
	return e.pending[0], nil
}

// Reset discards all state so the expander can replay a stream from the start.
func (e *LZSSExpander) Reset() {
	e.window.Reset()
	e.pending = e.pending[:0]
	e.pendingPos = 0
}

func nextReferenceByte(next SymbolFunc) (int, error) {
	value, err := next()
	if errors.Is(err, io.EOF) {
		return 0, mpfs.ErrCorruptData.WithMessage("truncated back-reference").Wrap(
			io.ErrUnexpectedEOF)
	} else if err != nil {
		return 0, err
	}

	if value < 0 || value > 255 {
		return 0, mpfs.ErrDataRange.WithMessage(
			fmt.Sprintf("back-reference byte %d not in [0, 255]", value))
	}
	return value, nil
}
