package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/mpfs"
)

// CompressRLE8 reads bytes from the input and writes compressed data to the
// output until the input is exhausted. The return value is the number of bytes
// written, only valid if no error occurred.
func CompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	grouper := NewRLEGrouper(input)

	totalBytesWritten := int64(0)
	for {
		run, getRunErr := grouper.GetNextRun()
		if getRunErr != nil && !errors.Is(getRunErr, io.EOF) {
			// An error was encountered and it's *not* EOF.
			return totalBytesWritten, getRunErr
		}

		for run.RunLength >= 2 {
			var repeatCount int
			if run.RunLength > 257 {
				repeatCount = 255
			} else {
				repeatCount = run.RunLength - 2
			}

			n, err := output.Write([]byte{run.Byte, run.Byte, byte(repeatCount)})
			if err != nil {
				return totalBytesWritten, err
			}
			totalBytesWritten += int64(n)
			run.RunLength -= repeatCount + 2
		}

		if run.RunLength == 1 {
			n, err := output.Write([]byte{run.Byte})
			if err != nil {
				return totalBytesWritten, err
			}
			totalBytesWritten += int64(n)
		}

		// We bail at the beginning of the loop if an error occurred and it's
		// *not* EOF, so if the error here is non-nil then that means it *must*
		// be EOF. That means we finished without errors.
		if getRunErr != nil {
			return totalBytesWritten, nil
		}
	}
}

// CompressRLE8Bytes is a convenience wrapper around [CompressRLE8] for data
// that's already in memory.
func CompressRLE8Bytes(data []byte) []byte {
	var buffer bytes.Buffer
	// Writes to a bytes.Buffer can't fail, and neither can reads from a
	// bytes.Reader other than EOF.
	_, _ = CompressRLE8(bytes.NewReader(data), &buffer)
	return buffer.Bytes()
}

// DecompressRLE8 expands RLE8 data from `input` into `output`. The returned
// int64 is the number of bytes written.
func DecompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	next := func() (int, error) {
		b, err := source.ReadByte()
		return int(b), err
	}

	expander := NewRLE8Expander()
	writer := bufio.NewWriter(output)
	totalBytesWritten := int64(0)

	for {
		b, err := expander.ReadByte(next)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			writer.Flush()
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		if err = writer.WriteByte(b); err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
		totalBytesWritten++
	}

	if err := writer.Flush(); err != nil {
		return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
	}
	return totalBytesWritten, nil
}

////////////////////////////////////////////////////////////////////////////////

// RLE8Expander decodes an RLE8 symbol stream one byte at a time. If a byte B
// occurs twice in a row, the following symbol is a count of how many more
// times B repeats.
type RLE8Expander struct {
	lastByte   byte
	hasLast    bool
	repeatByte byte
	remaining  int
}

// NewRLE8Expander creates an expander positioned at the start of a stream.
func NewRLE8Expander() *RLE8Expander {
	return &RLE8Expander{}
}

// ReadByte returns the next expanded byte, pulling symbols from `next` as
// needed. [io.EOF] from `next` between runs is passed through unchanged.
func (e *RLE8Expander) ReadByte(next SymbolFunc) (byte, error) {
	if e.remaining > 0 {
		e.remaining--
		return e.repeatByte, nil
	}

	symbol, err := next()
	if err != nil {
		return 0, err
	}
	if symbol < 0 || symbol > 255 {
		return 0, mpfs.ErrDataRange.WithMessage(
			fmt.Sprintf("RLE8 symbol %d not in [0, 255]", symbol))
	}

	current := byte(symbol)
	if !e.hasLast || current != e.lastByte {
		e.lastByte = current
		e.hasLast = true
		return current, nil
	}

	// Got two bytes in a row that are the same. The next symbol is a repeat
	// count.
	repeatCount, err := next()
	if errors.Is(err, io.EOF) {
		return 0, mpfs.ErrCorruptData.WithMessage(
			fmt.Sprintf("missing repeat count after two %02x bytes", current),
		).Wrap(io.ErrUnexpectedEOF)
	} else if err != nil {
		return 0, err
	}
	if repeatCount < 0 || repeatCount > 255 {
		return 0, mpfs.ErrDataRange.WithMessage(
			fmt.Sprintf("RLE8 repeat count %d not in [0, 255]", repeatCount))
	}

	// Reset the last byte read since we're done with this group. If we didn't
	// do this, runs of 258+ bytes would be decompressed incorrectly, adding in
	// extra bytes.
	e.hasLast = false
	e.repeatByte = current
	e.remaining = repeatCount
	return current, nil
}

// Reset discards all state so the expander can replay a stream from the start.
func (e *RLE8Expander) Reset() {
	*e = RLE8Expander{}
}
