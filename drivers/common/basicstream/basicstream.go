// Package basicstream implements a read-only, seekable file-like abstraction
// over a container that never holds more than one decoded back-reference in
// memory.
package basicstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/mpfs"
	c "github.com/dargueta/mpfs/drivers/common"
)

// readChunkSize is the most [BasicStream.ReadN] allocates up front.
const readChunkSize = 512

var _ io.ReadSeekCloser = (*BasicStream)(nil)
var _ io.ByteReader = (*BasicStream)(nil)
var _ io.WriterTo = (*BasicStream)(nil)

// BasicStream is a file-like wrapper around a container that emulates the
// read-only subset of the functionality provided by an [os.File] instance.
//
// Data is decoded on demand. Seeking forward decodes and discards bytes;
// seeking backward restarts decoding from the beginning of the file, so it
// costs time proportional to the target offset.
type BasicStream struct {
	size     int64
	position int64
	source   mpfs.SymbolReader
	closed   bool
}

// New creates a BasicStream on top of a container. The container isn't
// modified, and any number of streams can be open on the same container.
func New(container mpfs.Container) (*BasicStream, error) {
	if container.Size < 0 {
		return nil, mpfs.ErrCorruptData.WithMessage(
			fmt.Sprintf("invalid declared size: %d", container.Size))
	}

	source, err := c.NewSymbolReader(container)
	if err != nil {
		return nil, err
	}

	return &BasicStream{
		size:   container.Size,
		source: source,
	}, nil
}

func (stream *BasicStream) checkOpen() error {
	if stream.closed {
		return mpfs.ErrState.WithMessage("file is closed")
	}
	return nil
}

// Close releases the decode state. The stream can't be used afterwards.
func (stream *BasicStream) Close() error {
	if err := stream.checkOpen(); err != nil {
		return err
	}
	stream.closed = true
	stream.source = nil
	return nil
}

// Closed returns true if [BasicStream.Close] has been called.
func (stream *BasicStream) Closed() bool {
	return stream.closed
}

// Read implements [io.Reader]. If fewer than len(buffer) bytes remain, it
// returns what it got along with [io.EOF].
func (stream *BasicStream) Read(buffer []byte) (int, error) {
	if err := stream.checkOpen(); err != nil {
		return 0, err
	}

	for i := range buffer {
		b, err := stream.source.ReadSymbol()
		if err != nil {
			return i, err
		}
		buffer[i] = b
		stream.position++
	}
	return len(buffer), nil
}

// ReadByte implements [io.ByteReader].
func (stream *BasicStream) ReadByte() (byte, error) {
	if err := stream.checkOpen(); err != nil {
		return 0, err
	}

	b, err := stream.source.ReadSymbol()
	if err != nil {
		return 0, err
	}
	stream.position++
	return b, nil
}

// ReadN reads up to `n` bytes, stopping early only at the end of the file. If
// `n` is negative, it reads everything up to the end of the file. Reaching the
// end of the file is not an error; an empty slice means nothing was left.
func (stream *BasicStream) ReadN(n int) ([]byte, error) {
	if err := stream.checkOpen(); err != nil {
		return nil, err
	}

	// `n` and the declared size can both be far larger than the actual data.
	capacity := int64(readChunkSize)
	if n >= 0 && int64(n) < capacity {
		capacity = int64(n)
	}
	if remaining := stream.size - stream.position; remaining < capacity {
		capacity = remaining
	}
	if capacity < 0 {
		capacity = 0
	}
	data := make([]byte, 0, capacity)

	for n < 0 || len(data) < n {
		b, err := stream.source.ReadSymbol()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return data, err
		}
		data = append(data, b)
		stream.position++
	}
	return data, nil
}

// Seek moves the stream pointer to `offset` bytes from the origin specified in
// `whence`. It must be one of [io.SeekStart], [io.SeekCurrent], or [io.SeekEnd].
//
// Seeking past the end of the file is allowed; reads from there return no data.
func (stream *BasicStream) Seek(offset int64, whence int) (int64, error) {
	if err := stream.checkOpen(); err != nil {
		return 0, err
	}

	var absoluteOffset int64
	switch whence {
	case io.SeekStart:
		absoluteOffset = offset
	case io.SeekCurrent:
		absoluteOffset = stream.position + offset
	case io.SeekEnd:
		absoluteOffset = stream.size + offset
	default:
		return stream.position,
			mpfs.ErrState.WithMessage(fmt.Sprintf("invalid whence: %d", whence))
	}

	if absoluteOffset < 0 {
		return stream.position,
			mpfs.ErrState.WithMessage(
				fmt.Sprintf(
					"result of Seek(offset=%d, whence=%d) is negative",
					offset,
					whence,
				),
			)
	}

	// The decoder can only go forward. To go backward, start over.
	if absoluteOffset < stream.position {
		stream.source.Reset()
		stream.position = 0
	}

	err := stream.skip(absoluteOffset - stream.position)
	if err != nil {
		return stream.position, err
	}

	stream.position = absoluteOffset
	return absoluteOffset, nil
}

// skip decodes and discards up to `count` bytes. Running out of data is not an
// error.
func (stream *BasicStream) skip(count int64) error {
	for ; count > 0; count-- {
		_, err := stream.source.ReadSymbol()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		stream.position++
	}
	return nil
}

// Size returns the declared size of the file, in bytes. This never requires
// decoding.
func (stream *BasicStream) Size() int64 {
	return stream.size
}

// Tell returns the current stream position. It's a more concise way of calling
// `Seek(0, io.SeekCurrent)`.
func (stream *BasicStream) Tell() (int64, error) {
	if err := stream.checkOpen(); err != nil {
		return 0, err
	}
	return stream.position, nil
}

// WriteTo implements [io.WriterTo], writing everything from the current
// position to the end of the file.
func (stream *BasicStream) WriteTo(w io.Writer) (int64, error) {
	buffer := make([]byte, readChunkSize)
	totalWritten := int64(0)

	for {
		n, readErr := stream.Read(buffer)

		// Always write the data we've read in regardless of whether an error
		// occurred or not.
		if n > 0 {
			written, writeErr := w.Write(buffer[:n])
			totalWritten += int64(written)
			if writeErr != nil {
				return totalWritten, writeErr
			}
		}

		// If we hit EOF, we're done. Any other error is fatal.
		if errors.Is(readErr, io.EOF) {
			return totalWritten, nil
		} else if readErr != nil {
			return totalWritten, readErr
		}
	}
}
