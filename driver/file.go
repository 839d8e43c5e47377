package driver

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/drivers/common/basicstream"
)

// FileInfo gives information about a file in the registry. It implements both
// the [os.FileInfo] and [os.DirEntry] interfaces.
type FileInfo struct {
	name      string
	container mpfs.Container
}

var _ os.FileInfo = (*FileInfo)(nil)
var _ os.DirEntry = (*FileInfo)(nil)

// os.FileInfo implementation --------------------------------------------------

func (info *FileInfo) Name() string {
	return info.name
}

// Size returns the declared size of the file.
func (info *FileInfo) Size() int64 {
	return info.container.Size
}

// Mode always returns read-only permissions for everyone, since files can't be
// modified at run time.
func (info *FileInfo) Mode() os.FileMode {
	return 0o444
}

// ModTime returns the zero time. Containers don't record timestamps.
func (info *FileInfo) ModTime() time.Time {
	return time.Time{}
}

func (info *FileInfo) IsDir() bool {
	return false
}

// Sys returns the file's [mpfs.Container].
func (info *FileInfo) Sys() any {
	return info.container
}

// os.DirEntry implementation --------------------------------------------------

// Type returns the type bits of the file mode, which are always zero.
func (info *FileInfo) Type() os.FileMode {
	return info.Mode().Type()
}

// Info is part of the [os.DirEntry] interface. It returns the `FileInfo` it was
// called on, since that implements both interfaces.
func (info *FileInfo) Info() (os.FileInfo, error) {
	return info, nil
}

////////////////////////////////////////////////////////////////////////////////

// File is a read-only file opened from the registry. It embeds the
// [basicstream.BasicStream] that does the decoding and adds line-oriented
// helpers on top.
type File struct {
	// Embed
	*basicstream.BasicStream

	// Fields
	fileInfo FileInfo
}

func newFile(name string, container mpfs.Container) (*File, error) {
	stream, err := basicstream.New(container)
	if err != nil {
		return nil, err
	}

	return &File{
		BasicStream: stream,
		fileInfo: FileInfo{
			name:      name,
			container: container,
		},
	}, nil
}

func (file *File) Name() string {
	return file.fileInfo.name
}

func (file *File) Stat() (os.FileInfo, error) {
	if file.Closed() {
		return nil, mpfs.ErrState.WithMessage("file is closed")
	}
	return file.fileInfo.Info()
}

// ReadAll reads from the current position to the end of the file.
func (file *File) ReadAll() ([]byte, error) {
	return file.ReadN(-1)
}

// ReadLine reads up to and including the next newline. The last line of a file
// may not end with a newline. If nothing is left to read, it returns [io.EOF].
func (file *File) ReadLine() ([]byte, error) {
	var line bytes.Buffer
	for {
		b, err := file.ReadByte()
		if errors.Is(err, io.EOF) {
			if line.Len() == 0 {
				return nil, io.EOF
			}
			return line.Bytes(), nil
		} else if err != nil {
			return line.Bytes(), err
		}

		line.WriteByte(b)
		if b == '\n' {
			return line.Bytes(), nil
		}
	}
}

// ReadLines reads all remaining lines. Each line keeps its trailing newline if
// it had one.
func (file *File) ReadLines() ([][]byte, error) {
	lines := make([][]byte, 0)
	iterator := file.Lines()
	for iterator.Next() {
		lines = append(lines, iterator.Line())
	}
	return lines, iterator.Err()
}

// Lines returns an iterator over the remaining lines of the file.
func (file *File) Lines() *LineIterator {
	return &LineIterator{file: file}
}

////////////////////////////////////////////////////////////////////////////////

// LineIterator walks over a file's lines, in the style of [bufio.Scanner]:
//
//	lines := file.Lines()
//	for lines.Next() {
//		process(lines.Line())
//	}
//	if err := lines.Err(); err != nil {
//		...
//	}
type LineIterator struct {
	file    *File
	current []byte
	err     error
	done    bool
}

// Next advances to the next line, returning false at the end of the file or if
// an error occurred.
func (iterator *LineIterator) Next() bool {
	if iterator.done {
		return false
	}

	line, err := iterator.file.ReadLine()
	if err != nil {
		iterator.done = true
		iterator.current = nil
		if !errors.Is(err, io.EOF) {
			iterator.err = err
		}
		return false
	}

	iterator.current = line
	return true
}

// Line returns the line read by the most recent call to [LineIterator.Next].
func (iterator *LineIterator) Line() []byte {
	return iterator.current
}

// Err returns the first error other than [io.EOF] that was encountered.
func (iterator *LineIterator) Err() error {
	return iterator.err
}
