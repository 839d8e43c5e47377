// Package testing provides fixtures shared by the test suites of several
// packages.
package testing

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/builder"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomData returns `size` random bytes. It is guaranteed to either
// return a valid slice or fail the test and abort.
func CreateRandomData(size int, t *testing.T) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}

// CreateTextData returns `lines` lines of repetitive text, each ending in a
// newline. It compresses well and exercises every forbidden code.
func CreateTextData(lines int) []byte {
	var buffer bytes.Buffer
	for i := 0; i < lines; i++ {
		buffer.WriteString("print(\"line\\n\")\r\n")
		buffer.WriteByte(byte('a' + i%26))
		buffer.WriteByte('\n')
	}
	return buffer.Bytes()
}

// CreateContainer encodes `data` in the given format, failing the test if that
// isn't possible.
func CreateContainer(data []byte, format mpfs.Format, t *testing.T) mpfs.Container {
	container, err := builder.Encode(data, format)
	require.NoErrorf(t, err, "failed to encode %d bytes as %s", len(data), format)
	require.EqualValues(t, len(data), container.Size, "declared size is wrong")
	return container
}

// NewReferenceStream returns a seekable stream over an in-memory copy of
// `data`. Streams under test are compared against it.
func NewReferenceStream(data []byte) io.ReadSeeker {
	return bytesextra.NewReadWriteSeeker(append([]byte(nil), data...))
}

// AllFormats lists every container format, for table-driven tests.
var AllFormats = []mpfs.Format{mpfs.FormatRaw, mpfs.FormatLZSS, mpfs.FormatRLE8}
