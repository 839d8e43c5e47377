package builder_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/builder"
	mpfstest "github.com/dargueta/mpfs/testing"
	"github.com/dargueta/mpfs/utilities/compression"
	"github.com/dargueta/mpfs/utilities/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buildTestData struct {
	Name string
	Data []byte
}

func buildTestCases(t *testing.T) []buildTestData {
	return []buildTestData{
		{"empty", []byte{}},
		{"one byte", []byte{'\n'}},
		{"repetitive", []byte("aaa")},
		{"distinct", []byte("xyz")},
		{"text", mpfstest.CreateTextData(40)},
		{"random", mpfstest.CreateRandomData(700, t)},
		{"nulls", make([]byte, 2048)},
	}
}

// decodeContainer fully decodes a container the slow way, without going
// through a stream.
func decodeContainer(t *testing.T, container mpfs.Container) []byte {
	symbols, err := transcode.Decode(container.Table, container.Payload)
	require.NoError(t, err, "failed to decode payload")

	switch container.Format {
	case mpfs.FormatRaw:
		data := make([]byte, len(symbols))
		for i, symbol := range symbols {
			data[i] = byte(symbol)
		}
		return data
	case mpfs.FormatLZSS:
		data, err := compression.DecompressLZSS(symbols)
		require.NoError(t, err, "failed to decompress LZSS tokens")
		return data
	case mpfs.FormatRLE8:
		packed := make([]byte, len(symbols))
		for i, symbol := range symbols {
			packed[i] = byte(symbol)
		}
		var output bytes.Buffer
		_, err := compression.DecompressRLE8(bytes.NewReader(packed), &output)
		require.NoError(t, err, "failed to decompress RLE8 data")
		return output.Bytes()
	}

	t.Fatalf("unexpected format %v", container.Format)
	return nil
}

func TestEncode__AllFormats(t *testing.T) {
	for _, format := range mpfstest.AllFormats {
		t.Run(
			format.String(),
			func(t *testing.T) {
				for _, test := range buildTestCases(t) {
					t.Run(
						test.Name,
						func(t *testing.T) {
							container, err := builder.Encode(test.Data, format)
							require.NoError(t, err)
							assert.Equal(t, format, container.Format)
							assert.EqualValues(t, len(test.Data), container.Size)
							assert.Equal(t, test.Data, decodeContainer(t, container))
						},
					)
				}
			},
		)
	}
}

func TestEncode__UnknownFormat(t *testing.T) {
	_, err := builder.Encode([]byte("abc"), mpfs.Format(7))
	assert.ErrorIs(t, err, mpfs.ErrUnknownFormat)
}

// The chosen container must never be bigger than any candidate that was
// considered for the same input.
func TestBuild__PicksSmallest(t *testing.T) {
	for _, enableRLE8 := range []bool{false, true} {
		opts := &builder.Options{EnableRLE8: enableRLE8}

		for _, test := range buildTestCases(t) {
			container, err := builder.Build(test.Data, opts)
			require.NoError(t, err, test.Name)

			raw := mpfstest.CreateContainer(test.Data, mpfs.FormatRaw, t)
			lzss := mpfstest.CreateContainer(test.Data, mpfs.FormatLZSS, t)
			assert.LessOrEqual(t, container.EncodedSize(), raw.EncodedSize(), test.Name)
			assert.LessOrEqual(t, container.EncodedSize(), lzss.EncodedSize(), test.Name)

			if enableRLE8 {
				rle8 := mpfstest.CreateContainer(test.Data, mpfs.FormatRLE8, t)
				assert.LessOrEqual(t, container.EncodedSize(), rle8.EncodedSize(), test.Name)
			} else {
				assert.NotEqual(t, mpfs.FormatRLE8, container.Format, test.Name)
			}

			assert.EqualValues(t, len(test.Data), container.Size, test.Name)
			assert.Equal(t, test.Data, decodeContainer(t, container), test.Name)
		}
	}
}

func TestBuild__IncompressibleUsesRaw(t *testing.T) {
	// Too short for any back-reference, and LZSS always spends a table pair on
	// its sentinel.
	container, err := builder.Build([]byte("xyz"), nil)
	require.NoError(t, err)
	assert.Equal(t, mpfs.FormatRaw, container.Format)
}

func TestBuild__TiesFavorRaw(t *testing.T) {
	// One five-byte back-reference saves two symbols, which is exactly what
	// the sentinel's table pair costs.
	data := []byte("abcdefabcdeZ")
	raw := mpfstest.CreateContainer(data, mpfs.FormatRaw, t)
	lzss := mpfstest.CreateContainer(data, mpfs.FormatLZSS, t)
	require.Equal(t, raw.EncodedSize(), lzss.EncodedSize(), "inputs must tie")
	require.Equal(t, 12, raw.EncodedSize())

	container, err := builder.Build(data, nil)
	require.NoError(t, err)
	assert.Equal(t, mpfs.FormatRaw, container.Format)
	assert.Equal(t, raw, container)
}

func TestBuild__CompressibleUsesLZSS(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 100)
	container, err := builder.Build(data, builder.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, mpfs.FormatLZSS, container.Format)
	assert.Less(t, container.EncodedSize(), len(data))
}

func TestBuildRegistry__Basic(t *testing.T) {
	var logOutput bytes.Buffer
	opts := &builder.Options{Logger: log.New(&logOutput, "", 0)}

	files := []builder.NamedFile{
		{Name: "A", Data: []byte("aaa")},
		{Name: "B", Data: []byte("abc")},
	}
	entries, err := builder.BuildRegistry(files, opts)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "B", entries[1].Name)
	assert.EqualValues(t, 3, entries[0].Container.Size)
	assert.Contains(t, logOutput.String(), "A: 3 bytes")
	assert.Contains(t, logOutput.String(), "B: 3 bytes")
}

func TestBuildRegistry__InvalidNames(t *testing.T) {
	files := []builder.NamedFile{
		{Name: "good.py", Data: []byte("x")},
		{Name: "has space", Data: []byte("y")},
		{Name: "quote\"d", Data: []byte("z")},
		{Name: "good.py", Data: []byte("w")},
	}
	entries, err := builder.BuildRegistry(files, nil)
	assert.Nil(t, entries, "nothing should be built if any name is bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, mpfs.ErrNameValidation)

	message := err.Error()
	assert.Contains(t, message, "has space")
	assert.Contains(t, message, "quote")
	assert.Contains(t, message, "duplicate")
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"main.py", "A", "{x}[1](2)=3+4*5,6-7", "a/b"} {
		assert.NoError(t, builder.ValidateName(name), name)
	}
	for _, name := range []string{"", "a b", "it's", "x\"y", "tab\t", "ümlaut", "back\\slash", "semi;colon"} {
		assert.ErrorIs(t, builder.ValidateName(name), mpfs.ErrNameValidation, name)
	}
}
