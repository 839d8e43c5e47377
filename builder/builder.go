// Package builder turns files into containers and renders them as source-text
// literals that a constrained interpreter can embed.
package builder

import (
	"bytes"
	"fmt"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/utilities/compression"
	"github.com/dargueta/mpfs/utilities/transcode"
)

// compressLZSS is the LZSS compressor used by [Encode]. Tests replace it to
// check the self-check.
var compressLZSS = compression.CompressLZSS

// Encode produces a container for `data` in exactly the given format.
//
// Compressed formats are decompressed again before being accepted; if that
// doesn't give back `data`, the codec is broken and this fails with
// [mpfs.ErrInternalConsistency].
func Encode(data []byte, format mpfs.Format) (mpfs.Container, error) {
	var table, payload []byte
	var err error

	switch format {
	case mpfs.FormatRaw:
		table, payload, err = transcode.EncodeBytes(data)

	case mpfs.FormatLZSS:
		tokens := compressLZSS(data)
		unpacked, decompErr := compression.DecompressLZSS(tokens)
		if decompErr != nil {
			return mpfs.Container{}, mpfs.ErrInternalConsistency.WithMessage(
				"LZSS compression error").Wrap(decompErr)
		}
		if !bytes.Equal(unpacked, data) {
			return mpfs.Container{}, mpfs.ErrInternalConsistency.WithMessage(
				"LZSS compression error: decompressed data doesn't match input")
		}
		table, payload, err = transcode.Encode(tokens, compression.LZSSSentinel)

	case mpfs.FormatRLE8:
		packed := compression.CompressRLE8Bytes(data)
		var unpacked bytes.Buffer
		_, decompErr := compression.DecompressRLE8(bytes.NewReader(packed), &unpacked)
		if decompErr != nil {
			return mpfs.Container{}, mpfs.ErrInternalConsistency.WithMessage(
				"RLE8 compression error").Wrap(decompErr)
		}
		if !bytes.Equal(unpacked.Bytes(), data) {
			return mpfs.Container{}, mpfs.ErrInternalConsistency.WithMessage(
				"RLE8 compression error: decompressed data doesn't match input")
		}
		table, payload, err = transcode.EncodeBytes(packed)

	default:
		return mpfs.Container{}, mpfs.ErrUnknownFormat.WithMessage(
			fmt.Sprintf("can't encode format %d", int(format)))
	}

	if err != nil {
		return mpfs.Container{}, err
	}
	return mpfs.Container{
		Size:    int64(len(data)),
		Format:  format,
		Table:   table,
		Payload: payload,
	}, nil
}

// Build encodes `data` in every enabled format and returns whichever container
// has the smallest combined table and payload. Ties go to the earlier format
// in the order RAW, LZSS, RLE8, so RAW wins unless compression actually helps.
//
// Any error aborts the build; a failed self-check never falls back to RAW.
func Build(data []byte, opts *Options) (mpfs.Container, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	formats := []mpfs.Format{mpfs.FormatRaw, mpfs.FormatLZSS}
	if opts.EnableRLE8 {
		formats = append(formats, mpfs.FormatRLE8)
	}

	var best mpfs.Container
	for i, format := range formats {
		candidate, err := Encode(data, format)
		if err != nil {
			return mpfs.Container{}, err
		}
		if i == 0 || candidate.EncodedSize() < best.EncodedSize() {
			best = candidate
		}
	}
	return best, nil
}

// NamedFile is the input to [BuildRegistry]: a file's name in the registry and
// its raw contents.
type NamedFile struct {
	Name string
	Data []byte
}

// BuildRegistry validates every name, then builds a container for each file.
// All invalid names are reported together; nothing is built unless every name
// is valid.
func BuildRegistry(files []NamedFile, opts *Options) ([]mpfs.Entry, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.Name
	}
	if err := ValidateNames(names); err != nil {
		return nil, err
	}

	entries := make([]mpfs.Entry, 0, len(files))
	for _, file := range files {
		container, err := Build(file.Data, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to build %q: %w", file.Name, err)
		}

		opts.logf(
			"%s: %d bytes -> %d bytes as %s (table %d, payload %d)",
			file.Name,
			container.Size,
			container.EncodedSize(),
			container.Format,
			len(container.Table),
			len(container.Payload),
		)
		entries = append(entries, mpfs.Entry{Name: file.Name, Container: container})
	}
	return entries, nil
}
