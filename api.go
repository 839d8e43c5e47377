package mpfs

// SymbolReader is the capability interface implemented by every container
// decoding variant. Readers hold private decode state and never modify the
// container they were created from.
type SymbolReader interface {
	// ReadSymbol returns the next decoded byte of the file. It returns
	// [io.EOF] once the payload is exhausted. A payload that ends in the
	// middle of a multi-symbol sequence returns an error wrapping
	// [io.ErrUnexpectedEOF].
	ReadSymbol() (byte, error)

	// Reset rewinds all decode state to the beginning of the file.
	Reset()
}

// Container is the self-describing, immutable encoded form of a single file.
//
// Table and Payload contain only bytes from the restricted text alphabet, i.e.
// none of the codes in [ForbiddenCodes].
type Container struct {
	// Size is the exact length of the original file, in bytes. It's always
	// available without decoding anything.
	Size int64
	// Format selects how the decoded symbol stream is interpreted.
	Format Format
	// Table is the replacement table, a sequence of two-byte pairs of the
	// form (substitute, original+128).
	Table []byte
	// Payload is the transcoded symbol stream.
	Payload []byte
}

// EncodedSize gives the combined size of the replacement table and payload.
// This is the figure the builder minimizes.
func (c Container) EncodedSize() int {
	return len(c.Table) + len(c.Payload)
}

// Entry is a named container, as stored in a registry. Names come from a
// restricted alphabet and are unique within a registry.
type Entry struct {
	Name      string
	Container Container
}
