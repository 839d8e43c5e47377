package compression

// WindowSize is the number of slots in the LZSS sliding window. Offsets in a
// back-reference are 10 bits, so this can't grow without changing the token
// layout.
const WindowSize = 1024

// Window is a fixed-capacity FIFO of the most recently processed bytes. The
// compressor, decompressor, and streaming readers each keep their own copy and
// append exactly the same bytes in the same order; any divergence corrupts
// every following back-reference.
//
// The zero value is a window of [WindowSize] null bytes, which is the required
// initial state for both encoding and decoding.
type Window struct {
	slots [WindowSize]byte
	// head is the physical index of logical slot 0, the oldest byte.
	head int
}

// At returns the byte at logical position `offset`, where 0 is the oldest byte
// in the window and WindowSize-1 is the newest.
func (w *Window) At(offset int) byte {
	return w.slots[(w.head+offset)&(WindowSize-1)]
}

// Append pushes bytes onto the end of the window, evicting the same number of
// bytes from the front.
func (w *Window) Append(data ...byte) {
	for _, b := range data {
		w.slots[w.head] = b
		w.head = (w.head + 1) & (WindowSize - 1)
	}
}

// CopyOut appends `length` bytes starting at logical position `offset` to dst
// and returns the extended slice. The caller must ensure the range lies within
// the window.
func (w *Window) CopyOut(dst []byte, offset, length int) []byte {
	for i := 0; i < length; i++ {
		dst = append(dst, w.At(offset+i))
	}
	return dst
}

// Reset restores the window to all null bytes.
func (w *Window) Reset() {
	*w = Window{}
}
