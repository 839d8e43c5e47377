// Package compression provides the codecs used to shrink files before they're
// transcoded into a container.
//
// The target interpreter has a small, fixed memory budget, so every codec here
// must be decodable one byte at a time with bounded state. Two are provided:
//
// LZSS replaces repeated byte sequences with references into a 1024-byte
// sliding window. The window is shared in structure (not memory) between the
// encoder, the bulk decoder, and any number of streaming readers; all of them
// start with a window of null bytes and push exactly the bytes they emit. The
// token stream is a list of integers: literal bytes are 0-255, and a
// back-reference is the out-of-band value [LZSSSentinel] followed by two bytes
// holding a 10-bit offset and a 6-bit length:
//
//	-1, oooooooo, OOllllll
//
// Matches are between 4 and 67 bytes long. The search is brute force over the
// whole window, which is slow but only happens at build time.
//
// RLE8 is the run-length encoding used by the Microsoft BMP file format. If a
// byte B occurs N times where N >= 2, B is written twice, followed by a third
// (unsigned) byte indicating how many additional times B occurred. For example:
//
//	WXXXXXXXXXXXXXXXYZZ
//	W XX 13 Y ZZ 0
//
// This scheme lets us represent runs of up to 257 bytes with three bytes. For
// runs longer than 257 bytes, they are treated as separate runs. Using a byte
// as its own escape sequence means that occurrences of the same byte exactly
// twice are stored as three bytes, so RLE8 only pays off for data dominated by
// long runs.

package compression
