// Package transcode maps a stream of byte values plus out-of-band sentinels onto
// text that can sit between double quotes in a source file without escaping.
//
// Four codes can't appear in the output: newline, carriage return, the double
// quote, and the backslash. These, along with every sentinel, are replaced by
// byte values that are rare or absent in the input. The substitutes in turn are
// escaped whenever they occur naturally: the escape code is written, followed
// by the substitute plus 128 (modulo 256).
//
// The replacement table is a string of (substitute, original+128) pairs. A
// decoder recovers the escape code from the second byte of the final pair, so
// the table is self-describing and decoding needs nothing but the table and the
// payload.
package transcode
