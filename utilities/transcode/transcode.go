package transcode

import (
	"fmt"
	"sort"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/mpfs"
)

// codeSet tracks which byte values have been taken. Sentinels below zero are
// never byte values so they're kept out of the bitmap.
type codeSet struct {
	bits bitmap.Bitmap
}

func newCodeSet() codeSet {
	return codeSet{bits: bitmap.New(256)}
}

func (s codeSet) Add(code int) {
	if code >= 0 && code < 256 {
		s.bits.Set(code, true)
	}
}

func (s codeSet) Contains(code int) bool {
	if code < 0 || code > 255 {
		return false
	}
	return s.bits.Get(code)
}

func isForbidden(code int) bool {
	for _, forbidden := range mpfs.ForbiddenCodes {
		if code == forbidden {
			return true
		}
	}
	return false
}

// ValidateSentinels checks that each sentinel can be stored in a replacement
// table, i.e. it's in [-128, 127] and sentinel+128 is not a forbidden code.
func ValidateSentinels(sentinels []int) error {
	for _, sentinel := range sentinels {
		if sentinel < -128 || sentinel > 127 || isForbidden(sentinel+128) {
			return mpfs.ErrConfiguration.WithMessage(
				fmt.Sprintf(
					"sentinel %d is outside [-128, 127] or %d is one of %v",
					sentinel,
					sentinel+128,
					mpfs.ForbiddenCodes,
				),
			)
		}
	}
	return nil
}

// Encode transcodes `symbols` into a replacement table and a payload, neither
// of which contains any of [mpfs.ForbiddenCodes]. Each symbol must either be in
// [0, 255] or be one of `sentinels`.
//
// All validation happens before any output is produced; sentinel problems fail
// with [mpfs.ErrConfiguration] and bad symbols with [mpfs.ErrDataRange].
func Encode(symbols []int, sentinels ...int) ([]byte, []byte, error) {
	err := ValidateSentinels(sentinels)
	if err != nil {
		return nil, nil, err
	}

	isSentinel := func(symbol int) bool {
		for _, sentinel := range sentinels {
			if symbol == sentinel {
				return true
			}
		}
		return false
	}

	var frequencies [256]int
	for i, symbol := range symbols {
		if (symbol < 0 && !isSentinel(symbol)) || symbol > 255 {
			return nil, nil, mpfs.ErrDataRange.WithMessage(
				fmt.Sprintf(
					"symbol %d at index %d is outside [0, 255] and not one of the sentinels %v",
					symbol,
					i,
					sentinels,
				),
			)
		}
		if symbol >= 0 {
			frequencies[symbol]++
		}
	}

	// Least used byte values first. The sort is stable so ties stay in
	// ascending numeric order.
	var candidates [256]int
	for i := range candidates {
		candidates[i] = i
	}
	sort.SliceStable(
		candidates[:],
		func(i, j int) bool {
			return frequencies[candidates[i]] < frequencies[candidates[j]]
		},
	)

	// `reserved` lists every code that needs a stand-in, in the order they're
	// given one. `taken` additionally tracks the stand-ins as they're chosen.
	reserved := make([]int, 0, len(mpfs.ForbiddenCodes)+2*len(sentinels)+1)
	reservedSet := newCodeSet()
	taken := newCodeSet()
	reserve := func(code int) {
		reserved = append(reserved, code)
		reservedSet.Add(code)
		taken.Add(code)
	}

	for _, code := range mpfs.ForbiddenCodes {
		reserve(code)
	}
	for _, sentinel := range sentinels {
		reserve(sentinel)
	}

	// Claim one extra low code per sentinel plus one for the escape code. The
	// last one claimed is the escape code.
	cursor := 0
	for remaining := len(sentinels) + 1; remaining > 0; cursor++ {
		if cursor >= len(candidates) {
			return nil, nil, mpfs.ErrConfiguration.WithMessage(
				"ran out of byte values to reserve")
		}
		code := candidates[cursor]
		if code < 128 && !reservedSet.Contains(code) {
			reserve(code)
			remaining--
		}
	}
	escape := reserved[len(reserved)-1]

	// Find a substitute for every reserved code that's actually used. Neither
	// the substitute nor its escaped form may collide with anything reserved.
	var table []byte
	rules := make(map[int][]byte, 2*len(reserved))
	isEscapeRule := make(map[int]bool, len(reserved))

	for _, code := range reserved {
		if code >= 0 && frequencies[code] == 0 {
			continue
		}

		for {
			if cursor >= len(candidates) {
				return nil, nil, mpfs.ErrConfiguration.WithMessage(
					fmt.Sprintf("ran out of byte values to substitute for %d", code))
			}
			substitute := candidates[cursor]
			cursor++

			escaped := (substitute + 128) % 256
			if taken.Contains(substitute) || taken.Contains(escaped) {
				continue
			}

			taken.Add(substitute)
			table = append(table, byte(substitute), byte(code+128))
			rules[code] = []byte{byte(substitute)}
			rules[substitute] = []byte{byte(escape), byte(escaped)}
			isEscapeRule[substitute] = true
			break
		}
	}

	payload := make([]byte, 0, len(symbols))
	usedEscape := false
	for _, symbol := range symbols {
		replacement, ok := rules[symbol]
		if !ok {
			payload = append(payload, byte(symbol))
			continue
		}
		payload = append(payload, replacement...)
		if isEscapeRule[symbol] {
			usedEscape = true
		}
	}

	// Decoders take the escape code from the last pair in the table. If the
	// escape code itself never occurred in the input it has no pair of its own,
	// so add a pair whose second byte names it. The pair's first byte is the
	// escape code, which decoders check before consulting the table, so the
	// entry never maps anything.
	if usedEscape && (len(table) == 0 || int(table[len(table)-1])-128 != escape) {
		table = append(table, byte(escape), byte(escape+128))
	}

	return table, payload, nil
}

// EncodeBytes is a convenience wrapper around [Encode] for plain byte data
// with no sentinels.
func EncodeBytes(data []byte) ([]byte, []byte, error) {
	symbols := make([]int, len(data))
	for i, b := range data {
		symbols[i] = int(b)
	}
	return Encode(symbols)
}
