// Package value implements the boxed-word encoding shared by the compiler
// and the (out-of-scope) virtual machine: each runtime value other than a
// vector, string or closure is a single tagged 64-bit word. Encoding a
// literal never allocates and never touches the heap; it is pure arithmetic
// on the literal's already-parsed Go representation.
package value

import (
	"github.com/mna/nenuphar/lang/scanner"
	"github.com/mna/nenuphar/lang/token"
)

// MaxFixnum is the largest integer literal that can be boxed: 2⁶²−1, the
// range left after the low two bits are reserved for the fixnum tag.
const MaxFixnum = 1<<62 - 1

// BoxFixnum encodes n as a tagged fixnum word. It fails with an
// OverflowError at pos if n exceeds MaxFixnum.
func BoxFixnum(pos token.Pos, n int64) (uint64, error) {
	if n > MaxFixnum {
		return 0, scanner.Errorf(scanner.OverflowError, pos,
			"integer literal %d exceeds maximum fixnum value %d", n, int64(MaxFixnum))
	}
	return uint64(n)<<2 | 0, nil
}

// BoxBool encodes a boolean as a tagged word: bit 7 carries the value, the
// low five bits are the boolean tag 0x1F.
func BoxBool(b bool) uint64 {
	var bit uint64
	if b {
		bit = 1 << 7
	}
	return bit | 0x1F
}

// BoxChar encodes a character literal's codepoint as a tagged word. The
// scanner decodes UTF-8, so cp may exceed 0xFF; it is shifted in whole,
// without masking.
func BoxChar(cp rune) uint64 {
	return uint64(cp)<<8 | 0x0F
}

// BoxEmptyList returns the single tagged word representing the empty list.
func BoxEmptyList() uint64 {
	return 0x2F
}
