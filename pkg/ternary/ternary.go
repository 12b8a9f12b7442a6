// Package ternary converts fixed-width integers to and from base-3 text and
// provides the checked int64 arithmetic the calculator folds with.
package ternary

import "errors"

// Radix is the numeral base of every value the calculator reads or shows.
const Radix = 3

// MaxLen bounds the rendering of any int64: ⌈64·log₃2⌉ digits plus a sign.
const MaxLen = 42

var (
	// ErrSyntax reports text that is not a signed ternary numeral.
	ErrSyntax = errors.New("invalid ternary numeral")
	// ErrRange reports a numeral that does not fit in an int64.
	ErrRange = errors.New("ternary numeral out of range")
)

// IsDigit reports whether n is a valid base-3 digit.
func IsDigit(n int64) bool {
	return n >= 0 && n < Radix
}

// digitChar maps 0..2 to '0'..'2'.
func digitChar(d int64) byte {
	return byte('0' + d)
}
