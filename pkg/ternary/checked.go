package ternary

import "math"

const minInt64 = math.MinInt64

// Add returns a+b and false if the sum overflows int64.
func Add(a, b int64) (int64, bool) {
	s := a + b
	// Overflow iff both operands share a sign the result does not.
	if (a >= 0) == (b >= 0) && (s >= 0) != (a >= 0) {
		return 0, false
	}
	return s, true
}

// Mul returns a*b and false if the product overflows int64.
func Mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == minInt64) || (b == -1 && a == minInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// DivResult classifies the outcome of Quo.
type DivResult int

const (
	DivOK DivResult = iota
	DivByZero
	DivOverflow
)

// Quo returns a/b truncated toward zero.
func Quo(a, b int64) (int64, DivResult) {
	switch {
	case b == 0:
		return 0, DivByZero
	case a == minInt64 && b == -1:
		return 0, DivOverflow
	}
	return a / b, DivOK
}
