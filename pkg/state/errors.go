package state

import (
	"errors"
	"fmt"
)

// Arithmetic faults.
var (
	ErrInvalidDigit         = errors.New("nonternary input")
	ErrOverflow             = errors.New("overflow")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrUnmatchedParenthesis = errors.New("no matching open parenthesis")
	ErrUnclosedParenthesis  = errors.New("unclosed parenthesis")
)

// Syntax faults: the input is not legal in the current phase.
var (
	ErrExpectNumber              = errors.New("expect number")
	ErrExpectOperator            = errors.New("expect operator")
	ErrExpectInput               = errors.New("expect input")
	ErrExpectNumberOrParenthesis = errors.New("expect number or parenthesis")
	ErrExpectNumberWithoutMinus  = errors.New("expect number (without minus)")
)

var (
	errMulOverflow = fmt.Errorf("multiplication %w", ErrOverflow)
	errAddOverflow = fmt.Errorf("addition %w", ErrOverflow)
	errDivOverflow = fmt.Errorf("division %w", ErrOverflow)
)
