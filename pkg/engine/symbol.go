package engine

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/terncalc/pkg/state"
)

// Symbol is one host input, encoded as its protocol byte.
type Symbol byte

const (
	Zero     Symbol = '0'
	One      Symbol = '1'
	Two      Symbol = '2'
	Plus     Symbol = '+'
	Minus    Symbol = '-'
	Times    Symbol = '*'
	Div      Symbol = '/'
	Open     Symbol = '('
	Close    Symbol = ')'
	Equals   Symbol = '='
	Clear    Symbol = 'C'
	ClearAll Symbol = 'A'
	Undo     Symbol = 'U'
	Redo     Symbol = 'R'
)

// ErrUnknownSymbol reports a byte that is not a host protocol code.
var ErrUnknownSymbol = errors.New("unknown input symbol")

var allSymbols = []Symbol{
	Zero, One, Two, Plus, Minus, Times, Div, Open, Close, Equals, Clear, ClearAll, Undo, Redo,
}

var symbolInputs = map[Symbol]state.Input{
	Zero:     state.Digit(0),
	One:      state.Digit(1),
	Two:      state.Digit(2),
	Plus:     state.Plus,
	Minus:    state.Minus,
	Times:    state.Times,
	Div:      state.Div,
	Open:     state.Open,
	Close:    state.Close,
	Equals:   state.Equals,
	Clear:    state.Clear,
	ClearAll: state.ClearAll,
}

var symbolLabels = map[Symbol]string{
	Clear:    "clear",
	ClearAll: "clear all",
	Undo:     "undo",
	Redo:     "redo",
}

// Symbols returns every symbol in query order: the twelve calculator
// inputs followed by undo and redo.
func Symbols() []Symbol {
	out := make([]Symbol, len(allSymbols))
	copy(out, allSymbols)
	return out
}

// ParseSymbol validates a protocol byte.
func ParseSymbol(code byte) (Symbol, error) {
	s := Symbol(code)
	if s == Undo || s == Redo {
		return s, nil
	}
	if _, ok := symbolInputs[s]; !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownSymbol, code)
	}
	return s, nil
}

// ParseSymbols validates a sequence of protocol bytes.
func ParseSymbols(codes []byte) ([]Symbol, error) {
	out := make([]Symbol, 0, len(codes))
	for _, c := range codes {
		s, err := ParseSymbol(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (s Symbol) String() string {
	return string(rune(s))
}

// Label is a human-readable name for the symbol.
func (s Symbol) Label() string {
	if l, ok := symbolLabels[s]; ok {
		return l
	}
	return s.String()
}

// input returns the transition input for s; false for undo and redo.
func (s Symbol) input() (state.Input, bool) {
	in, ok := symbolInputs[s]
	return in, ok
}
