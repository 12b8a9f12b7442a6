package state

import "fmt"

// Kind identifies an input symbol.
type Kind int

const (
	KindDigit Kind = iota
	KindPlus
	KindMinus
	KindTimes
	KindDiv
	KindOpen
	KindClose
	KindEquals
	KindClear
	KindClearAll
)

var kindNames = map[Kind]string{
	KindDigit:    "digit",
	KindPlus:     "+",
	KindMinus:    "-",
	KindTimes:    "*",
	KindDiv:      "/",
	KindOpen:     "(",
	KindClose:    ")",
	KindEquals:   "=",
	KindClear:    "clear",
	KindClearAll: "clear-all",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Input is one symbol delivered to the calculator. Digit is only read for
// KindDigit.
type Input struct {
	Kind  Kind
	Digit int64
}

// Digit returns the input for the base-3 digit n.
func Digit(n int64) Input {
	return Input{Kind: KindDigit, Digit: n}
}

var (
	Plus     = Input{Kind: KindPlus}
	Minus    = Input{Kind: KindMinus}
	Times    = Input{Kind: KindTimes}
	Div      = Input{Kind: KindDiv}
	Open     = Input{Kind: KindOpen}
	Close    = Input{Kind: KindClose}
	Equals   = Input{Kind: KindEquals}
	Clear    = Input{Kind: KindClear}
	ClearAll = Input{Kind: KindClearAll}
)

func (in Input) String() string {
	if in.Kind == KindDigit {
		return fmt.Sprintf("%d", in.Digit)
	}
	return in.Kind.String()
}

// Step applies in to s and returns the successor state. s is never
// modified; on error no state is produced.
func Step(s *State, in Input) (*State, error) {
	switch in.Kind {
	case KindDigit:
		switch s.phase {
		case PhaseBegin, PhaseBeginAfterOperator, PhaseNumber:
			return s.withDigit(in.Digit, false)
		case PhaseBeginAfterEquals:
			return s.withDigit(in.Digit, true)
		default:
			return nil, ErrExpectOperator
		}

	case KindPlus:
		switch s.phase {
		case PhaseBeginAfterEquals, PhaseNumber, PhaseForceOperator:
			return s.withAdditive(false)
		default:
			return nil, ErrExpectNumber
		}

	case KindMinus:
		switch s.phase {
		case PhaseBegin, PhaseBeginAfterEquals, PhaseNumber, PhaseForceOperator:
			return s.withAdditive(true)
		default:
			return nil, ErrExpectNumberWithoutMinus
		}

	case KindTimes, KindDiv:
		division := in.Kind == KindDiv
		switch s.phase {
		case PhaseNumber, PhaseForceOperator:
			return s.withMultiplicative(false, division)
		case PhaseBeginAfterEquals:
			return s.withMultiplicative(true, division)
		default:
			return nil, ErrExpectNumber
		}

	case KindOpen:
		switch s.phase {
		case PhaseBegin, PhaseBeginAfterOperator:
			return s.openParenthesis(false), nil
		case PhaseBeginAfterEquals:
			return s.openParenthesis(true), nil
		default:
			return nil, ErrExpectNumberOrParenthesis
		}

	case KindClose:
		if s.phase != PhaseNumber {
			return nil, ErrExpectOperator
		}
		return s.closeParenthesis()

	case KindEquals:
		if s.enclosing != nil {
			return nil, ErrUnclosedParenthesis
		}
		if s.phase == PhaseBeginAfterEquals {
			return nil, ErrExpectInput
		}
		return s.equals()

	case KindClear:
		if s.current == 0 {
			return nil, ErrExpectInput
		}
		return s.clear(), nil

	case KindClearAll:
		if s.IsBlank() {
			return nil, ErrExpectInput
		}
		return New(), nil
	}
	return nil, fmt.Errorf("unknown input kind %d", int(in.Kind))
}

// Allowed reports whether in would be accepted in s, returning the
// rejection reason otherwise.
func Allowed(s *State, in Input) error {
	_, err := Step(s, in)
	return err
}
