// Package state holds the immutable calculator snapshot and the transition
// function that advances it one input at a time.
package state

import (
	"fmt"

	"github.com/wildfunctions/terncalc/pkg/ternary"
)

// Phase gates which inputs are syntactically legal next.
type Phase int

const (
	PhaseBegin Phase = iota
	PhaseBeginAfterOperator
	PhaseBeginAfterEquals
	PhaseNumber
	PhaseForceOperator
)

var phaseNames = map[Phase]string{
	PhaseBegin:              "begin",
	PhaseBeginAfterOperator: "begin-after-operator",
	PhaseBeginAfterEquals:   "begin-after-equals",
	PhaseNumber:             "number",
	PhaseForceOperator:      "force-operator",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Display selects the field a host should show.
type Display int

const (
	DisplayCurrent Display = iota
	DisplaySum
)

// State is one snapshot of calculator progress.
//
// A State is never modified once returned to a caller. Parents referenced
// through enclosing are shared between snapshots, so every operation below
// works on a value copy.
type State struct {
	sum       int64
	factor    int64
	division  bool
	current   int64
	display   Display
	phase     Phase
	enclosing *State
}

// New returns the blank state a calculator starts from.
func New() *State {
	s := blank()
	return &s
}

func blank() State {
	return State{factor: 1, phase: PhaseBegin}
}

func (s *State) Sum() int64 { return s.sum }
func (s *State) Factor() int64 { return s.factor }
func (s *State) Division() bool { return s.division }
func (s *State) Current() int64 { return s.current }
func (s *State) Display() Display { return s.display }
func (s *State) Phase() Phase { return s.phase }
func (s *State) Enclosing() *State { return s.enclosing }
func (s *State) Nested() bool { return s.enclosing != nil }

// Value returns the number a host should display for this state.
func (s *State) Value() int64 {
	if s.display == DisplaySum {
		return s.sum
	}
	return s.current
}

// Depth counts the open parentheses enclosing s.
func (s *State) Depth() int {
	n := 0
	for p := s.enclosing; p != nil; p = p.enclosing {
		n++
	}
	return n
}

// IsBlank reports whether s equals a freshly constructed state.
func (s *State) IsBlank() bool {
	return *s == blank()
}

func (s *State) String() string {
	return fmt.Sprintf("sum=%s factor=%s div=%t current=%s phase=%s depth=%d",
		ternary.Format(s.sum), ternary.Format(s.factor), s.division,
		ternary.Format(s.current), s.phase, s.Depth())
}

// finishFactor folds current into factor.
func (s *State) finishFactor() error {
	if s.division {
		q, res := ternary.Quo(s.factor, s.current)
		switch res {
		case ternary.DivByZero:
			return ErrDivisionByZero
		case ternary.DivOverflow:
			return errDivOverflow
		}
		s.factor = q
		s.division = false
	} else {
		p, ok := ternary.Mul(s.factor, s.current)
		if !ok {
			return errMulOverflow
		}
		s.factor = p
	}
	s.current = 0
	return nil
}

// finishCurrent folds current into factor and factor into sum.
func (s *State) finishCurrent() error {
	if err := s.finishFactor(); err != nil {
		return err
	}
	sum, ok := ternary.Add(s.sum, s.factor)
	if !ok {
		return errAddOverflow
	}
	s.sum = sum
	s.factor = 1
	return nil
}

// probe reports whether folding s completely would succeed. s is a copy;
// the folded result is discarded.
func (s State) probe() error {
	return s.finishCurrent()
}

func (s *State) withDigit(n int64, afterEquals bool) (*State, error) {
	if !ternary.IsDigit(n) {
		return nil, ErrInvalidDigit
	}
	next := *s
	if afterEquals {
		next = blank()
	}
	c, ok := ternary.Mul(next.current, ternary.Radix)
	if !ok {
		return nil, errMulOverflow
	}
	if c, ok = ternary.Add(c, n); !ok {
		return nil, errAddOverflow
	}
	next.current = c
	next.display = DisplayCurrent
	next.phase = PhaseNumber

	// Reject the digit now if the pending fold can no longer succeed.
	if err := next.probe(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *State) withAdditive(minus bool) (*State, error) {
	next := *s
	if err := next.finishCurrent(); err != nil {
		return nil, err
	}
	if minus {
		next.factor = -1
	}
	next.display = DisplayCurrent
	next.phase = PhaseBeginAfterOperator
	return &next, nil
}

func (s *State) withMultiplicative(afterEquals, division bool) (*State, error) {
	next := *s
	if afterEquals {
		next.factor = next.sum
		next.sum = 0
	} else if err := next.finishFactor(); err != nil {
		return nil, err
	}
	next.division = division
	next.display = DisplayCurrent
	next.phase = PhaseBegin
	return &next, nil
}

func (s *State) openParenthesis(afterEquals bool) *State {
	next := blank()
	if afterEquals {
		next.enclosing = New()
	} else {
		next.enclosing = s
	}
	return &next
}

func (s *State) closeParenthesis() (*State, error) {
	inner := *s
	if err := inner.finishCurrent(); err != nil {
		return nil, err
	}
	if inner.enclosing == nil {
		return nil, ErrUnmatchedParenthesis
	}

	next := *inner.enclosing
	next.current = inner.sum
	// No digit can follow a close, so a fault in the resumed term must be
	// caught here.
	if err := next.probe(); err != nil {
		return nil, err
	}
	next.display = DisplayCurrent
	next.phase = PhaseForceOperator
	return &next, nil
}

func (s *State) clear() *State {
	next := *s
	next.current = 0
	next.display = DisplayCurrent
	next.phase = PhaseNumber
	return &next
}

func (s *State) equals() (*State, error) {
	next := *s
	if err := next.finishCurrent(); err != nil {
		return nil, err
	}
	next.display = DisplaySum
	next.phase = PhaseBeginAfterEquals
	return &next, nil
}
