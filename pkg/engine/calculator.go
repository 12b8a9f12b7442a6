package engine

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/terncalc/pkg/history"
	"github.com/wildfunctions/terncalc/pkg/logging"
	"github.com/wildfunctions/terncalc/pkg/state"
)

// ErrClosed is returned by every operation on a closed Calculator.
var ErrClosed = errors.New("calculator closed")

// FatalHandler is called when the calculator finds an internal invariant
// broken. If it returns, the calculator restarts from a blank state.
type FatalHandler func(err error)

// PanicOnFatal is the default FatalHandler.
func PanicOnFatal(err error) {
	panic(err)
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger for rejected inputs and history moves.
func WithLogger(l *logging.Logger) Option {
	return func(c *Calculator) { c.log = l }
}

// WithFatalHandler replaces PanicOnFatal.
func WithFatalHandler(h FatalHandler) Option {
	return func(c *Calculator) { c.fatal = h }
}

// Calculator is one calculator instance: a history of immutable states
// and a cursor naming the current one.
//
// A Calculator has a single owner and performs no locking; hosts sharing
// one between goroutines must serialize calls.
type Calculator struct {
	ring  *history.Ring[*state.State]
	log   *logging.Logger
	fatal FatalHandler
}

// NewCalculator returns a calculator at the blank state.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		ring:  history.New(state.New()),
		log:   logging.Nop(),
		fatal: PanicOnFatal,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) current() history.Entry[*state.State] {
	e, ok := c.ring.Current()
	if !ok || e.Value == nil {
		c.fatal(fmt.Errorf("history has no current state (next seq %d)", c.ring.NextSeq()))
		c.ring = history.New(state.New())
		e, _ = c.ring.Current()
	}
	return e
}

// State returns the current state, or nil once closed.
func (c *Calculator) State() *state.State {
	if c.ring == nil {
		return nil
	}
	return c.current().Value
}

// Seq returns the sequence number of the current state.
func (c *Calculator) Seq() uint64 {
	if c.ring == nil {
		return 0
	}
	return c.current().Seq
}

// Display returns the value a host should show: the sum right after
// equals, otherwise the number being typed.
func (c *Calculator) Display() int64 {
	if c.ring == nil {
		return 0
	}
	return c.current().Value.Value()
}

// Apply delivers one symbol. A rejected symbol leaves the calculator
// unchanged and returns the reason.
func (c *Calculator) Apply(sym Symbol) error {
	if c.ring == nil {
		return ErrClosed
	}
	switch sym {
	case Undo:
		_, err := c.ring.Undo()
		c.observeHistory("undo", err)
		return err
	case Redo:
		_, err := c.ring.Redo()
		c.observeHistory("redo", err)
		return err
	}

	in, ok := sym.input()
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownSymbol, byte(sym))
	}
	next, err := state.Step(c.current().Value, in)
	if err != nil {
		inputsTotal.WithLabelValues(sym.Label(), resultRejected).Inc()
		c.log.Debug("input rejected", "symbol", sym.Label(), "reason", err)
		return err
	}
	e := c.ring.Push(next)
	inputsTotal.WithLabelValues(sym.Label(), resultAccepted).Inc()
	c.log.Debug("input accepted", "symbol", sym.Label(), "seq", e.Seq, "state", next)
	return nil
}

// Submit applies sym and returns the value to display. Rejections are
// silent; use Check or Enabled beforehand to learn why.
func (c *Calculator) Submit(sym Symbol) int64 {
	_ = c.Apply(sym)
	return c.Display()
}

// Check reports whether sym would currently be accepted, without applying
// it.
func (c *Calculator) Check(sym Symbol) error {
	if c.ring == nil {
		return ErrClosed
	}
	switch sym {
	case Undo:
		return c.ring.CanUndo()
	case Redo:
		return c.ring.CanRedo()
	}
	in, ok := sym.input()
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownSymbol, byte(sym))
	}
	return state.Allowed(c.current().Value, in)
}

// Availability is the answer of the enabled-input query for one symbol.
type Availability struct {
	Symbol Symbol
	Err    error
}

// Enabled reports whether the symbol is currently accepted.
func (a Availability) Enabled() bool {
	return a.Err == nil
}

// Enabled runs Check for every symbol in Symbols order.
func (c *Calculator) Enabled() []Availability {
	out := make([]Availability, 0, len(allSymbols))
	for _, sym := range allSymbols {
		out = append(out, Availability{Symbol: sym, Err: c.Check(sym)})
	}
	return out
}

// Close releases the history and every state it retains.
func (c *Calculator) Close() error {
	if c.ring == nil {
		return ErrClosed
	}
	c.ring.Reset()
	c.ring = nil
	return nil
}

func (c *Calculator) observeHistory(direction string, err error) {
	if err != nil {
		historyTotal.WithLabelValues(direction, resultRejected).Inc()
		c.log.Debug("history move rejected", "direction", direction, "reason", err)
		return
	}
	historyTotal.WithLabelValues(direction, resultAccepted).Inc()
	c.log.Debug("history moved", "direction", direction, "seq", c.current().Seq)
}
