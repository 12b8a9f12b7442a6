// Package engine hosts calculator instances: the history-backed Calculator
// itself, and an Engine that resolves a Config into a keymap and display
// and evaluates scripts against fresh calculators.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/terncalc/pkg/display"
	"github.com/wildfunctions/terncalc/pkg/keymap"
	"github.com/wildfunctions/terncalc/pkg/logging"
)

// Engine evaluates scripts with the keymap and display named in its config.
type Engine struct {
	cfg     Config
	keymap  keymap.Keymap
	display display.Renderer
	log     *logging.Logger
}

// New creates an engine from the given config.
func New(cfg Config, log *logging.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	km, err := keymap.Get(cfg.Keymap)
	if err != nil {
		return nil, err
	}
	r, err := display.Get(cfg.Display)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{cfg: cfg, keymap: km, display: r, log: log}, nil
}

func (e *Engine) Config() Config             { return e.cfg }
func (e *Engine) Keymap() keymap.Keymap      { return e.keymap }
func (e *Engine) Renderer() display.Renderer { return e.display }

// NewCalculator returns a calculator that logs through the engine logger.
func (e *Engine) NewCalculator() *Calculator {
	return NewCalculator(WithLogger(e.log))
}

// Parse turns a script into symbols through the engine keymap.
func (e *Engine) Parse(script string) ([]Symbol, error) {
	codes, err := keymap.Parse(e.keymap, script)
	if err != nil {
		return nil, err
	}
	return ParseSymbols(codes)
}

// Feed applies syms to c in order and records every step.
func (e *Engine) Feed(c *Calculator, syms []Symbol) []StepReport {
	steps := make([]StepReport, 0, len(syms))
	for i, sym := range syms {
		err := c.Apply(sym)
		step := StepReport{
			Index:    i,
			Symbol:   sym.Label(),
			Accepted: err == nil,
			Value:    c.Display(),
		}
		if err != nil {
			step.Reason = err.Error()
		}
		step.Text = e.display.Render(step.Value)
		steps = append(steps, step)
	}
	return steps
}

// Evaluate runs one script on a fresh calculator. A script that does not
// parse yields a transcript carrying the error rather than a failure.
func (e *Engine) Evaluate(script string) Transcript {
	t := Transcript{Script: script}
	syms, err := e.Parse(script)
	if err != nil {
		t.Error = err.Error()
		scriptsTotal.WithLabelValues("invalid").Inc()
		return t
	}

	c := e.NewCalculator()
	defer c.Close()

	t.Steps = e.Feed(c, syms)
	t.Value = c.Display()
	t.Text = e.display.Render(t.Value)
	scriptsTotal.WithLabelValues("evaluated").Inc()
	return t
}

// Inspect runs script and reports the resulting state and enabled inputs.
func (e *Engine) Inspect(script string) (Snapshot, error) {
	syms, err := e.Parse(script)
	if err != nil {
		return Snapshot{}, err
	}
	c := e.NewCalculator()
	defer c.Close()
	e.Feed(c, syms)
	return e.Snapshot(c), nil
}

// Snapshot describes c without changing it.
func (e *Engine) Snapshot(c *Calculator) Snapshot {
	s := c.State()
	if s == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Seq:   c.Seq(),
		Value: c.Display(),
		Phase: s.Phase().String(),
		Depth: s.Depth(),
	}
	snap.Text = e.display.Render(snap.Value)
	for _, a := range c.Enabled() {
		r := AvailabilityReport{Symbol: a.Symbol.Label(), Enabled: a.Enabled()}
		if a.Err != nil {
			r.Reason = a.Err.Error()
		}
		snap.Inputs = append(snap.Inputs, r)
	}
	return snap
}

// Run evaluates independent scripts in parallel, each on its own
// calculator, and returns the transcripts in input order.
func (e *Engine) Run(ctx context.Context, scripts []string) (Report, error) {
	transcripts := make([]Transcript, len(scripts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, script := range scripts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			transcripts[i] = e.Evaluate(script)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("evaluating scripts: %w", err)
	}

	report := Report{Config: e.cfg, Transcripts: transcripts}
	for _, t := range transcripts {
		for _, s := range t.Steps {
			if s.Accepted {
				report.Accepted++
			} else {
				report.Rejected++
			}
		}
	}
	e.log.Info("scripts evaluated", "scripts", len(scripts),
		"accepted", report.Accepted, "rejected", report.Rejected, "workers", e.cfg.Workers)
	return report, nil
}
