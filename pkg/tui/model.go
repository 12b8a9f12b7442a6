// Package tui is the interactive terminal host for a single calculator.
//
// The model runs inside the bubbletea event loop and owns its calculator;
// it must not be shared with other goroutines.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wildfunctions/terncalc/pkg/display"
	"github.com/wildfunctions/terncalc/pkg/engine"
	"github.com/wildfunctions/terncalc/pkg/keymap"
	"github.com/wildfunctions/terncalc/pkg/logging"
)

// Model is the bubbletea model of the calculator window.
type Model struct {
	calc    *engine.Calculator
	keymap  keymap.Keymap
	primary display.Renderer
	cheat   display.Renderer
	log     *logging.Logger

	keys keyMap
	help help.Model

	showCheat bool
	last      string
	reason    string
	width     int
	quitting  bool
}

// New creates a model for a fresh calculator of eng. tab switches between
// the engine renderer and the decimal one.
func New(eng *engine.Engine, log *logging.Logger) (Model, error) {
	if log == nil {
		log = logging.Nop()
	}
	alt := "decimal"
	if eng.Renderer().Name() == alt {
		alt = "ternary"
	}
	cheat, err := display.Get(alt)
	if err != nil {
		return Model{}, err
	}
	return Model{
		calc:    eng.NewCalculator(),
		keymap:  eng.Keymap(),
		primary: eng.Renderer(),
		cheat:   cheat,
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.showCheat = !m.showCheat
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		m.press(msg.String())
	}
	return m, nil
}

// press delivers the symbol bound to k, if any.
func (m *Model) press(k string) {
	code, ok := m.keymap.Lookup(k)
	if !ok {
		return
	}
	sym, err := engine.ParseSymbol(code)
	if err != nil {
		m.log.Warn("keymap produced an invalid code", "key", k, "code", string(code))
		return
	}
	m.last = sym.Label()
	m.reason = ""
	if err := m.calc.Apply(sym); err != nil {
		m.reason = err.Error()
	}
}

// Display returns the text currently shown on the display line.
func (m Model) Display() string {
	r := m.primary
	if m.showCheat {
		r = m.cheat
	}
	return r.Render(m.calc.Display())
}

// Reason returns why the last key was rejected, or "".
func (m Model) Reason() string {
	return m.reason
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("terncalc"))
	b.WriteString("\n\n")

	mode := m.primary.Name()
	if m.showCheat {
		mode = m.cheat.Name()
	}
	b.WriteString(displayStyle.Render(m.Display()))
	b.WriteString(" ")
	b.WriteString(modeStyle.Render(mode))
	b.WriteString("\n\n")

	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	switch {
	case m.reason != "":
		b.WriteString(rejectedStyle.Render(fmt.Sprintf("%s: %s", m.last, m.reason)))
	case m.last != "":
		b.WriteString(statusStyle.Render(m.last))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// gridRows lays the symbols out like a calculator keypad.
var gridRows = [][]engine.Symbol{
	{engine.Open, engine.Close, engine.Clear, engine.ClearAll},
	{engine.Two, engine.Div, engine.Undo, engine.Redo},
	{engine.One, engine.Times, engine.Minus, engine.Plus},
	{engine.Zero, engine.Equals},
}

func (m Model) renderGrid() string {
	enabled := make(map[engine.Symbol]bool)
	for _, a := range m.calc.Enabled() {
		enabled[a.Symbol] = a.Enabled()
	}

	rows := make([]string, 0, len(gridRows))
	for _, row := range gridRows {
		cells := make([]string, 0, len(row))
		for _, sym := range row {
			label := m.keyLabel(sym)
			if enabled[sym] {
				cells = append(cells, enabledKeyStyle.Render(label))
			} else {
				cells = append(cells, disabledKeyStyle.Render(label))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// keyLabel names the first key bound to sym, falling back to its label.
func (m Model) keyLabel(sym engine.Symbol) string {
	if keys := m.keymap.Keys(byte(sym)); len(keys) > 0 {
		if sym.Label() != sym.String() {
			return fmt.Sprintf("%s %s", keys[0], sym.Label())
		}
		return keys[0]
	}
	return sym.Label()
}

// Run starts the program on the terminal and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, eng *engine.Engine, log *logging.Logger, opts ...tea.ProgramOption) error {
	m, err := New(eng, log)
	if err != nil {
		return err
	}
	defer m.calc.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
