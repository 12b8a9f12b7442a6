package display

import "github.com/wildfunctions/terncalc/pkg/ternary"

func init() {
	Register("ternary", func() Renderer { return &Ternary{} })
}

// Ternary shows values in base 3, the calculator's native notation.
type Ternary struct{}

func (r *Ternary) Name() string { return "ternary" }

func (r *Ternary) Render(v int64) string {
	return ternary.Format(v)
}
