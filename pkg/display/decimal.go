package display

import "strconv"

func init() {
	Register("decimal", func() Renderer { return &Decimal{} })
}

// Decimal shows values in base 10 for checking a result by eye.
type Decimal struct{}

func (r *Decimal) Name() string { return "decimal" }

func (r *Decimal) Render(v int64) string {
	return strconv.FormatInt(v, 10)
}
