package object

import "github.com/tomz197/reflex/internal/draw"

// Ring is an outline that grows from From to To over its lifetime. Hits
// leave one in the target colour, misses a red one.
type Ring struct {
	X, Y     float64
	From, To float64 // Radius at birth and at death
	Duration float64 // Seconds
	Color    string

	age float64
}

// NewRing creates a ring effect centred on (x, y).
func NewRing(x, y, from, to, duration float64, color string) *Ring {
	return &Ring{X: x, Y: y, From: from, To: to, Duration: duration, Color: color}
}

// Progress returns how far through its life the ring is, in [0, 1].
func (r *Ring) Progress() float64 {
	if r.Duration <= 0 {
		return 1
	}
	return min(r.age/r.Duration, 1)
}

// Radius returns the current radius.
func (r *Ring) Radius() float64 {
	return r.From + (r.To-r.From)*r.Progress()
}

// Update ages the ring.
func (r *Ring) Update(ctx UpdateContext) (bool, error) {
	r.age += ctx.Delta.Seconds()
	return r.age >= r.Duration, nil
}

// Draw draws the ring at its current radius.
func (r *Ring) Draw(ctx DrawContext) error {
	ctx.Canvas.DrawRing(draw.Point{X: r.X, Y: r.Y}, r.Radius(), ctx.Canvas.Ink(r.Color))
	return nil
}
