package object

import (
	"github.com/charmbracelet/lipgloss"
)

// Text is a static label at a 1-based render-area cell.
type Text struct {
	Col   int
	Row   int
	Value string
	Style lipgloss.Style
}

// Update is a no-op for static text.
func (t Text) Update(ctx UpdateContext) (bool, error) {
	return false, nil
}

// Draw queues the text on the overlay.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" {
		return nil
	}
	ctx.Overlay.Add(t.Col, t.Row, t.Style.Render(t.Value))
	return nil
}

// Popup is text anchored at a logical point that drifts upward and then
// disappears, used for "+10"-style score popups and banners.
type Popup struct {
	X, Y     float64 // Logical position at birth
	Rise     float64 // Logical units per second, upward
	Duration float64 // Seconds
	Value    string
	Style    lipgloss.Style

	age float64
}

// NewPopup creates a popup centred on (x, y).
func NewPopup(x, y float64, value string, style lipgloss.Style, rise, duration float64) *Popup {
	return &Popup{X: x, Y: y, Rise: rise, Duration: duration, Value: value, Style: style}
}

// Update ages the popup.
func (p *Popup) Update(ctx UpdateContext) (bool, error) {
	p.age += ctx.Delta.Seconds()
	return p.age >= p.Duration, nil
}

// Position returns the current logical position.
func (p *Popup) Position() (x, y float64) {
	return p.X, p.Y - p.Rise*p.age
}

// Draw queues the popup centred on its current position. The last fifth of
// its life is drawn faint.
func (p *Popup) Draw(ctx DrawContext) error {
	x, y := p.Position()
	col, row := ctx.Canvas.LogicalToTerminal(x, y)
	if row < 1 {
		return nil
	}
	style := p.Style
	if p.Duration > 0 && p.age > p.Duration*0.8 {
		style = style.Faint(true)
	}
	ctx.Overlay.AddCentered(col, row, style.Render(p.Value))
	return nil
}
