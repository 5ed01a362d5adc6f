package object

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/reflex/internal/draw"
)

// Colours of the countdown arc around a target.
const (
	ArcColor       = "#e0e0e0"
	ArcUrgentColor = "#ff3b3b"
)

// UrgentFraction is the remaining fraction below which the arc turns red.
const UrgentFraction = 0.3

// arcGap is the logical distance between the disc and its countdown arc.
const arcGap = 4

// TargetSprite draws one active target: a filled disc in the target colour,
// a countdown arc of the remaining lifetime around it and the key that hits
// it in the middle. It is rebuilt from session state every frame.
type TargetSprite struct {
	X, Y      float64
	Radius    float64
	Color     string
	Remaining float64 // Fraction of lifetime left, 1 at spawn
	Label     byte    // 0 for no label
}

// Update is a no-op; the session owns the target's timing.
func (t TargetSprite) Update(ctx UpdateContext) (bool, error) {
	return false, nil
}

// Draw draws the disc, the arc and the label.
func (t TargetSprite) Draw(ctx DrawContext) error {
	c := draw.Point{X: t.X, Y: t.Y}
	ctx.Canvas.FillCircle(c, t.Radius, ctx.Canvas.Ink(t.Color))

	arc := ArcColor
	if t.Remaining < UrgentFraction {
		arc = ArcUrgentColor
	}
	ctx.Canvas.DrawArc(c, t.Radius+arcGap, t.Remaining, ctx.Canvas.Ink(arc))

	if t.Label != 0 && ctx.Overlay != nil {
		col, row := ctx.Canvas.LogicalToTerminal(t.X, t.Y)
		style := labelStyle(ctx.Renderer).Background(lipgloss.Color(t.Color))
		ctx.Overlay.Add(col, row, style.Render(string(t.Label)))
	}
	return nil
}

func labelStyle(r *lipgloss.Renderer) lipgloss.Style {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
}
