// Package object holds the short-lived drawables the terminal host layers
// over a session: target sprites, hit bursts, expanding rings and floating
// text.
package object

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/reflex/internal/draw"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas   *draw.Canvas       // Half-block pixels, rendered first
	Overlay  *Overlay           // Text, written after the canvas
	Renderer *lipgloss.Renderer // Colour profile of the connected terminal
}

// Object is a drawable and updatable effect.
type Object interface {
	// Update advances the object. Returns true if it should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object. Shapes go on ctx.Canvas, text on ctx.Overlay.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if something blinking for remainingTime
// more seconds should be drawn this frame. Always true once the time is up.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}

type overlayItem struct {
	col, row int
	text     string
}

// Overlay collects positioned text for one frame. Text cannot share a cell
// with half-block pixels, so it is written after the canvas.
type Overlay struct {
	items []overlayItem
}

// Add queues text at a 1-based render-area cell.
func (o *Overlay) Add(col, row int, text string) {
	if text == "" {
		return
	}
	o.items = append(o.items, overlayItem{col: col, row: row, text: text})
}

// AddCentered queues text centred horizontally on col.
func (o *Overlay) AddCentered(col, row int, text string) {
	o.Add(col-lipgloss.Width(text)/2, row, text)
}

// Len returns the number of queued items.
func (o *Overlay) Len() int {
	return len(o.items)
}

// Flush writes the queued text to cw in insertion order and empties the
// overlay.
func (o *Overlay) Flush(cw *draw.ChunkWriter) {
	for _, it := range o.items {
		cw.WriteAt(it.col, it.row, it.text)
	}
	o.items = o.items[:0]
}
