package object

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/reflex/internal/draw"
)

type collector struct{ objs []Object }

func (c *collector) Spawn(obj Object) { c.objs = append(c.objs, obj) }

func newDrawContext(cols, rows int, lw, lh float64) DrawContext {
	r := lipgloss.NewRenderer(io.Discard)
	return DrawContext{
		Canvas:   draw.NewScaledCanvas(r, cols, rows, lw, lh),
		Overlay:  &Overlay{},
		Renderer: r,
	}
}

func TestSpawnBurst(t *testing.T) {
	var c collector
	SpawnBurst(100, 100, 12, 80, 0.5, "#e94560", &c)
	if len(c.objs) != 12 {
		t.Fatalf("spawned %d particles, want 12", len(c.objs))
	}
	for _, o := range c.objs {
		p := o.(*Particle)
		if p.Color != "#e94560" || p.X != 100 || p.Y != 100 {
			t.Errorf("particle = %+v", p)
		}
		if p.Lifetime < 0.25 || p.Lifetime > 0.5 {
			t.Errorf("lifetime %v outside [0.25, 0.5]", p.Lifetime)
		}
		p.Release()
	}

	SpawnBurst(0, 0, 3, 1, 1, "#fff", nil) // no spawner, no panic
}

func TestParticleMovesAndExpires(t *testing.T) {
	p := NewParticle(10, 10, 60, 0, 0.1, "#fff")
	defer p.Release()

	remove, err := p.Update(UpdateContext{Delta: 50 * time.Millisecond})
	if err != nil || remove {
		t.Fatalf("Update = %v, %v", remove, err)
	}
	if p.X <= 10 || p.Y != 10 {
		t.Errorf("position = (%v,%v), want moved right", p.X, p.Y)
	}
	if p.VX >= 60 {
		t.Errorf("drag not applied: vx = %v", p.VX)
	}

	if remove, _ := p.Update(UpdateContext{Delta: 60 * time.Millisecond}); !remove {
		t.Error("particle outlived its lifetime")
	}
}

func TestParticleFadesOut(t *testing.T) {
	ctx := newDrawContext(20, 10, 20, 20)
	p := NewParticle(5, 5, 0, 0, 1, "#fff")
	defer p.Release()

	p.Lifetime = 0.2
	_ = p.Draw(ctx)
	if ctx.Canvas.At(5, 5) != 0 {
		t.Error("faded particle drawn")
	}
	p.Lifetime = 0.8
	_ = p.Draw(ctx)
	if ctx.Canvas.At(5, 5) == 0 {
		t.Error("live particle not drawn")
	}
}

func TestRingGrows(t *testing.T) {
	r := NewRing(50, 50, 10, 30, 0.4, "#90be6d")
	if r.Radius() != 10 {
		t.Errorf("initial radius = %v", r.Radius())
	}
	if remove, _ := r.Update(UpdateContext{Delta: 200 * time.Millisecond}); remove {
		t.Fatal("ring removed halfway")
	}
	if got := r.Radius(); got < 19.9 || got > 20.1 {
		t.Errorf("halfway radius = %v, want 20", got)
	}
	if remove, _ := r.Update(UpdateContext{Delta: 200 * time.Millisecond}); !remove {
		t.Error("ring not removed at end of life")
	}
	if r.Radius() != 30 {
		t.Errorf("final radius = %v", r.Radius())
	}
}

func TestTargetSpriteDraw(t *testing.T) {
	ctx := newDrawContext(100, 50, 100, 100)
	s := TargetSprite{X: 50, Y: 50, Radius: 20, Color: "#00b4d8", Remaining: 1, Label: 'f'}
	if err := s.Draw(ctx); err != nil {
		t.Fatal(err)
	}

	disc := ctx.Canvas.Ink("#00b4d8")
	arc := ctx.Canvas.Ink(ArcColor)
	if ctx.Canvas.At(50, 50) != disc {
		t.Error("disc centre missing")
	}
	if ctx.Canvas.At(50, 26) != arc {
		t.Error("full arc missing at twelve o'clock")
	}
	if ctx.Overlay.Len() != 1 {
		t.Fatalf("overlay has %d items, want the label", ctx.Overlay.Len())
	}

	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf, 0, 0)
	ctx.Overlay.Flush(cw)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\033[26;51Hf") {
		t.Errorf("label output = %q", buf.String())
	}
	if ctx.Overlay.Len() != 0 {
		t.Error("Flush did not empty the overlay")
	}
}

func TestTargetSpriteUrgentArc(t *testing.T) {
	ctx := newDrawContext(100, 50, 100, 100)
	s := TargetSprite{X: 50, Y: 50, Radius: 20, Color: "#00b4d8", Remaining: 0.2}
	_ = s.Draw(ctx)

	urgent := ctx.Canvas.Ink(ArcUrgentColor)
	if ctx.Canvas.At(50, 26) != urgent {
		t.Error("urgent arc should start at twelve o'clock in red")
	}
	if ctx.Canvas.At(26, 50) == urgent {
		t.Error("a fifth of an arc reached nine o'clock")
	}
	if ctx.Overlay.Len() != 0 {
		t.Error("unlabelled target queued text")
	}
}

func TestPopupRisesAndExpires(t *testing.T) {
	ctx := newDrawContext(80, 40, 80, 80)
	p := NewPopup(40, 40, "+10", lipgloss.NewStyle(), 20, 1)

	if remove, _ := p.Update(UpdateContext{Delta: 500 * time.Millisecond}); remove {
		t.Fatal("popup removed early")
	}
	if _, y := p.Position(); y != 30 {
		t.Errorf("y = %v, want 30", y)
	}
	_ = p.Draw(ctx)
	if ctx.Overlay.Len() != 1 {
		t.Error("popup not queued")
	}
	if remove, _ := p.Update(UpdateContext{Delta: 600 * time.Millisecond}); !remove {
		t.Error("popup outlived its duration")
	}
}

func TestOverlayAddCentered(t *testing.T) {
	var o Overlay
	o.AddCentered(10, 2, "abcd")
	o.Add(1, 1, "")

	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf, 0, 0)
	o.Flush(cw)
	_ = cw.Flush()
	if got := buf.String(); got != "\033[2;8Habcd" {
		t.Errorf("got %q", got)
	}
}

func TestShouldRenderBlink(t *testing.T) {
	if !ShouldRenderBlink(0, 10) {
		t.Error("expired blink should render")
	}
	if ShouldRenderBlink(0.05, 10) == ShouldRenderBlink(0.15, 10) {
		t.Error("adjacent blink phases should differ")
	}
}
