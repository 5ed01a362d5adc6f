package draw

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// plainCanvas renders without colour codes so output is easy to inspect.
func plainCanvas(cols, rows int, lw, lh float64) *Canvas {
	return NewScaledCanvas(lipgloss.NewRenderer(io.Discard), cols, rows, lw, lh)
}

func count(c *Canvas, ink Ink) int {
	n := 0
	for _, p := range c.pixels {
		if p == ink {
			n++
		}
	}
	return n
}

func TestInkPalette(t *testing.T) {
	c := plainCanvas(10, 5, 10, 10)
	a := c.Ink("#e94560")
	b := c.Ink("#00b4d8")
	if a == 0 || b == 0 || a == b {
		t.Fatalf("inks a=%d b=%d, want distinct non-zero", a, b)
	}
	if again := c.Ink("#e94560"); again != a {
		t.Errorf("Ink reused as %d, want %d", again, a)
	}
}

func TestFillCircleCoversCentreNotCorners(t *testing.T) {
	c := plainCanvas(40, 20, 40, 40) // one pixel per logical unit
	ink := c.Ink("#fff")
	c.FillCircle(Point{X: 20, Y: 20}, 10, ink)

	if c.At(20, 20) != ink {
		t.Error("centre not filled")
	}
	if c.At(10, 10) != 0 || c.At(30, 30) != 0 {
		t.Error("bounding-box corners filled")
	}
	if n := count(c, ink); n < 280 || n > 350 {
		t.Errorf("filled %d pixels, want about pi*100", n)
	}
}

func TestRingIsHollow(t *testing.T) {
	c := plainCanvas(40, 20, 40, 40)
	ink := c.Ink("#fff")
	c.DrawRing(Point{X: 20, Y: 20}, 10, ink)

	if c.At(20, 20) != 0 {
		t.Error("ring centre filled")
	}
	if c.At(20, 10) != ink {
		t.Error("top of ring missing")
	}
}

func TestArcSweep(t *testing.T) {
	c := plainCanvas(40, 20, 40, 40)
	ink := c.Ink("#fff")
	c.DrawArc(Point{X: 20, Y: 20}, 10, 0.25, ink)

	if c.At(20, 10) != ink {
		t.Error("arc should start at twelve o'clock")
	}
	if c.At(29, 19) != ink {
		t.Error("quarter arc should reach three o'clock")
	}
	if c.At(10, 20) != 0 || c.At(20, 29) != 0 {
		t.Error("quarter arc drew past three o'clock")
	}

	full := plainCanvas(40, 20, 40, 40)
	full.DrawRing(Point{X: 20, Y: 20}, 10, ink)
	if got, whole := count(c, ink), count(full, ink); got*3 > whole || got*5 < whole {
		t.Errorf("quarter arc has %d of %d ring pixels", got, whole)
	}

	empty := plainCanvas(40, 20, 40, 40)
	empty.DrawArc(Point{X: 20, Y: 20}, 10, 0, ink)
	if count(empty, ink) != 0 {
		t.Error("zero arc drew pixels")
	}
}

func TestTinyCircleStillVisible(t *testing.T) {
	c := plainCanvas(8, 3, 800, 600)
	ink := c.Ink("#fff")
	c.FillCircle(Point{X: 400, Y: 300}, 5, ink)
	if count(c, ink) != 1 {
		t.Errorf("tiny circle drew %d pixels, want 1", count(c, ink))
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := plainCanvas(3, 1, 3, 2)
	ink := c.Ink("#fff")
	c.setPixel(0, 0, ink)
	c.setPixel(1, 1, ink)
	c.setPixel(2, 0, ink)
	c.setPixel(2, 1, ink)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, "\033[1;1H") {
		t.Errorf("render should start at the first cell: %q", out)
	}
	for _, want := range []string{string(BlockUpperHalf), string(BlockLowerHalf), string(BlockFull)} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Count(out, "\033[") != 1 {
		t.Errorf("adjacent cells should share one cursor move: %q", out)
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := plainCanvas(80, 30, 160, 120) // half a cell per logical unit
	c.SetOffset(10, 5)

	x, y, ok := c.TerminalToLogical(11, 6)
	if !ok || x != 1 || y != 2 {
		t.Errorf("first cell -> (%v,%v,%v), want (1,2,true)", x, y, ok)
	}
	if _, _, ok := c.TerminalToLogical(10, 6); ok {
		t.Error("cell left of the render area accepted")
	}
	if _, _, ok := c.TerminalToLogical(91, 6); ok {
		t.Error("cell right of the render area accepted")
	}

	col, row := c.LogicalToTerminal(x, y)
	if col != 1 || row != 1 {
		t.Errorf("round trip -> (%d,%d), want (1,1)", col, row)
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 3)
	cw.WriteAt(1, 1, "hi")
	if buf.Len() != 0 {
		t.Fatal("wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[4;3Hhi" {
		t.Errorf("got %q", got)
	}
}
