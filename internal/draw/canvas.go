package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Point is a position in logical canvas units.
type Point struct {
	X, Y float64
}

// Ink is an index into a canvas palette. The zero Ink is transparent.
type Ink uint8

// Half-block characters used to pack two pixels into one cell.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// maxChunkSize is the maximum bytes to write at once for smooth SSH flow.
const maxChunkSize = 1400

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Drawing happens in logical coordinates that are
// scaled to whatever the terminal provides.
type Canvas struct {
	termWidth      int   // Actual terminal columns
	termHeight     int   // Actual terminal rows
	subPixelHeight int   // termHeight * 2
	pixels         []Ink // [y * termWidth + x]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offset of the render area when the terminal is
	// larger than the max render size.
	offsetCol int
	offsetRow int

	renderer *lipgloss.Renderer
	palette  []lipgloss.Color // palette[0] is unused
	inks     map[string]Ink
	cells    map[[2]Ink]string // Rendered (top, bottom) cells

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas mapping logicalWidth x logicalHeight onto
// a termWidth x termHeight cell area. Colours are rendered for r's profile.
func NewScaledCanvas(r *lipgloss.Renderer, termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		renderer:      r,
		palette:       []lipgloss.Color{""},
		inks:          make(map[string]Ink),
		cells:         make(map[[2]Ink]string),
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Ink returns the palette entry for a colour, adding it on first use.
// When the palette is full the last entry is reused.
func (c *Canvas) Ink(color string) Ink {
	if ink, ok := c.inks[color]; ok {
		return ink
	}
	if len(c.palette) > math.MaxUint8 {
		return Ink(math.MaxUint8)
	}
	ink := Ink(len(c.palette))
	c.palette = append(c.palette, lipgloss.Color(color))
	c.inks[color] = ink
	return ink
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Ink, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset of the render area.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

// At returns the ink of the pixel at pixel coordinates.
func (c *Canvas) At(x, y int) Ink {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets a pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64, ink Ink) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), ink)
}

// Render writes every non-empty cell to w, positioned with absolute cursor
// moves so empty cells cost nothing.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	for row := 0; row < c.termHeight; row++ {
		top := c.pixels[row*2*c.termWidth : (row*2+1)*c.termWidth]
		bottom := c.pixels[(row*2+1)*c.termWidth : (row*2+2)*c.termWidth]

		lastCol := -2
		for col := 0; col < c.termWidth; col++ {
			key := [2]Ink{top[col], bottom[col]}
			if key == ([2]Ink{}) {
				continue
			}
			if col != lastCol+1 {
				c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			c.renderBuf.WriteString(c.cell(key))
			lastCol = col
		}
	}

	writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// cell renders one half-block cell, cached per colour pair.
func (c *Canvas) cell(key [2]Ink) string {
	if s, ok := c.cells[key]; ok {
		return s
	}
	top, bottom := key[0], key[1]
	style := c.renderer.NewStyle()
	var ch rune
	switch {
	case top == bottom:
		style = style.Foreground(c.palette[top])
		ch = BlockFull
	case top != 0 && bottom != 0:
		style = style.Foreground(c.palette[top]).Background(c.palette[bottom])
		ch = BlockUpperHalf
	case top != 0:
		style = style.Foreground(c.palette[top])
		ch = BlockUpperHalf
	default:
		style = style.Foreground(c.palette[bottom])
		ch = BlockLowerHalf
	}
	s := style.Render(string(ch))
	c.cells[key] = s
	return s
}

// RenderBorder draws a box around the render area when the terminal
// exceeds the max render size on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursor(left, top) + "┌" + line + "┐")
			buf.WriteString(cursor(left, bottom) + "└" + line + "┘")
		} else {
			buf.WriteString(cursor(c.offsetCol+1, top) + line)
			buf.WriteString(cursor(c.offsetCol+1, bottom) + line)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow, endRow = c.offsetRow+1, c.offsetRow+c.termHeight+1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursor(left, row) + "│" + cursor(right, row) + "│")
		}
	}
	writeChunked(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the render area's column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area's row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based cell position
// inside the render area (offset not applied).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based absolute terminal cell, as reported
// by mouse events, to the logical point at the centre of that cell. ok is
// false when the cell lies outside the render area.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	cx := col - 1 - c.offsetCol
	cy := row - 1 - c.offsetRow
	if cx < 0 || cx >= c.termWidth || cy < 0 || cy >= c.termHeight || c.scaleX == 0 || c.scaleY == 0 {
		return 0, 0, false
	}
	x = (float64(cx) + 0.5) / c.scaleX
	y = (float64(cy)*2 + 1) / c.scaleY
	return x, y, true
}

// ScaleX returns pixels per logical unit horizontally.
func (c *Canvas) ScaleX() float64 {
	return c.scaleX
}

// ScaleY returns pixels per logical unit vertically.
func (c *Canvas) ScaleY() float64 {
	return c.scaleY
}

func cursor(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}
