package draw

import "math"

// DrawLine draws a line using Bresenham's algorithm. Coordinates are
// logical and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, ink Ink) {
	x1 := int(math.Floor(p1.X * c.scaleX))
	y1 := int(math.Floor(p1.Y * c.scaleY))
	x2 := int(math.Floor(p2.X * c.scaleX))
	y2 := int(math.Floor(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, ink)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillCircle fills a circle of logical radius r. Because the axes scale
// independently the circle is an ellipse in pixel space.
func (c *Canvas) FillCircle(center Point, r float64, ink Ink) {
	c.ellipse(center, r, 0, 1, ink)
}

// DrawRing draws a one pixel wide circle outline.
func (c *Canvas) DrawRing(center Point, r float64, ink Ink) {
	c.ellipse(center, r, 1, 1, ink)
}

// DrawArc draws the first fraction of a ring, clockwise from twelve
// o'clock. fraction is clamped to [0, 1].
func (c *Canvas) DrawArc(center Point, r, fraction float64, ink Ink) {
	if fraction <= 0 {
		return
	}
	c.ellipse(center, r, 1, math.Min(fraction, 1), ink)
}

// ellipse rasterises the pixels whose centres fall within the scaled
// circle. A positive width keeps only the outer band that many pixels
// thick; sweep limits the band to an arc.
func (c *Canvas) ellipse(center Point, r float64, width int, sweep float64, ink Ink) {
	if r <= 0 {
		return
	}
	cx, cy := center.X*c.scaleX, center.Y*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx < 0.5 || ry < 0.5 {
		c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), ink)
		return
	}
	irx, iry := rx-float64(width), ry-float64(width)
	limit := sweep * 2 * math.Pi

	for py := int(math.Floor(cy - ry)); py <= int(math.Ceil(cy+ry)); py++ {
		dy := float64(py) + 0.5 - cy
		for px := int(math.Floor(cx - rx)); px <= int(math.Ceil(cx+rx)); px++ {
			dx := float64(px) + 0.5 - cx
			if sq(dx/rx)+sq(dy/ry) > 1 {
				continue
			}
			if width > 0 && irx > 0 && iry > 0 && sq(dx/irx)+sq(dy/iry) < 1 {
				continue
			}
			if sweep < 1 && clockAngle(dx, dy) > limit {
				continue
			}
			c.setPixel(px, py, ink)
		}
	}
}

// clockAngle is the clockwise angle from straight up, in [0, 2π).
func clockAngle(dx, dy float64) float64 {
	a := math.Atan2(dx, -dy)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func sq(v float64) float64 { return v * v }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
