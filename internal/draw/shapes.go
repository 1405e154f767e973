package draw

import "math"

// circleSegments is the number of chords used to approximate a circle.
const circleSegments = 24

// DrawCircle draws the outline of a circle of radius r around (cx, cy).
func (c *Canvas) DrawCircle(cx, cy, r float64) {
	if r <= 0 {
		c.SetFloat(cx, cy)
		return
	}
	prev := Point{cx + r, cy}
	for i := 1; i <= circleSegments; i++ {
		a := float64(i) * 2 * math.Pi / circleSegments
		next := Point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
		c.DrawLine(prev, next)
		prev = next
	}
}

// DrawDot sets a small plus-shaped mark, wide enough to stay visible after
// scaling a single field pixel down to a terminal cell.
func (c *Canvas) DrawDot(x, y float64) {
	px, py := c.scale(Point{x, y})
	c.setPixel(px, py)
	c.setPixel(px, py-1)
	c.setPixel(px, py+1)
}
