// Package physics provides the geometry, distance and random-range helpers
// shared by the simulation.
package physics

import "math"

// Vec is a point or vector in field coordinates (y grows downward).
type Vec struct {
	X, Y float64
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// SurfaceGap returns the distance between two circle surfaces, rounded up.
// Zero or negative means the circles touch or overlap. The ceiling biases
// borderline pairs toward "not yet colliding".
func SurfaceGap(x1, y1, r1, x2, y2, r2 float64) float64 {
	return math.Ceil(Distance(x1, y1, x2, y2) - (r1 + r2))
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Heading returns the unit vector for angle a in screen space: counter-clockwise
// positive, so the y component is negated.
func Heading(a float64) Vec {
	return Vec{X: math.Cos(a), Y: -math.Sin(a)}
}
