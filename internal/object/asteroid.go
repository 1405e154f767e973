package object

import (
	"fmt"
	"math"

	"github.com/tomz197/asteroidfield/internal/physics"
)

// AsteroidSpec controls the random shape and drift of new asteroids.
type AsteroidSpec struct {
	FPS          float64
	SpeedMin     int // Drift speed range (px/s), [min, max)
	SpeedMax     int
	VertexDieMin int // Vertex count is the sum of two rolls in [min, max)
	VertexDieMax int
}

// Asteroid is a jagged drifting rock. Its outline is fixed at creation.
type Asteroid struct {
	ID         uint64  // Stable identity within a field
	X, Y       float64 // Position (center)
	R          float64 // Radius
	Angle      float64 // Heading, fixed for the asteroid's life
	VX, VY     float64 // Velocity (px/frame)
	Jaggedness float64 // 0 = round, 1 = very jagged

	offsets []float64 // Per-vertex radius multipliers
}

// NewAsteroid creates an asteroid at (x, y) with radius r and a random
// outline and drift. It panics on a non-positive radius.
func NewAsteroid(id uint64, x, y, r float64, spec AsteroidSpec, src physics.Source) *Asteroid {
	if r <= 0 {
		panic(fmt.Sprintf("object: asteroid radius must be positive, got %v", r))
	}

	a := &Asteroid{
		ID:    id,
		X:     x,
		Y:     y,
		R:     r,
		Angle: src.Float64() * 2 * math.Pi,
	}
	a.VX = float64(physics.RandomInt(src, spec.SpeedMin, spec.SpeedMax)) / spec.FPS * physics.RandomSign(src)
	a.VY = float64(physics.RandomInt(src, spec.SpeedMin, spec.SpeedMax)) / spec.FPS * physics.RandomSign(src)

	vertices := physics.RandomInt(src, spec.VertexDieMin, spec.VertexDieMax) +
		physics.RandomInt(src, spec.VertexDieMin, spec.VertexDieMax)
	a.Jaggedness = physics.RandomUnit(src)
	a.offsets = make([]float64, vertices)
	for i := range a.offsets {
		// uniform in [1-j, 1+j)
		a.offsets[i] = src.Float64()*a.Jaggedness*2 + 1 - a.Jaggedness
	}

	return a
}

// Position returns the asteroid center.
func (a *Asteroid) Position() (float64, float64) {
	return a.X, a.Y
}

// SetPosition moves the asteroid center.
func (a *Asteroid) SetPosition(x, y float64) {
	a.X, a.Y = x, y
}

// Radius returns the collision radius.
func (a *Asteroid) Radius() float64 {
	return a.R
}

// Velocity returns the per-frame velocity.
func (a *Asteroid) Velocity() (float64, float64) {
	return a.VX, a.VY
}

// Vertices returns the number of outline vertices.
func (a *Asteroid) Vertices() int {
	return len(a.offsets)
}

// Offsets returns a copy of the per-vertex radius multipliers.
func (a *Asteroid) Offsets() []float64 {
	out := make([]float64, len(a.offsets))
	copy(out, a.offsets)
	return out
}

// Outline returns the polygon vertices in field coordinates.
func (a *Asteroid) Outline() []physics.Vec {
	n := len(a.offsets)
	points := make([]physics.Vec, n)
	for i, off := range a.offsets {
		angle := a.Angle + float64(i)*2*math.Pi/float64(n)
		points[i] = physics.Vec{
			X: a.X + off*a.R*math.Cos(angle),
			Y: a.Y + off*a.R*math.Sin(angle),
		}
	}
	return points
}

// Move applies one frame of velocity.
func (a *Asteroid) Move() {
	a.X += a.VX
	a.Y += a.VY
}

// Nudge is the stylized repulsion kick: v = v/(fps/2) + trig(-heading).
// It does not conserve momentum.
func (a *Asteroid) Nudge(fps float64) {
	a.VX = a.VX/(fps/2) + math.Sin(-a.Angle)
	a.VY = a.VY/(fps/2) + math.Cos(-a.Angle)
}
