// Package object defines the moving entities of the field: the ship, its
// projectiles and the asteroids.
package object

import "fmt"

// Body is anything with a position and a collision radius.
type Body interface {
	Position() (x, y float64)
	Radius() float64
}

// Wrappable is a Body that can be teleported across field edges.
type Wrappable interface {
	Body
	SetPosition(x, y float64)
}

// Mover is a Body with a per-frame velocity.
type Mover interface {
	Body
	Velocity() (vx, vy float64)
}

// Bounds is the visible field area, [0,Width] x [0,Height].
type Bounds struct {
	Width  float64
	Height float64
}

// NewBounds validates and returns field bounds.
func NewBounds(width, height float64) Bounds {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("object: field size must be positive, got %vx%v", width, height))
	}
	return Bounds{Width: width, Height: height}
}

// Wrap teleports obj to the opposite edge once it is more than its own radius
// outside the field on an axis. The topology is toroidal; nothing bounces.
// Applying Wrap again without motion changes nothing.
func (b Bounds) Wrap(obj Wrappable) {
	x, y := obj.Position()
	r := obj.Radius()

	if x < -r {
		x = b.Width + r
	} else if x > b.Width+r {
		x = -r
	}
	if y < -r {
		y = b.Height + r
	} else if y > b.Height+r {
		y = -r
	}

	obj.SetPosition(x, y)
}

// Contains reports whether (x, y) lies inside the field, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// Center returns the middle of the field.
func (b Bounds) Center() (float64, float64) {
	return b.Width / 2, b.Height / 2
}
