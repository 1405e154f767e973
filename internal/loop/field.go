package loop

import (
	"fmt"

	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/object"
	"github.com/tomz197/asteroidfield/internal/physics"
)

// spawnNudge is added past the ship's hull when a spawn point lands inside
// the buffer zone.
const spawnNudge = 20

// Field owns the live asteroids together with the score and lives counters.
type Field struct {
	Bounds    object.Bounds
	Asteroids []*object.Asteroid
	Score     int
	Lives     float64

	nextID uint64
	tuning config.Tuning
	src    physics.Source
}

// NewField creates an empty field with full lives.
func NewField(b object.Bounds, tuning config.Tuning, src physics.Source) *Field {
	return &Field{
		Bounds: b,
		Lives:  tuning.InitialLives,
		tuning: tuning,
		src:    src,
	}
}

// SpawnField replaces the asteroid collection with count new asteroids at
// random positions. A candidate inside the buffer zone around ship is pushed
// away once rather than re-rolled; wrapping brings it back on screen.
func (f *Field) SpawnField(count int, ship *object.Ship) {
	f.Asteroids = make([]*object.Asteroid, 0, count)
	rmin, rmax := f.tuning.RadiusRange()
	w, h := int(f.Bounds.Width), int(f.Bounds.Height)

	for i := 0; i < count; i++ {
		x := float64(physics.RandomInt(f.src, 0, w))
		y := float64(physics.RandomInt(f.src, 0, h))
		r := float64(physics.RandomInt(f.src, rmin, rmax))

		if ship != nil && physics.Distance(ship.X, ship.Y, x, y) <= ship.R*f.tuning.SpawnBuffer {
			x = float64(physics.RandomInt(f.src, 0, w)) + ship.X + ship.R + spawnNudge
			y = float64(physics.RandomInt(f.src, 0, h)) + ship.Y + ship.R + spawnNudge
		}

		f.AddAsteroid(x, y, r)
	}
}

// AddAsteroid creates an asteroid with a fresh ID and adds it to the field.
func (f *Field) AddAsteroid(x, y, r float64) *object.Asteroid {
	f.nextID++
	a := object.NewAsteroid(f.nextID, x, y, r, f.tuning.Asteroid(), f.src)
	f.Asteroids = append(f.Asteroids, a)
	return a
}

// Find returns the index of the asteroid with the given ID, or -1.
func (f *Field) Find(id uint64) int {
	for i, a := range f.Asteroids {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// DestroyAsteroid removes the asteroid with the given ID, awards its tier's
// points and, for the larger tiers, adds two half-radius children at the
// same spot. A stale ID is a no-op and awards nothing.
func (f *Field) DestroyAsteroid(id uint64) (award int, ok bool) {
	i := f.Find(id)
	if i < 0 {
		return 0, false
	}
	a := f.Asteroids[i]
	if a.R <= 0 {
		panic(fmt.Sprintf("loop: asteroid %d has non-positive radius %v", a.ID, a.R))
	}

	award = config.ScoreFor(a.R)
	f.Score += award
	f.Asteroids = append(f.Asteroids[:i], f.Asteroids[i+1:]...)

	if config.Splits(a.R) {
		half := a.R / 2
		f.AddAsteroid(a.X, a.Y, half)
		f.AddAsteroid(a.X, a.Y, half)
	}
	return award, true
}

// Resize changes the field bounds without touching its contents.
func (f *Field) Resize(width, height float64) {
	f.Bounds = object.NewBounds(width, height)
}

// Empty reports whether no asteroids are left.
func (f *Field) Empty() bool {
	return len(f.Asteroids) == 0
}

// maxRadius returns the largest live asteroid radius, or 0.
func (f *Field) maxRadius() float64 {
	m := 0.0
	for _, a := range f.Asteroids {
		if a.R > m {
			m = a.R
		}
	}
	return m
}
