package object

import "math"

// Projectile is a laser bolt fired by the ship. Velocity is per frame.
type Projectile struct {
	X, Y     float64 // Position
	VX, VY   float64 // Velocity (px/frame)
	Traveled float64 // Cumulative distance, only grows while alive
}

// Speed is the per-frame distance the projectile covers.
func (p Projectile) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY)
}

// Position returns the projectile position.
func (p Projectile) Position() (float64, float64) {
	return p.X, p.Y
}

// step advances one frame: distance first, then position. It returns false if
// the projectile expired by range (over maxDistance) or left the field.
func (p *Projectile) step(b Bounds, maxDistance float64) bool {
	p.Traveled += p.Speed()
	if p.Traveled > maxDistance {
		return false
	}

	p.X += p.VX
	p.Y += p.VY

	return b.Contains(p.X, p.Y)
}
