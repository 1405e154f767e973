package object

import (
	"fmt"
	"math"

	"github.com/tomz197/asteroidfield/internal/physics"
)

// ThrustScaling selects how the thrust constant is scaled per frame.
type ThrustScaling string

const (
	// ThrustSqrtFPS divides thrust by sqrt(FPS).
	ThrustSqrtFPS ThrustScaling = "sqrt-fps"
	// ThrustHalfFrame divides thrust by FPS and then by 2.
	ThrustHalfFrame ThrustScaling = "half-frame"
	// ThrustImpulse adds the raw thrust constant every frame.
	ThrustImpulse ThrustScaling = "impulse"
)

// factor returns the per-frame thrust divisor.
func (t ThrustScaling) factor(fps float64) float64 {
	switch t {
	case ThrustHalfFrame:
		return fps * 2
	case ThrustImpulse:
		return 1
	default:
		return math.Sqrt(fps)
	}
}

// ShipSpec holds the per-ship tunables.
type ShipSpec struct {
	Radius        float64       // Hull radius (px)
	HeadingDeg    float64       // Initial heading, 90 = pointing up
	Thrust        float64       // Acceleration constant
	Friction      float64       // Velocity decay coefficient per second
	TurnDeg       float64       // Turn rate in degrees per second
	LaserDistance float64       // Max projectile travel as a fraction of field width
	LaserSpeed    float64       // Projectile speed (px/s)
	LaserMax      int           // Magazine size before the overflow volley
	Scaling       ThrustScaling // Thrust scaling mode
}

// Ship is the player-controlled spaceship. A destroyed ship is replaced by a
// new value, never revived in place.
type Ship struct {
	X, Y   float64 // Position (center of ship)
	R      float64 // Radius
	Angle  float64 // Heading in radians, counter-clockwise, 0 = right
	VX, VY float64 // Velocity (px/frame)
	Rot    float64 // Rotation rate (rad/frame)

	Thrusting    bool
	Immune       bool
	LaserEnabled bool

	// Projectiles in fire order.
	Projectiles []Projectile

	Spec ShipSpec
}

// NewShip creates a stationary ship at (x, y) with lasers enabled.
func NewShip(x, y float64, spec ShipSpec) *Ship {
	if spec.Radius <= 0 {
		panic(fmt.Sprintf("object: ship radius must be positive, got %v", spec.Radius))
	}
	return &Ship{
		X:            x,
		Y:            y,
		R:            spec.Radius,
		Angle:        physics.ToRadians(spec.HeadingDeg),
		LaserEnabled: true,
		Spec:         spec,
	}
}

// Position returns the ship center.
func (s *Ship) Position() (float64, float64) {
	return s.X, s.Y
}

// SetPosition moves the ship center.
func (s *Ship) SetPosition(x, y float64) {
	s.X, s.Y = x, y
}

// Radius returns the hull radius.
func (s *Ship) Radius() float64 {
	return s.R
}

// Velocity returns the per-frame velocity.
func (s *Ship) Velocity() (float64, float64) {
	return s.VX, s.VY
}

// Speed returns the velocity magnitude.
func (s *Ship) Speed() float64 {
	return math.Sqrt(s.VX*s.VX + s.VY*s.VY)
}

// TurnRate is the rotation rate (rad/frame) for a held turn key.
func (s *Ship) TurnRate(fps float64) float64 {
	return physics.ToRadians(s.Spec.TurnDeg) / fps
}

// MaxLaserDistance is how far a projectile may travel in a field of the given width.
func (s *Ship) MaxLaserDistance(b Bounds) float64 {
	return s.Spec.LaserDistance * b.Width
}

// Advance runs one frame: velocity, projectiles, heading, position, wrap.
func (s *Ship) Advance(b Bounds, fps float64) {
	if s.Thrusting {
		k := s.Spec.Thrust / s.Spec.Scaling.factor(fps)
		h := physics.Heading(s.Angle)
		s.VX += k * h.X
		s.VY += k * h.Y
	} else {
		s.VX -= s.Spec.Friction * s.VX / fps
		s.VY -= s.Spec.Friction * s.VY / fps
	}

	s.advanceProjectiles(b)

	s.Angle += s.Rot

	s.X += s.VX
	s.Y += s.VY

	b.Wrap(s)
}

// advanceProjectiles moves every live projectile and drops the expired ones.
func (s *Ship) advanceProjectiles(b Bounds) {
	maxDist := s.MaxLaserDistance(b)
	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if p.step(b, maxDist) {
			kept = append(kept, p)
		}
	}
	s.Projectiles = kept
}

// Nose returns the tip of the hull, where projectiles leave the ship.
func (s *Ship) Nose() physics.Vec {
	h := physics.Heading(s.Angle)
	return physics.Vec{
		X: s.X + 4.0/3.0*s.R*h.X,
		Y: s.Y + 4.0/3.0*s.R*h.Y,
	}
}

// Hull returns the nose, rear-left and rear-right vertices.
func (s *Ship) Hull() [3]physics.Vec {
	cos, sin := math.Cos(s.Angle), math.Sin(s.Angle)
	return [3]physics.Vec{
		s.Nose(),
		{X: s.X - s.R*(2.0/3.0*cos+sin), Y: s.Y + s.R*(2.0/3.0*sin-cos)},
		{X: s.X - s.R*(2.0/3.0*cos-sin), Y: s.Y + s.R*(2.0/3.0*sin+cos)},
	}
}

// Fire appends a projectile from the nose if lasers are enabled and the
// magazine is not full. When the magazine reaches capacity one more
// projectile goes out and the whole collection is cleared (overflow volley).
// It reports whether anything was fired.
func (s *Ship) Fire(fps float64) bool {
	fired := false
	if s.LaserEnabled && len(s.Projectiles) < s.Spec.LaserMax {
		s.Projectiles = append(s.Projectiles, s.newProjectile(fps))
		fired = true
	}

	if len(s.Projectiles) >= s.Spec.LaserMax {
		s.Projectiles = append(s.Projectiles, s.newProjectile(fps))
		s.Projectiles = nil
		fired = true
	}

	return fired
}

func (s *Ship) newProjectile(fps float64) Projectile {
	nose := s.Nose()
	h := physics.Heading(s.Angle)
	return Projectile{
		X:  nose.X,
		Y:  nose.Y,
		VX: s.Spec.LaserSpeed * h.X / fps,
		VY: s.Spec.LaserSpeed * h.Y / fps,
	}
}

// RemoveProjectiles drops the projectiles whose index is marked spent,
// keeping fire order. Marks beyond the collection are ignored.
func (s *Ship) RemoveProjectiles(spent []bool) {
	kept := s.Projectiles[:0]
	for i, p := range s.Projectiles {
		if i < len(spent) && spent[i] {
			continue
		}
		kept = append(kept, p)
	}
	s.Projectiles = kept
}

// Freeze stops the ship where it is.
func (s *Ship) Freeze() {
	s.VX, s.VY = 0, 0
}
