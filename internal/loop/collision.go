package loop

import (
	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/object"
	"github.com/tomz197/asteroidfield/internal/physics"
)

// repels reports whether a should be pushed away from other this frame.
func repels(mode config.RepulsionMode, a, other object.Body) bool {
	ax, ay := a.Position()
	ox, oy := other.Position()
	gap := physics.SurfaceGap(ax, ay, a.Radius(), ox, oy, other.Radius())
	if mode == config.RepulsionGeometric {
		return gap < 0
	}
	return gap < a.Radius()+ax
}

// repelAsteroid nudges the asteroid at index i and every asteroid it is too
// close to. Both sides of a pair get a kick, so a pair is nudged again when
// the other asteroid's turn comes.
func (s *Session) repelAsteroid(i int) {
	asteroids := s.field.Asteroids
	a := asteroids[i]
	for j, other := range asteroids {
		if j == i {
			continue
		}
		if repels(s.tuning.Repulsion, a, other) {
			a.Nudge(s.tuning.FPS)
			other.Nudge(s.tuning.FPS)
		}
	}
}

// shipHit reports whether a vulnerable ship touches the body.
func shipHit(ship *object.Ship, body object.Body) bool {
	if ship == nil || ship.Immune {
		return false
	}
	bx, by := body.Position()
	return physics.CirclesOverlap(ship.X, ship.Y, ship.R, bx, by, body.Radius())
}

// resolveLaserHits destroys every asteroid a live projectile is within hit
// range of. Each projectile takes out at most one asteroid and each asteroid
// absorbs at most one projectile. Removal happens after all pairs are
// matched, so indices stay valid during the scan.
func (s *Session) resolveLaserHits() {
	if s.ship == nil || len(s.ship.Projectiles) == 0 || s.field.Empty() {
		return
	}

	asteroids := s.field.Asteroids
	hitRadius := s.tuning.HitRadius
	cell := hitRadius * s.field.maxRadius()
	b := s.field.Bounds
	if s.grid == nil {
		s.grid = physics.NewSpatialGrid(b.Width, b.Height, cell)
	} else {
		s.grid.Reset(b.Width, b.Height, cell)
	}
	for i, a := range asteroids {
		s.grid.Insert(a.X, a.Y, i)
	}

	hit := make([]bool, len(asteroids))
	spent := make([]bool, len(s.ship.Projectiles))
	var destroyed []uint64

	for pi, p := range s.ship.Projectiles {
		target := -1
		s.grid.QueryAround(p.X, p.Y, func(ai int) bool {
			if hit[ai] || (target >= 0 && ai > target) {
				return false
			}
			a := asteroids[ai]
			reach := hitRadius * a.R
			if physics.DistanceSquared(p.X, p.Y, a.X, a.Y) < reach*reach {
				target = ai // lowest index wins
			}
			return false
		})
		if target < 0 {
			continue
		}
		hit[target] = true
		spent[pi] = true
		destroyed = append(destroyed, asteroids[target].ID)
	}

	if len(destroyed) == 0 {
		return
	}
	for _, id := range destroyed {
		if award, ok := s.field.DestroyAsteroid(id); ok {
			s.logger.Debug("asteroid destroyed", "id", id, "award", award, "score", s.field.Score)
		}
	}
	s.ship.RemoveProjectiles(spent)
}
