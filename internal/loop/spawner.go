package loop

import "github.com/tomz197/asteroidfield/internal/physics"

// spawnField fills the field with a new random population around the ship.
func (s *Session) spawnField() {
	lo, hi := s.tuning.CountRange()
	count := physics.RandomInt(s.src, lo, hi)
	s.field.SpawnField(count, s.ship)
	s.logger.Debug("field spawned", "count", count)
}

// replenish spawns a new field once the last asteroid is gone.
func (s *Session) replenish() {
	if s.field.Empty() {
		s.spawnField()
	}
}
