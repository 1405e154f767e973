package loop

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/object"
	"github.com/tomz197/asteroidfield/internal/physics"
)

// ErrNoSession is returned when a driver is started without a session.
var ErrNoSession = errors.New("loop: no session")

// livesEpsilon absorbs float drift from repeated 1/FPS decrements.
const livesEpsilon = 1e-9

// ShipState is the ship's position in its state machine.
type ShipState int

const (
	ShipNone      ShipState = iota // No ship (attract mode, game over)
	ShipFlying                     // Normal control
	ShipImmune                     // Flying, but asteroids pass through
	ShipExploding                  // Frozen, lasers off, draining lives
)

func (s ShipState) String() string {
	switch s {
	case ShipFlying:
		return "flying"
	case ShipImmune:
		return "immune"
	case ShipExploding:
		return "exploding"
	default:
		return "none"
	}
}

// Options configures a Session. Every field is optional.
type Options struct {
	Logger *log.Logger
	Rand   physics.Source

	// OnShipDestroyed runs in the frame where the ship starts exploding.
	OnShipDestroyed func(lives float64)
	// OnGameOver runs once, in the frame where lives run out.
	OnGameOver func(score int)
}

// Session is one game: a field, the player's ship and the timers that tie
// them together. It is not safe for concurrent use; one goroutine owns it
// and calls AdvanceFrame once per tick.
type Session struct {
	tuning config.Tuning
	opts   Options
	logger *log.Logger
	src    physics.Source

	field *Field
	ship  *object.Ship
	gen   uint64 // Bumped whenever the ship is replaced or the session resets

	exploding bool
	gameOver  bool
	attract   bool

	// Held controls, reapplied to each new ship.
	thrust   bool
	rotation float64

	prevHigh int
	sched    *Scheduler
	grid     *physics.SpatialGrid
}

// NewSession validates the tuning and returns an idle session. Call Reset or
// StartAttract before advancing it.
func NewSession(tuning config.Tuning, opts Options) (*Session, error) {
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	src := opts.Rand
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Session{
		tuning: tuning,
		opts:   opts,
		logger: logger,
		src:    src,
		sched:  NewScheduler(),
	}, nil
}

// Reset starts a new game in a width x height field: score and lives are
// restored, a fresh ship sits at the center and a new field is spawned.
// Timers from the previous game are cancelled.
func (s *Session) Reset(width, height float64) {
	s.restart(width, height)

	cx, cy := s.field.Bounds.Center()
	s.ship = object.NewShip(cx, cy, s.tuning.Ship())
	s.spawnField()

	s.logger.Debug("session reset", "width", width, "height", height, "asteroids", len(s.field.Asteroids))
}

// StartAttract runs a shipless field, used behind title screens.
func (s *Session) StartAttract(width, height float64) {
	s.restart(width, height)
	s.attract = true
	s.spawnField()

	s.logger.Debug("attract mode", "width", width, "height", height, "asteroids", len(s.field.Asteroids))
}

func (s *Session) restart(width, height float64) {
	s.sched.CancelAll()
	s.gen++
	s.field = NewField(object.NewBounds(width, height), s.tuning, s.src)
	s.ship = nil
	s.exploding = false
	s.gameOver = false
	s.attract = false
	s.thrust = false
	s.rotation = 0
}

// AdvanceFrame runs exactly one simulation tick. It does nothing before the
// first Reset and after game over.
func (s *Session) AdvanceFrame() {
	if s.field == nil || s.gameOver {
		return
	}

	s.advanceShip()

	s.replenish()

	for i := 0; i < len(s.field.Asteroids); i++ {
		s.advanceAsteroid(i)
	}

	s.checkGameOver()

	s.sched.Advance()
}

func (s *Session) advanceShip() {
	if s.ship == nil {
		return
	}

	if s.exploding {
		s.ship.Freeze()
		s.ship.LaserEnabled = false
		s.field.Lives -= 1 / s.tuning.FPS
		return
	}

	s.ship.Thrusting = s.thrust
	s.ship.Rot = s.rotation
	s.ship.Advance(s.field.Bounds, s.tuning.FPS)

	if s.tuning.LaserHitsEveryFrame {
		s.resolveLaserHits()
	}
}

func (s *Session) advanceAsteroid(i int) {
	s.repelAsteroid(i)

	a := s.field.Asteroids[i]
	if !s.exploding && shipHit(s.ship, a) {
		s.destroyShip()
	}

	a.Move()
	s.field.Bounds.Wrap(a)
}

// destroyShip starts the explosion and schedules the replacement ship.
func (s *Session) destroyShip() {
	s.exploding = true
	s.ship.Thrusting = false
	s.ship.LaserEnabled = false
	s.ship.Freeze()

	gen := s.gen
	s.sched.After(s.tuning.Ticks(s.tuning.RespawnDelay), func() {
		if gen != s.gen || s.gameOver {
			return
		}
		s.respawnShip()
	})

	s.logger.Debug("ship destroyed", "lives", s.field.Lives, "score", s.field.Score)
	if s.opts.OnShipDestroyed != nil {
		s.opts.OnShipDestroyed(s.field.Lives)
	}
}

// respawnShip replaces the ship with an immune one at the center and
// schedules the end of its immunity.
func (s *Session) respawnShip() {
	s.gen++
	s.exploding = false

	cx, cy := s.field.Bounds.Center()
	s.ship = object.NewShip(cx, cy, s.tuning.Ship())
	s.ship.Immune = true

	gen := s.gen
	s.sched.After(s.tuning.Ticks(s.tuning.ImmunityDelay), func() {
		if gen != s.gen || s.ship == nil {
			return
		}
		s.ship.Immune = false
		s.logger.Debug("immunity cleared", "generation", gen)
	})

	s.logger.Debug("ship respawned", "generation", s.gen)
}

func (s *Session) checkGameOver() {
	if s.attract || s.field.Lives > livesEpsilon {
		return
	}

	s.field.Lives = 0
	s.gameOver = true
	s.sched.CancelAll()

	s.logger.Debug("game over", "score", s.field.Score)
	if s.opts.OnGameOver != nil {
		s.opts.OnGameOver(s.field.Score)
	}
}

// SetThrust holds or releases the throttle.
func (s *Session) SetThrust(on bool) {
	s.thrust = on
}

// SetRotation sets the turn rate in radians per frame; 0 stops turning.
func (s *Session) SetRotation(rate float64) {
	s.rotation = rate
}

// Turn sets the rotation to a full-rate turn: dir > 0 turns left
// (counter-clockwise), dir < 0 right, 0 stops.
func (s *Session) Turn(dir int) {
	rate := physics.ToRadians(s.tuning.TurnDeg) / s.tuning.FPS
	switch {
	case dir > 0:
		s.rotation = rate
	case dir < 0:
		s.rotation = -rate
	default:
		s.rotation = 0
	}
}

// FireOnce fires the ship's laser and immediately resolves hits. It reports
// whether a projectile left the ship.
func (s *Session) FireOnce() bool {
	if s.ship == nil || s.gameOver {
		return false
	}
	fired := s.ship.Fire(s.tuning.FPS)
	s.resolveLaserHits()
	return fired
}

// Resize tracks a new viewport without restarting the game.
func (s *Session) Resize(width, height float64) {
	if s.field == nil {
		return
	}
	s.field.Resize(width, height)
}

// Score returns the current score.
func (s *Session) Score() int {
	if s.field == nil {
		return 0
	}
	return s.field.Score
}

// Lives returns the raw lives counter, fractional while the ship explodes.
func (s *Session) Lives() float64 {
	if s.field == nil {
		return 0
	}
	return s.field.Lives
}

// DisplayLives returns the whole lives to show on screen.
func (s *Session) DisplayLives() int {
	return int(math.Floor(s.Lives() + livesEpsilon))
}

// ShipState reports where the ship is in its state machine.
func (s *Session) ShipState() ShipState {
	switch {
	case s.ship == nil || s.gameOver:
		return ShipNone
	case s.exploding:
		return ShipExploding
	case s.ship.Immune:
		return ShipImmune
	default:
		return ShipFlying
	}
}

// Ship returns the live ship, or nil. Callers must not keep it across frames.
func (s *Session) Ship() *object.Ship {
	return s.ship
}

// Asteroids returns the live asteroids. The slice is owned by the session.
func (s *Session) Asteroids() []*object.Asteroid {
	if s.field == nil {
		return nil
	}
	return s.field.Asteroids
}

// Bounds returns the field size.
func (s *Session) Bounds() object.Bounds {
	if s.field == nil {
		return object.Bounds{}
	}
	return s.field.Bounds
}

// Tuning returns the session's constants.
func (s *Session) Tuning() config.Tuning {
	return s.tuning
}

// Exploding reports whether the ship is mid-explosion.
func (s *Session) Exploding() bool {
	return s.exploding
}

// GameOver reports whether lives ran out.
func (s *Session) GameOver() bool {
	return s.gameOver
}

// Attract reports whether the session is a shipless backdrop.
func (s *Session) Attract() bool {
	return s.attract
}

// Frame returns the number of ticks advanced since the session was created.
func (s *Session) Frame() int64 {
	return s.sched.Now()
}

// SetPreviousHighScore records the best score to beat.
func (s *Session) SetPreviousHighScore(score int) {
	s.prevHigh = score
}

// NewHighScore reports whether the current score beats the previous best.
func (s *Session) NewHighScore() bool {
	return s.Score() > s.prevHigh
}
