// Package config centralizes all tunable game parameters.
package config

import (
	"fmt"
	"math"
	"time"

	envconfig "github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/object"
)

// RepulsionMode selects the asteroid-asteroid proximity test.
type RepulsionMode string

const (
	// RepulsionXQuirk nudges when surfaceGap < r + x, as the arcade always did.
	RepulsionXQuirk RepulsionMode = "x-quirk"
	// RepulsionGeometric nudges only when the outlines actually touch.
	RepulsionGeometric RepulsionMode = "geometric"
)

// Scoring
const (
	ScoreLargeAsteroid  = 20
	ScoreMediumAsteroid = 50
	ScoreSmallAsteroid  = 100
)

// Split tiers: (MediumMax, LargeMax] is large, (SmallMax, MediumMax] is
// medium, (0, SmallMax] is small.
const (
	LargeMaxRadius  = 100.0
	MediumMaxRadius = 50.0
	SmallMaxRadius  = 25.0
)

// Player
const (
	PlayerBlinkFrequency = 10.0 // Hz
	MaxUsernameLength    = 16   // Maximum display length for player names
	MaxHighScores        = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Terminal rendering. One terminal column and one half-block row both map to
// PixelsPerCell field pixels.
const (
	PixelsPerCell = 8
	MaxTermWidth  = 240
	MaxTermHeight = 70
)

// Hub tick rate
const (
	HubTickRate = 20
	HubTickTime = time.Second / HubTickRate
)

// Tuning holds every constant the simulation reads. The zero value is not
// usable; start from Default.
type Tuning struct {
	FPS          float64 // Simulation ticks per second
	InitialLives float64

	// Ship
	ShipRadius     float64
	ShipHeadingDeg float64
	Thrust         float64
	Friction       float64
	TurnDeg        float64 // Degrees per second
	LaserDistance  float64 // Fraction of field width
	LaserSpeed     float64 // px/s
	LaserMax       int
	ThrustScaling  object.ThrustScaling

	// Asteroids, integer ranges are [min, max)
	AsteroidRadiusMin int
	AsteroidRadiusMax int
	CompactRadiusMin  int
	CompactRadiusMax  int
	FieldCountMin     int
	FieldCountMax     int
	CompactCountMin   int
	CompactCountMax   int
	AsteroidSpeedMin  int // px/s
	AsteroidSpeedMax  int
	VertexDieMin      int
	VertexDieMax      int

	// Timers
	RespawnDelay  time.Duration // Exploding -> respawn
	ImmunityDelay time.Duration // Respawn -> vulnerable

	SpawnBuffer         float64 // Multiples of ship radius kept clear at spawn
	HitRadius           float64 // Projectile hit distance as a multiple of asteroid radius
	Repulsion           RepulsionMode
	LaserHitsEveryFrame bool
	Compact             bool // Smaller asteroids and fields for small viewports
}

// Default returns the arcade tuning.
func Default() Tuning {
	return Tuning{
		FPS:          60,
		InitialLives: 5,

		ShipRadius:     30,
		ShipHeadingDeg: 90,
		Thrust:         2,
		Friction:       0.5,
		TurnDeg:        360,
		LaserDistance:  0.5,
		LaserSpeed:     300,
		LaserMax:       25,
		ThrustScaling:  object.ThrustSqrtFPS,

		AsteroidRadiusMin: 60,
		AsteroidRadiusMax: 100,
		CompactRadiusMin:  30,
		CompactRadiusMax:  50,
		FieldCountMin:     5,
		FieldCountMax:     13,
		CompactCountMin:   2,
		CompactCountMax:   6,
		AsteroidSpeedMin:  5,
		AsteroidSpeedMax:  10,
		VertexDieMin:      2,
		VertexDieMax:      9,

		RespawnDelay:  time.Second,
		ImmunityDelay: 4 * time.Second,

		SpawnBuffer:         6,
		HitRadius:           math.Pi / 2,
		Repulsion:           RepulsionXQuirk,
		LaserHitsEveryFrame: true,
	}
}

// FromEnv overrides base with any ASTEROIDS_* variables that are set.
func FromEnv(base Tuning) Tuning {
	t := base
	t.FPS = envconfig.GetEnvFloat("ASTEROIDS_FPS", t.FPS)
	t.InitialLives = envconfig.GetEnvFloat("ASTEROIDS_LIVES", t.InitialLives)
	t.ShipRadius = envconfig.GetEnvFloat("ASTEROIDS_SHIP_RADIUS", t.ShipRadius)
	t.Thrust = envconfig.GetEnvFloat("ASTEROIDS_THRUST", t.Thrust)
	t.Friction = envconfig.GetEnvFloat("ASTEROIDS_FRICTION", t.Friction)
	t.TurnDeg = envconfig.GetEnvFloat("ASTEROIDS_TURN_DEG", t.TurnDeg)
	t.LaserDistance = envconfig.GetEnvFloat("ASTEROIDS_LASER_DISTANCE", t.LaserDistance)
	t.LaserSpeed = envconfig.GetEnvFloat("ASTEROIDS_LASER_SPEED", t.LaserSpeed)
	t.LaserMax = envconfig.GetEnvInt("ASTEROIDS_LASER_MAX", t.LaserMax)
	t.ThrustScaling = object.ThrustScaling(envconfig.GetEnv("ASTEROIDS_THRUST_SCALING", string(t.ThrustScaling)))
	t.RespawnDelay = envconfig.GetEnvDuration("ASTEROIDS_RESPAWN_DELAY", t.RespawnDelay)
	t.ImmunityDelay = envconfig.GetEnvDuration("ASTEROIDS_IMMUNITY_DELAY", t.ImmunityDelay)
	t.HitRadius = envconfig.GetEnvFloat("ASTEROIDS_HIT_RADIUS", t.HitRadius)
	t.Repulsion = RepulsionMode(envconfig.GetEnv("ASTEROIDS_REPULSION", string(t.Repulsion)))
	t.LaserHitsEveryFrame = envconfig.GetEnvBool("ASTEROIDS_LASER_HITS_EVERY_FRAME", t.LaserHitsEveryFrame)
	t.Compact = envconfig.GetEnvBool("ASTEROIDS_COMPACT", t.Compact)
	return t
}

// Validate reports the first setting that would break the simulation.
func (t Tuning) Validate() error {
	switch {
	case t.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %v", t.FPS)
	case t.InitialLives <= 0:
		return fmt.Errorf("initial lives must be positive, got %v", t.InitialLives)
	case t.ShipRadius <= 0:
		return fmt.Errorf("ship radius must be positive, got %v", t.ShipRadius)
	case t.LaserMax <= 0:
		return fmt.Errorf("laser max must be positive, got %d", t.LaserMax)
	case t.AsteroidRadiusMin <= 0 || t.AsteroidRadiusMax <= t.AsteroidRadiusMin:
		return fmt.Errorf("asteroid radius range [%d,%d) is empty or non-positive", t.AsteroidRadiusMin, t.AsteroidRadiusMax)
	case t.CompactRadiusMin <= 0 || t.CompactRadiusMax <= t.CompactRadiusMin:
		return fmt.Errorf("compact radius range [%d,%d) is empty or non-positive", t.CompactRadiusMin, t.CompactRadiusMax)
	case t.FieldCountMin <= 0 || t.FieldCountMax <= t.FieldCountMin:
		return fmt.Errorf("field count range [%d,%d) is empty or non-positive", t.FieldCountMin, t.FieldCountMax)
	case t.CompactCountMin <= 0 || t.CompactCountMax <= t.CompactCountMin:
		return fmt.Errorf("compact count range [%d,%d) is empty or non-positive", t.CompactCountMin, t.CompactCountMax)
	case t.VertexDieMin < 2:
		return fmt.Errorf("vertex die minimum must be at least 2, got %d", t.VertexDieMin)
	case t.RespawnDelay < 0 || t.ImmunityDelay < 0:
		return fmt.Errorf("timer delays must not be negative")
	}

	switch t.ThrustScaling {
	case object.ThrustSqrtFPS, object.ThrustHalfFrame, object.ThrustImpulse:
	default:
		return fmt.Errorf("unknown thrust scaling %q", t.ThrustScaling)
	}
	switch t.Repulsion {
	case RepulsionXQuirk, RepulsionGeometric:
	default:
		return fmt.Errorf("unknown repulsion mode %q", t.Repulsion)
	}
	return nil
}

// Ship returns the per-ship constants.
func (t Tuning) Ship() object.ShipSpec {
	return object.ShipSpec{
		Radius:        t.ShipRadius,
		HeadingDeg:    t.ShipHeadingDeg,
		Thrust:        t.Thrust,
		Friction:      t.Friction,
		TurnDeg:       t.TurnDeg,
		LaserDistance: t.LaserDistance,
		LaserSpeed:    t.LaserSpeed,
		LaserMax:      t.LaserMax,
		Scaling:       t.ThrustScaling,
	}
}

// Asteroid returns the asteroid shape and drift constants.
func (t Tuning) Asteroid() object.AsteroidSpec {
	return object.AsteroidSpec{
		FPS:          t.FPS,
		SpeedMin:     t.AsteroidSpeedMin,
		SpeedMax:     t.AsteroidSpeedMax,
		VertexDieMin: t.VertexDieMin,
		VertexDieMax: t.VertexDieMax,
	}
}

// RadiusRange returns the starting asteroid radius range for the field mode.
func (t Tuning) RadiusRange() (int, int) {
	if t.Compact {
		return t.CompactRadiusMin, t.CompactRadiusMax
	}
	return t.AsteroidRadiusMin, t.AsteroidRadiusMax
}

// CountRange returns the field population range for the field mode.
func (t Tuning) CountRange() (int, int) {
	if t.Compact {
		return t.CompactCountMin, t.CompactCountMax
	}
	return t.FieldCountMin, t.FieldCountMax
}

// Ticks converts a duration into whole simulation ticks, rounding to nearest.
func (t Tuning) Ticks(d time.Duration) int64 {
	return int64(math.Round(d.Seconds() * t.FPS))
}

// FrameTime is the wall-clock length of one simulation tick.
func (t Tuning) FrameTime() time.Duration {
	return time.Duration(float64(time.Second) / t.FPS)
}

// ScoreFor returns the award for destroying an asteroid of radius r.
func ScoreFor(r float64) int {
	switch {
	case r > MediumMaxRadius:
		return ScoreLargeAsteroid
	case r > SmallMaxRadius:
		return ScoreMediumAsteroid
	default:
		return ScoreSmallAsteroid
	}
}

// Splits reports whether an asteroid of radius r breaks into children.
func Splits(r float64) bool {
	return r > SmallMaxRadius
}
