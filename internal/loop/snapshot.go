package loop

import "github.com/tomz197/asteroidfield/internal/physics"

// Snapshot is a copy of everything a view needs to draw one frame. It shares
// no memory with the session.
type Snapshot struct {
	Frame     int64          `msgpack:"f" json:"frame"`
	Width     float64        `msgpack:"w" json:"width"`
	Height    float64        `msgpack:"h" json:"height"`
	Score     int            `msgpack:"sc" json:"score"`
	Lives     int            `msgpack:"l" json:"lives"`
	State     string         `msgpack:"st" json:"state"`
	GameOver  bool           `msgpack:"go,omitempty" json:"gameOver,omitempty"`
	NewHigh   bool           `msgpack:"nh,omitempty" json:"newHigh,omitempty"`
	Ship      *ShipView      `msgpack:"s,omitempty" json:"ship,omitempty"`
	Asteroids []AsteroidView `msgpack:"a" json:"asteroids"`
}

// ShipView is the drawable part of the ship.
type ShipView struct {
	X           float64  `msgpack:"x" json:"x"`
	Y           float64  `msgpack:"y" json:"y"`
	R           float64  `msgpack:"r" json:"r"`
	Angle       float64  `msgpack:"an" json:"angle"`
	Thrusting   bool     `msgpack:"t,omitempty" json:"thrusting,omitempty"`
	Hull        [3]Point `msgpack:"hu" json:"hull"`
	Projectiles []Point  `msgpack:"p" json:"projectiles"`
}

// AsteroidView is the drawable part of an asteroid.
type AsteroidView struct {
	ID      uint64  `msgpack:"id" json:"id"`
	X       float64 `msgpack:"x" json:"x"`
	Y       float64 `msgpack:"y" json:"y"`
	R       float64 `msgpack:"r" json:"r"`
	Outline []Point `msgpack:"o" json:"outline"`
}

// Point is a field position.
type Point struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
}

func toPoint(v physics.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Snapshot captures the current frame.
func (s *Session) Snapshot() Snapshot {
	b := s.Bounds()
	snap := Snapshot{
		Frame:    s.Frame(),
		Width:    b.Width,
		Height:   b.Height,
		Score:    s.Score(),
		Lives:    s.DisplayLives(),
		State:    s.ShipState().String(),
		GameOver: s.gameOver,
		NewHigh:  s.gameOver && s.NewHighScore(),
	}

	if ship := s.ship; ship != nil && !s.gameOver {
		view := &ShipView{
			X:           ship.X,
			Y:           ship.Y,
			R:           ship.R,
			Angle:       ship.Angle,
			Thrusting:   ship.Thrusting,
			Projectiles: make([]Point, len(ship.Projectiles)),
		}
		for i, v := range ship.Hull() {
			view.Hull[i] = toPoint(v)
		}
		for i, p := range ship.Projectiles {
			view.Projectiles[i] = Point{X: p.X, Y: p.Y}
		}
		snap.Ship = view
	}

	asteroids := s.Asteroids()
	snap.Asteroids = make([]AsteroidView, len(asteroids))
	for i, a := range asteroids {
		outline := a.Outline()
		view := AsteroidView{
			ID:      a.ID,
			X:       a.X,
			Y:       a.Y,
			R:       a.R,
			Outline: make([]Point, len(outline)),
		}
		for j, v := range outline {
			view.Outline[j] = toPoint(v)
		}
		snap.Asteroids[i] = view
	}

	return snap
}
