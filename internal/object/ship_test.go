package object

import (
	"math"
	"testing"
)

const testFPS = 60.0

func testShipSpec() ShipSpec {
	return ShipSpec{
		Radius:        30,
		HeadingDeg:    90,
		Thrust:        2,
		Friction:      0.5,
		TurnDeg:       360,
		LaserDistance: 0.5,
		LaserSpeed:    300,
		LaserMax:      25,
		Scaling:       ThrustSqrtFPS,
	}
}

func TestNewShipDefaults(t *testing.T) {
	s := NewShip(500, 400, testShipSpec())
	if s.VX != 0 || s.VY != 0 {
		t.Errorf("new ship velocity = (%f,%f), want zero", s.VX, s.VY)
	}
	if !s.LaserEnabled {
		t.Error("new ship should have lasers enabled")
	}
	if math.Abs(s.Angle-math.Pi/2) > 1e-12 {
		t.Errorf("heading = %f, want pi/2", s.Angle)
	}
	nose := s.Nose()
	if math.Abs(nose.X-500) > 1e-9 || math.Abs(nose.Y-360) > 1e-9 {
		t.Errorf("nose = %+v, want (500,360)", nose)
	}
}

func TestNewShipPanicsOnBadRadius(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero radius")
		}
	}()
	spec := testShipSpec()
	spec.Radius = 0
	NewShip(0, 0, spec)
}

func TestShipFrictionDecaysSpeed(t *testing.T) {
	b := NewBounds(1000, 1000)
	s := NewShip(500, 500, testShipSpec())
	s.VX, s.VY = 3, -4

	prev := s.Speed()
	for i := 0; i < 600; i++ {
		s.Advance(b, testFPS)
		got := s.Speed()
		if got >= prev {
			t.Fatalf("frame %d: speed %f did not decrease from %f", i, got, prev)
		}
		if got <= 0 {
			t.Fatalf("frame %d: speed reached zero", i)
		}
		prev = got
	}
}

func TestShipThrustScaling(t *testing.T) {
	b := NewBounds(1000, 1000)
	cases := []struct {
		scaling ThrustScaling
		want    float64
	}{
		{ThrustSqrtFPS, 2 / math.Sqrt(testFPS)},
		{ThrustHalfFrame, 2 / testFPS / 2},
		{ThrustImpulse, 2},
	}
	for _, tc := range cases {
		spec := testShipSpec()
		spec.Scaling = tc.scaling
		s := NewShip(500, 500, spec)
		s.Thrusting = true
		s.Advance(b, testFPS)

		// heading 90deg pushes straight up (negative y)
		if math.Abs(s.VX) > 1e-12 {
			t.Errorf("%s: VX = %g, want 0", tc.scaling, s.VX)
		}
		if math.Abs(s.VY+tc.want) > 1e-12 {
			t.Errorf("%s: VY = %g, want %g", tc.scaling, s.VY, -tc.want)
		}
		if math.Abs(s.Y-(500-tc.want)) > 1e-9 {
			t.Errorf("%s: Y = %g, want %g", tc.scaling, s.Y, 500-tc.want)
		}
	}
}

func TestShipRotationAppliedPerFrame(t *testing.T) {
	b := NewBounds(1000, 1000)
	s := NewShip(500, 500, testShipSpec())
	start := s.Angle
	s.Rot = s.TurnRate(testFPS)
	s.Advance(b, testFPS)

	want := start + 2*math.Pi/testFPS
	if math.Abs(s.Angle-want) > 1e-12 {
		t.Errorf("angle = %f, want %f", s.Angle, want)
	}
}

func TestShipWrapsAcrossEdges(t *testing.T) {
	b := NewBounds(1000, 800)
	s := NewShip(1029, 400, testShipSpec())
	s.VX = 2
	s.Advance(b, testFPS)

	if s.X != -30 {
		t.Errorf("X after wrap = %f, want -30", s.X)
	}
}

func TestFireAppendsFromNose(t *testing.T) {
	s := NewShip(500, 500, testShipSpec())
	if !s.Fire(testFPS) {
		t.Fatal("Fire returned false")
	}
	if len(s.Projectiles) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(s.Projectiles))
	}
	p := s.Projectiles[0]
	nose := s.Nose()
	if p.X != nose.X || p.Y != nose.Y {
		t.Errorf("projectile at (%f,%f), want nose (%f,%f)", p.X, p.Y, nose.X, nose.Y)
	}
	if math.Abs(p.VY+5) > 1e-9 || math.Abs(p.VX) > 1e-9 {
		t.Errorf("projectile velocity = (%f,%f), want (0,-5)", p.VX, p.VY)
	}
}

func TestFireDisabledDoesNothing(t *testing.T) {
	s := NewShip(500, 500, testShipSpec())
	s.LaserEnabled = false
	if s.Fire(testFPS) {
		t.Error("Fire should report false while lasers are disabled")
	}
	if len(s.Projectiles) != 0 {
		t.Errorf("projectiles = %d, want 0", len(s.Projectiles))
	}
}

func TestFireOverflowVolleyClearsMagazine(t *testing.T) {
	s := NewShip(500, 500, testShipSpec())
	for i := 0; i < 24; i++ {
		s.Fire(testFPS)
	}
	if len(s.Projectiles) != 24 {
		t.Fatalf("projectiles after 24 shots = %d, want 24", len(s.Projectiles))
	}

	if !s.Fire(testFPS) {
		t.Fatal("25th shot should fire")
	}
	if len(s.Projectiles) != 0 {
		t.Fatalf("projectiles after overflow = %d, want 0", len(s.Projectiles))
	}

	s.Fire(testFPS)
	if len(s.Projectiles) != 1 {
		t.Fatalf("magazine should restart after overflow, got %d", len(s.Projectiles))
	}
}

func TestProjectileExpiresPastLaserDistance(t *testing.T) {
	b := NewBounds(1000, 1000)
	spec := testShipSpec()
	spec.HeadingDeg = 0
	s := NewShip(100, 500, spec)
	s.Fire(testFPS)

	// 5 px per frame, limit 0.5 * 1000 = 500 px
	for i := 1; i <= 100; i++ {
		s.Advance(b, testFPS)
		if len(s.Projectiles) != 1 {
			t.Fatalf("projectile removed early at frame %d (traveled <= 500)", i)
		}
	}
	if got := s.Projectiles[0].Traveled; got != 500 {
		t.Fatalf("traveled = %f, want 500", got)
	}

	s.Advance(b, testFPS)
	if len(s.Projectiles) != 0 {
		t.Fatal("projectile should be removed once traveled exceeds 500")
	}
}

func TestProjectileRemovedWhenLeavingField(t *testing.T) {
	b := NewBounds(1000, 1000)
	spec := testShipSpec()
	spec.HeadingDeg = 0
	s := NewShip(940, 500, spec)
	s.Fire(testFPS) // nose at x=980

	for i := 0; i < 4; i++ {
		s.Advance(b, testFPS)
	}
	if len(s.Projectiles) != 1 {
		t.Fatalf("projectile at x=1000 should still be inside, got %d", len(s.Projectiles))
	}
	s.Advance(b, testFPS)
	if len(s.Projectiles) != 0 {
		t.Fatal("projectile should be removed after leaving the field")
	}
}

func TestRemoveProjectilesKeepsOrder(t *testing.T) {
	s := NewShip(500, 500, testShipSpec())
	s.Projectiles = []Projectile{{X: 1}, {X: 2}, {X: 3}, {X: 4}}
	s.RemoveProjectiles([]bool{false, true, false, true, true})

	if len(s.Projectiles) != 2 || s.Projectiles[0].X != 1 || s.Projectiles[1].X != 3 {
		t.Fatalf("projectiles = %+v, want X=1,3", s.Projectiles)
	}
}
