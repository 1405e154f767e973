package object

import (
	"math"
	"math/rand"
	"testing"
)

func testAsteroidSpec() AsteroidSpec {
	return AsteroidSpec{
		FPS:          testFPS,
		SpeedMin:     5,
		SpeedMax:     10,
		VertexDieMin: 2,
		VertexDieMax: 9,
	}
}

func TestNewAsteroidShape(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := NewAsteroid(uint64(i), 100, 200, 80, testAsteroidSpec(), src)

		if n := a.Vertices(); n < 4 || n > 16 {
			t.Fatalf("vertices = %d, want 4..16", n)
		}
		if a.Jaggedness < 0 || a.Jaggedness >= 1 {
			t.Fatalf("jaggedness = %f, want [0,1)", a.Jaggedness)
		}
		for _, off := range a.Offsets() {
			if off < 1-a.Jaggedness || off > 1+a.Jaggedness {
				t.Fatalf("offset %f outside [%f,%f]", off, 1-a.Jaggedness, 1+a.Jaggedness)
			}
		}
		if a.Angle < 0 || a.Angle >= 2*math.Pi {
			t.Fatalf("angle = %f, want [0,2pi)", a.Angle)
		}
	}
}

func TestNewAsteroidDriftSpeed(t *testing.T) {
	src := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		a := NewAsteroid(uint64(i), 0, 0, 50, testAsteroidSpec(), src)
		for _, v := range []float64{a.VX, a.VY} {
			perSecond := math.Abs(v) * testFPS
			if perSecond < 5-1e-9 || perSecond > 9+1e-9 {
				t.Fatalf("drift %f px/s outside [5,9]", perSecond)
			}
		}
	}
}

func TestNewAsteroidPanicsOnBadRadius(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive radius")
		}
	}()
	NewAsteroid(1, 0, 0, -5, testAsteroidSpec(), rand.New(rand.NewSource(1)))
}

func TestAsteroidOffsetsIsCopy(t *testing.T) {
	a := NewAsteroid(1, 0, 0, 50, testAsteroidSpec(), rand.New(rand.NewSource(3)))
	offs := a.Offsets()
	offs[0] = 99
	if a.Offsets()[0] == 99 {
		t.Fatal("Offsets exposed internal state")
	}
}

func TestAsteroidOutline(t *testing.T) {
	a := &Asteroid{X: 10, Y: 20, R: 5, offsets: []float64{1, 1, 1, 1}}
	pts := a.Outline()
	if len(pts) != 4 {
		t.Fatalf("outline points = %d, want 4", len(pts))
	}
	if math.Abs(pts[0].X-15) > 1e-9 || math.Abs(pts[0].Y-20) > 1e-9 {
		t.Errorf("first vertex = %+v, want (15,20)", pts[0])
	}
	if math.Abs(pts[1].X-10) > 1e-9 || math.Abs(pts[1].Y-25) > 1e-9 {
		t.Errorf("second vertex = %+v, want (10,25)", pts[1])
	}
}

func TestAsteroidMoveAndNudge(t *testing.T) {
	a := &Asteroid{X: 0, Y: 0, R: 10, VX: 1, VY: -2}
	a.Move()
	if a.X != 1 || a.Y != -2 {
		t.Fatalf("position = (%f,%f), want (1,-2)", a.X, a.Y)
	}

	a.Angle = 0
	a.Nudge(testFPS)
	if math.Abs(a.VX-1.0/30) > 1e-12 {
		t.Errorf("VX = %f, want %f", a.VX, 1.0/30)
	}
	if math.Abs(a.VY-(-2.0/30+1)) > 1e-12 {
		t.Errorf("VY = %f, want %f", a.VY, -2.0/30+1)
	}
}
