package physics

import (
	"math"
	"math/rand"
	"testing"
)

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 3, 4); got != 5 {
		t.Fatalf("Distance = %f, want 5", got)
	}
	if got := Distance(2, 2, 2, 2); got != 0 {
		t.Fatalf("Distance same point = %f, want 0", got)
	}
}

func TestCirclesOverlap(t *testing.T) {
	if !CirclesOverlap(0, 0, 10, 15, 0, 10) {
		t.Error("circles should overlap")
	}
	if CirclesOverlap(0, 0, 10, 20, 0, 10) {
		t.Error("touching circles should not count as overlapping")
	}
	if CirclesOverlap(0, 0, 10, 25, 0, 10) {
		t.Error("circles should not overlap")
	}
}

func TestSurfaceGapRoundsUp(t *testing.T) {
	// centers 25 apart, radii sum 20 -> gap 5
	if got := SurfaceGap(0, 0, 10, 25, 0, 10); got != 5 {
		t.Errorf("SurfaceGap = %f, want 5", got)
	}
	// overlap of 0.5 rounds up to zero ("touching")
	if got := SurfaceGap(0, 0, 10, 19.5, 0, 10); got != 0 {
		t.Errorf("SurfaceGap = %f, want 0", got)
	}
	// 4.2 apart surfaces rounds up to 5
	if got := SurfaceGap(0, 0, 10, 24.2, 0, 10); got != 5 {
		t.Errorf("SurfaceGap = %f, want 5", got)
	}
	if got := SurfaceGap(0, 0, 10, 5, 0, 10); got != -15 {
		t.Errorf("SurfaceGap = %f, want -15", got)
	}
}

func TestToRadians(t *testing.T) {
	if got := ToRadians(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("ToRadians(180) = %f, want pi", got)
	}
	if got := ToRadians(90); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("ToRadians(90) = %f, want pi/2", got)
	}
}

func TestHeadingPointsUpAtNinetyDegrees(t *testing.T) {
	h := Heading(ToRadians(90))
	if math.Abs(h.X) > 1e-12 || math.Abs(h.Y+1) > 1e-12 {
		t.Errorf("Heading(90deg) = %+v, want (0,-1)", h)
	}
}

func TestRandomIntRange(t *testing.T) {
	src := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := RandomInt(src, 5, 13)
		if v < 5 || v >= 13 {
			t.Fatalf("RandomInt out of range: %d", v)
		}
	}
	if got := RandomInt(src, 7, 7); got != 7 {
		t.Errorf("RandomInt empty range = %d, want 7", got)
	}
}

func TestRandomUnitPrecision(t *testing.T) {
	src := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		v := RandomUnit(src)
		if v < 0 || v >= 1 {
			t.Fatalf("RandomUnit out of range: %f", v)
		}
		scaled := v * 1e4
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Fatalf("RandomUnit has more than 4 decimals: %v", v)
		}
	}
}
