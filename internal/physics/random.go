package physics

import "math"

// Source is the randomness the simulation draws from. *math/rand.Rand
// satisfies it; tests pass a fixed-seed generator.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// RandomInt returns an integer in [min, max). If the range is empty it returns min.
func RandomInt(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.Intn(max-min)
}

// RandomUnit returns a float in [0, 1) truncated to 4 decimal places.
// Used where a coarse random fraction is enough, like picking a sign.
func RandomUnit(src Source) float64 {
	return math.Floor(src.Float64()*1e4) / 1e4
}

// RandomSign returns +1 or -1 with equal odds.
func RandomSign(src Source) float64 {
	if RandomUnit(src) < 0.5 {
		return 1
	}
	return -1
}
