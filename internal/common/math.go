package common

import "math"

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Clamp limits v to the closed range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// CellsPerTick returns how many whole cells an object moving at speed
// crosses in one tick. Fractional speeds round up.
func CellsPerTick(speed float64) int {
	if speed <= 0 {
		return 0
	}
	return int(math.Ceil(speed))
}
