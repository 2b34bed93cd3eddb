package common

import "math"

// LoopPosition splits time elapsed since a clip started into the loop index and
// the normalized position inside the clip. The position is only wrapped once it
// exceeds 1, so an exact loop boundary reports 1 rather than 0.
func LoopPosition(elapsed, length float64) (int, float64) {
	if length <= 0 {
		return 0, 0
	}
	normalized := elapsed / length
	loop := int(math.Floor(normalized))
	if normalized > 1 {
		normalized -= float64(loop)
	}
	return loop, normalized
}

// LocalTime is LoopPosition expressed in clip seconds.
func LocalTime(elapsed, length float64) float64 {
	if length <= 0 {
		return 0
	}
	normalized := elapsed / length
	if normalized > 1 {
		return elapsed - math.Floor(normalized)*length
	}
	return elapsed
}
