package sim

import (
	"math"
	"math/rand"
)

// SampleInterval draws an exponentially distributed interval with the given rate.
// A non-positive rate models an event that never fires and yields +Inf, so it
// never wins a next-event comparison.
func SampleInterval(rng *rand.Rand, rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	// Float64 is in [0, 1); ln(0) is excluded by resampling.
	u := rng.Float64()
	for u <= 0 {
		u = rng.Float64()
	}
	return -math.Log(u) / rate
}
