// Package testutil provides shared assertion helpers for the queue-sim test
// packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertWithinReference checks |got-want|/want <= relTol. Reference values
// below absFloor are checked against absFloor instead, since a relative error
// on a quantity that small is dominated by sampling noise.
func AssertWithinReference(t *testing.T, name string, want, got, relTol, absFloor float64) {
	t.Helper()
	diff := math.Abs(got - want)
	if math.Abs(want) < absFloor {
		if diff > absFloor {
			t.Errorf("%s: got %v, want %v (absDiff=%v > %v)", name, got, want, diff, absFloor)
		}
		return
	}
	if rel := diff / math.Abs(want); rel > relTol {
		t.Errorf("%s: got %v, want %v (relErr=%.4f > %.4f)", name, got, want, rel, relTol)
	}
}
