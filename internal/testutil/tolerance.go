package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and every element pair lies within eps (absolute). On failure it reports
// the worst offender, which for filter output usually points at the sample
// where the recurrences diverged.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	worst := -1
	worstDiff := 0.0
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > worstDiff {
			worst = i
			worstDiff = diff
		}
	}

	if worstDiff > eps {
		t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)",
			worst, got[worst], want[worst], worstDiff, eps)
	}
}

// RequireFinite fails t if any element is NaN or infinite.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
