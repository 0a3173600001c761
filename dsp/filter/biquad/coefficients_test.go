package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

// fixture tolerance mandated for reference values.
const fixtureEps = 1e-6

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Reference design: cutoff 8 kHz, resonance +0.5 dB, sample rate 44.1 kHz
// (nyquistPeriod = 1/22050). Values from the RBJ low-pass transform with
// w0 = pi*8000/22050 and Q = 10^(0.5/20).
const refNyquistPeriod = 1.0 / 22050.0

func refLowpass() Coefficients {
	return Coefficients{
		B0: 0.203738693625,
		B1: 0.407477387250,
		B2: 0.203738693625,
		A1: -0.584757988461,
		A2: 0.399712762961,
	}
}

func TestLowpassParams_ReferenceFixture(t *testing.T) {
	got := LowpassParams(8000.0, 0.5, refNyquistPeriod)
	want := refLowpass()

	pairs := []struct {
		name      string
		got, want float64
	}{
		{"B0", got.B0, want.B0},
		{"B1", got.B1, want.B1},
		{"B2", got.B2, want.B2},
		{"A1", got.A1, want.A1},
		{"A2", got.A2, want.A2},
	}
	for _, p := range pairs {
		if !almostEqual(p.got, p.want, fixtureEps) {
			t.Errorf("%s: got %.12f, want %.12f", p.name, p.got, p.want)
		}
	}
}

func TestLowpassParams_Deterministic(t *testing.T) {
	a := LowpassParams(1234.5, -3.25, 1.0/24000.0)
	b := LowpassParams(1234.5, -3.25, 1.0/24000.0)
	if a != b {
		t.Fatalf("identical inputs yielded different coefficients: %v vs %v", a, b)
	}
}

func TestLowpassParams_Symmetry(t *testing.T) {
	// RBJ low-pass: B0 == B2 and B1 == 2*B0 for every valid design.
	for _, cutoff := range []float64{50, 400, 2000, 8000, 15000} {
		for _, res := range []float64{-12, -3, 0, 0.5, 6} {
			c := LowpassParams(cutoff, res, refNyquistPeriod)
			if !almostEqual(c.B0, c.B2, eps) {
				t.Errorf("cutoff=%v res=%v: B0=%v != B2=%v", cutoff, res, c.B0, c.B2)
			}
			if !almostEqual(c.B1, 2*c.B0, eps) {
				t.Errorf("cutoff=%v res=%v: B1=%v != 2*B0=%v", cutoff, res, c.B1, 2*c.B0)
			}
		}
	}
}

func TestLowpassParams_UnityAtDC(t *testing.T) {
	// H(1) = (B0+B1+B2)/(1+A1+A2) must be exactly unity for a low-pass.
	for _, cutoff := range []float64{100, 1000, 10000} {
		c := LowpassParams(cutoff, 0, refNyquistPeriod)
		h0 := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
		if !almostEqual(h0, 1, 1e-10) {
			t.Errorf("cutoff=%v: DC gain %.15f, want 1", cutoff, h0)
		}
	}
}

func TestNormalize_DegenerateA0(t *testing.T) {
	if got := normalize(1, 2, 3, 0, 4, 5); got != (Coefficients{}) {
		t.Fatalf("a0=0 should yield zero coefficients, got %v", got)
	}
	if got := normalize(1, 2, 3, math.NaN(), 4, 5); got != (Coefficients{}) {
		t.Fatalf("a0=NaN should yield zero coefficients, got %v", got)
	}
}
