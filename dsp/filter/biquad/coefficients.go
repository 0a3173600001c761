package biquad

import "math"

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// LowpassParams designs low-pass coefficients via the RBJ cookbook
// transform for the given cutoff frequency in Hz and resonance in dB.
//
// nyquistPeriod is 1 / (sampleRate/2), so the normalized angular frequency
// is w0 = pi * cutoffHz * nyquistPeriod = 2*pi*cutoffHz / sampleRate.
// The resonance converts to a linear quality factor Q = 10^(resonanceDB/20);
// negative values attenuate the passband peak, positive values boost it.
//
// Pure function: identical inputs always yield identical outputs, safe to
// call from any goroutine. A cutoff at or above Nyquist is a precondition
// violation of the design formula and is not guarded here; callers clamp at
// the control boundary.
func LowpassParams(cutoffHz, resonanceDB, nyquistPeriod float64) Coefficients {
	w0 := math.Pi * cutoffHz * nyquistPeriod
	q := math.Pow(10, resonanceDB/20)

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
