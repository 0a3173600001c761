package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) at the given
// frequency (Hz). nyquistPeriod is 1 / (sampleRate/2), so the evaluation
// point on the unit circle is theta = pi * freqHz * nyquistPeriod.
func (c Coefficients) Response(freqHz, nyquistPeriod float64) complex128 {
	w := math.Pi * freqHz * nyquistPeriod
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression that
// avoids complex exponentials.
func (c Coefficients) MagnitudeSquared(freqHz, nyquistPeriod float64) float64 {
	cw := 2 * math.Cos(math.Pi*freqHz*nyquistPeriod)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// Magnitude returns the gain magnitude |H(f)| at the given frequency.
func (c Coefficients) Magnitude(freqHz, nyquistPeriod float64) float64 {
	return math.Sqrt(c.MagnitudeSquared(freqHz, nyquistPeriod))
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freqHz, nyquistPeriod float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, nyquistPeriod))
}

// Phase returns the phase response in radians at the given frequency,
// in [-pi, pi] with the H(e^{-jw}) convention.
func (c Coefficients) Phase(freqHz, nyquistPeriod float64) float64 {
	return cmplx.Phase(c.Response(freqHz, nyquistPeriod))
}

// ImpulseResponse computes n samples of the impulse response h[n] through a
// private Direct Form II Transposed recurrence. It shares no state with any
// Filter, so it is safe to call while a render is in flight.
func (c Coefficients) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	ir := make([]float64, n)
	var d0, d1 float64
	x := 1.0
	for i := range ir {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		ir[i] = y
		x = 0
	}

	return ir
}

// Magnitudes evaluates the filter's magnitude response at every query
// frequency using the current coefficients, writing results into out
// (same length as freqs). It never reads or writes the channel delay
// state, so visualization cannot corrupt the live audio path.
//
// Calling Magnitudes concurrently with CalculateParams may observe a
// momentarily stale coefficient set. That staleness is tolerated by the
// monitoring path; no lock is taken because the render context must never
// block.
func (f *Filter) Magnitudes(freqs []float64, nyquistPeriod float64, out []float64) {
	c := f.coeffs
	for i, freq := range freqs {
		out[i] = c.Magnitude(freq, nyquistPeriod)
	}
}
