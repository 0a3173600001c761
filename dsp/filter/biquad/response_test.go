package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

// Reference magnitudes for cutoff 8 kHz, resonance +0.5 dB at
// nyquistPeriod = 1/22050, evaluated from the closed-form response.
var (
	refMagFreqs = []float64{100, 200, 300, 400, 500}
	refMagVals  = []float64{
		1.000068509050, 1.000274056820, 1.000616704907,
		1.001096555080, 1.001713747929,
	}
)

func TestMagnitudes_ReferenceFixture(t *testing.T) {
	f := refFilter(t, 2)

	out := make([]float64, len(refMagFreqs))
	f.Magnitudes(refMagFreqs, refNyquistPeriod, out)

	for i := range out {
		if !almostEqual(out[i], refMagVals[i], fixtureEps) {
			t.Errorf("f=%v Hz: got %.12f, want %.12f", refMagFreqs[i], out[i], refMagVals[i])
		}
	}
}

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	// Closed-form MagnitudeSquared must match |Response|^2 across the band.
	c := refLowpass()
	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		h := c.Response(freq, refNyquistPeriod)
		fromResponse := real(h)*real(h) + imag(h)*imag(h)
		fromClosed := c.MagnitudeSquared(freq, refNyquistPeriod)
		if !almostEqual(fromClosed, fromResponse, 1e-10) {
			t.Errorf("freq=%v: MagnitudeSquared=%.15f, |Response|²=%.15f",
				freq, fromClosed, fromResponse)
		}
	}
}

func TestMagnitude_PassbandAndStopband(t *testing.T) {
	// Far below cutoff at 0 dB resonance the gain is near unity; far above
	// it approaches zero.
	c := LowpassParams(8000.0, 0, refNyquistPeriod)

	low := c.Magnitude(20, refNyquistPeriod)
	if math.Abs(low-1) > 1e-3 {
		t.Errorf("passband gain at 20 Hz: got %.9f, want ~1", low)
	}

	high := c.Magnitude(21000, refNyquistPeriod)
	if high > 0.01 {
		t.Errorf("stopband gain at 21 kHz: got %.9f, want ~0", high)
	}
}

func TestMagnitudeDB_MatchesMagnitudeSquared(t *testing.T) {
	c := refLowpass()
	for _, freq := range []float64{100, 1000, 10000} {
		db := c.MagnitudeDB(freq, refNyquistPeriod)
		fromSq := 10 * math.Log10(c.MagnitudeSquared(freq, refNyquistPeriod))
		if !almostEqual(db, fromSq, eps) {
			t.Errorf("freq=%v: MagnitudeDB=%.15f, 10*log10(MagSq)=%.15f", freq, db, fromSq)
		}
	}
}

func TestPhase_MatchesResponse(t *testing.T) {
	c := refLowpass()
	for _, freq := range []float64{100, 500, 1000, 5000, 10000} {
		h := c.Response(freq, refNyquistPeriod)
		if !almostEqual(c.Phase(freq, refNyquistPeriod), cmplx.Phase(h), 1e-10) {
			t.Errorf("freq=%v: Phase=%v, arg(Response)=%v",
				freq, c.Phase(freq, refNyquistPeriod), cmplx.Phase(h))
		}
	}
}

func TestMagnitudes_DoesNotTouchState(t *testing.T) {
	f := refFilter(t, 2)
	f.SetState(0, [2]float64{0.125, -0.25})
	f.SetState(1, [2]float64{0.5, 0.75})

	out := make([]float64, len(refMagFreqs))
	f.Magnitudes(refMagFreqs, refNyquistPeriod, out)

	if f.State(0) != [2]float64{0.125, -0.25} || f.State(1) != [2]float64{0.5, 0.75} {
		t.Fatal("Magnitudes modified channel delay state")
	}
}

func TestImpulseResponse_FirstSamples(t *testing.T) {
	// h[0] = B0, h[1] = B1 - A1*B0 for any biquad.
	c := refLowpass()
	ir := c.ImpulseResponse(8)
	if !almostEqual(ir[0], c.B0, eps) {
		t.Errorf("h[0]: got %v, want %v", ir[0], c.B0)
	}
	want1 := c.B1 - c.A1*c.B0
	if !almostEqual(ir[1], want1, eps) {
		t.Errorf("h[1]: got %v, want %v", ir[1], want1)
	}

	if c.ImpulseResponse(0) != nil {
		t.Error("n=0 should return nil")
	}
}
