package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-lowpass/dsp/filter/biquad"
)

// Controls is the external-facing parameter API: the surface a UI or
// automation layer talks to. Safe to use from any goroutine at any time;
// nothing here blocks or disturbs the render context.
type Controls struct {
	kernel *Kernel
}

// Set writes the desired value for a parameter. The render thread picks it
// up on its next cycle and ramps toward it. Unknown identifiers are a
// no-op.
func (c *Controls) Set(id ParamID, value float64) {
	switch id {
	case ParamCutoff:
		c.kernel.cutoff.SetPending(value)
	case ParamResonance:
		c.kernel.resonance.SetPending(value)
	}
}

// Get returns the last requested value for a parameter: the value a UI
// should display, not necessarily what is audible while a ramp is in
// flight. Unknown identifiers return 0.
func (c *Controls) Get(id ParamID) float64 {
	switch id {
	case ParamCutoff:
		return c.kernel.cutoff.Pending()
	case ParamResonance:
		return c.kernel.resonance.Pending()
	default:
		return 0
	}
}

// CutoffDisplay returns the cutoff rounded to two decimals for readouts.
func (c *Controls) CutoffDisplay() float64 {
	return math.Round(c.kernel.cutoff.Pending()*100) / 100
}

// QueryMagnitudes evaluates the filter's gain magnitude at each query
// frequency and returns a freshly allocated result slice.
//
// The evaluation designs a coefficient-only copy from the committed
// parameter values, so it shares no delay state with the render path and
// never competes with the audio callback. Values may trail an in-flight
// ramp by up to one render cycle, which a response display tolerates.
func (c *Controls) QueryMagnitudes(freqs []float64) []float64 {
	coeffs := biquad.LowpassParams(
		c.kernel.cutoff.Pending(),
		c.kernel.resonance.Pending(),
		c.kernel.nyquistPeriod,
	)

	out := make([]float64, len(freqs))
	for i, freq := range freqs {
		out[i] = coeffs.Magnitude(freq, c.kernel.nyquistPeriod)
	}

	return out
}

// ResponseFrequencies returns count logarithmically spaced query
// frequencies spanning [lowHz, highHz], the usual grid for drawing a
// response curve. count must be at least 2.
func ResponseFrequencies(count int, lowHz, highHz float64) []float64 {
	if count < 2 {
		return nil
	}

	return floats.LogSpan(make([]float64, count), lowHz, highHz)
}
