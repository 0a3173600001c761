// Package testutil holds the deterministic signal builders and tolerance
// assertions shared by the filter test suites.
package testutil

import "math"

// DeterministicSine returns length samples of a phase-zero sine at freqHz,
// sampled at sampleRate and scaled to amplitude. Same inputs, same samples.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	w := 2 * math.Pi * freqHz / sampleRate

	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}

	return out
}

// Impulse returns a silent buffer of the given length with a single unit
// sample at pos. A pos outside the buffer yields pure silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}
