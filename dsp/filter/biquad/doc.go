// Package biquad provides the low-pass biquad runtime used by the render
// engine.
//
// [Coefficients] holds the transfer function of a single second-order
// section with a0 normalized to 1. [LowpassParams] designs the coefficients
// from a cutoff frequency and a resonance in dB using the RBJ cookbook
// low-pass transform. [Filter] applies the section to any number of audio
// channels using Direct Form II Transposed processing, and evaluates the
// magnitude response without touching the running delay state.
//
// Block processing dispatches to the best available kernel for the host CPU
// (AVX2, SSE2, NEON) with a portable generic fallback.
package biquad
