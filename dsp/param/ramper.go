// Package param provides the dual-view tunable parameter shared between the
// control context and the render context.
//
// A [Ramper] exposes two values: a pending value written by any control
// thread, and an immediate value owned exclusively by the render thread.
// The render thread pulls the pending value at render-cycle boundaries and
// interpolates the immediate value toward it over a fixed number of
// samples, so parameter changes never produce audible steps.
//
// The pending slot is the only cross-context shared state. It is a plain
// atomic word with last-write-wins consistency; no mutex exists anywhere on
// the render path.
package param

import (
	"math"
	"sync/atomic"
)

// Ramper is a single tunable value with sample-accurate linear ramping.
//
// Concurrency contract: SetPending and Pending are safe from any goroutine.
// Every other method belongs to the render context and must never be called
// concurrently with itself.
type Ramper struct {
	// cross-context slots, written by the control context
	pendingBits   atomic.Uint64
	changeCounter atomic.Int32

	// render-context state, no sharing
	immediate     float64
	target        float64
	rampRemaining int
	rampIncrement float64
	lastCounter   int32
}

// NewRamper returns a Ramper whose pending and immediate values both start
// at value, with no ramp in progress. Rampers are created once per
// parameter at kernel construction and live for the whole session.
func NewRamper(value float64) *Ramper {
	r := &Ramper{}
	r.pendingBits.Store(math.Float64bits(value))
	r.immediate = value
	r.target = value
	return r
}

// SetPending records the desired target value. It never blocks and does not
// affect the immediate value; the render thread picks it up on its next
// cycle. The render context may observe the previous value for one cycle,
// which is acceptable for perceptually continuous audio parameters.
func (r *Ramper) SetPending(value float64) {
	r.pendingBits.Store(math.Float64bits(value))
	r.changeCounter.Add(1)
}

// Pending returns the last requested value. This is the value a UI should
// display: it is not necessarily what is audible while a ramp is in flight.
func (r *Ramper) Pending() float64 {
	return math.Float64frombits(r.pendingBits.Load())
}

// Immediate returns the value the render thread is currently using.
// Render context only.
func (r *Ramper) Immediate() float64 {
	return r.immediate
}

// Target returns the value an active ramp is heading toward, or the
// immediate value when no ramp is in progress. Render context only.
func (r *Ramper) Target() float64 {
	return r.target
}

// SetImmediate moves the immediate value to value. With rampSamples 0 the
// value snaps at the start of the next sample; otherwise it ramps linearly
// over exactly rampSamples ticks. A new call supersedes whatever remains of
// a previous ramp. Render context only.
func (r *Ramper) SetImmediate(value float64, rampSamples int) {
	if rampSamples <= 0 {
		r.immediate = value
		r.target = value
		r.rampRemaining = 0
		r.rampIncrement = 0
		return
	}

	r.target = value
	r.rampIncrement = (value - r.immediate) / float64(rampSamples)
	r.rampRemaining = rampSamples
}

// StartRamp begins ramping toward the pending value over rampSamples, but
// only if SetPending was called since the last StartRamp. Returns true
// while a ramp is in progress. Render context only; typically called once
// per render cycle.
func (r *Ramper) StartRamp(rampSamples int) bool {
	counter := r.changeCounter.Load()
	if counter != r.lastCounter {
		r.lastCounter = counter
		r.SetImmediate(r.Pending(), rampSamples)
	}

	return r.rampRemaining != 0
}

// IsRamping reports whether a ramp is in progress. Render context only.
func (r *Ramper) IsRamping() bool {
	return r.rampRemaining != 0
}

// Tick advances the immediate value by one sample. The final tick pins the
// immediate value exactly to the ramp target, so no floating-point drift
// survives a completed ramp. Render context only.
func (r *Ramper) Tick() {
	if r.rampRemaining == 0 {
		return
	}

	r.rampRemaining--
	if r.rampRemaining == 0 {
		r.immediate = r.target
		r.rampIncrement = 0
		return
	}

	r.immediate += r.rampIncrement
}

// TickBy advances an active ramp by frameCount samples, as if Tick had been
// called that many times. Used by the render loop after processing a
// sub-range, and by bypass so in-flight ramps stay consistent while the
// filter is skipped. Render context only.
func (r *Ramper) TickBy(frameCount int) {
	if r.rampRemaining == 0 || frameCount <= 0 {
		return
	}

	if frameCount >= r.rampRemaining {
		r.immediate = r.target
		r.rampRemaining = 0
		r.rampIncrement = 0
		return
	}

	r.rampRemaining -= frameCount
	r.immediate += r.rampIncrement * float64(frameCount)
}

// Reset snaps the immediate value to the pending value and cancels any ramp.
// Called on stream (re)start, before any rendering. Render context only.
func (r *Ramper) Reset() {
	r.SetImmediate(r.Pending(), 0)
	r.lastCounter = r.changeCounter.Load()
}
