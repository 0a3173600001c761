package biquad

import (
	"math"
	"sync"

	archregistry "github.com/cwbudde/algo-lowpass/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// channelState holds the Direct Form II Transposed delay registers for one
// audio channel. State persists across render calls within a stream and is
// reset only on stream restart.
type channelState struct {
	d0, d1 float64
}

// Filter is a single low-pass biquad stage applied independently to any
// number of audio channels. All channels share one coefficient set; each
// channel keeps its own delay registers.
//
// Filter is owned by the render context. None of its methods lock, block,
// or allocate once the channel count is established.
type Filter struct {
	coeffs Coefficients
	state  []channelState

	// last design inputs, so recomputation is skipped when nothing changed
	lastCutoff    float64
	lastResonance float64
	lastNyquist   float64
}

var (
	processBlockImpl     archregistry.ProcessBlockFn
	processBlockInitOnce sync.Once
)

// NewFilter returns a Filter with zeroed state for channelCount channels.
// Coefficients start at zero; call CalculateParams before Apply.
func NewFilter(channelCount int) *Filter {
	return &Filter{
		state:         make([]channelState, channelCount),
		lastCutoff:    -1,
		lastResonance: 1e10,
	}
}

// CalculateParams recomputes the low-pass coefficients for the given cutoff
// (Hz) and resonance (dB), and resizes the per-channel state if
// channelCount changed. New channels start with zeroed delay registers;
// surviving channels keep their state so a coefficient change never causes
// an output discontinuity.
//
// Recomputation is idempotent: when cutoff, resonance, nyquistPeriod and
// channelCount all match the previous call, nothing happens.
func (f *Filter) CalculateParams(cutoffHz, resonanceDB, nyquistPeriod float64, channelCount int) {
	if cutoffHz == f.lastCutoff && resonanceDB == f.lastResonance &&
		nyquistPeriod == f.lastNyquist && channelCount == len(f.state) {
		return
	}

	f.coeffs = LowpassParams(cutoffHz, resonanceDB, nyquistPeriod)
	f.resizeState(channelCount)

	f.lastCutoff = cutoffHz
	f.lastResonance = resonanceDB
	f.lastNyquist = nyquistPeriod
}

func (f *Filter) resizeState(channelCount int) {
	if channelCount == len(f.state) {
		return
	}

	if channelCount <= cap(f.state) {
		old := len(f.state)
		f.state = f.state[:channelCount]
		for i := old; i < channelCount; i++ {
			f.state[i] = channelState{}
		}

		return
	}

	next := make([]channelState, channelCount)
	copy(next, f.state)
	f.state = next
}

// Coefficients returns the current coefficient set.
func (f *Filter) Coefficients() Coefficients {
	return f.coeffs
}

// ChannelCount returns the number of channels the filter currently serves.
func (f *Filter) ChannelCount() int {
	return len(f.state)
}

// Apply filters frameCount samples of every channel in order. ins and outs
// carry one slice per channel; ins[c] may alias outs[c] for in-place
// operation. Zero-alloc, O(frameCount x channelCount).
//
// The caller must have established the channel count via CalculateParams
// (or NewFilter); channels beyond len(f.state) are ignored.
func (f *Filter) Apply(ins, outs [][]float64, frameCount int) {
	processBlockInitOnce.Do(initProcessBlockKernel)

	coeffs := archregistry.Coefficients{
		B0: f.coeffs.B0,
		B1: f.coeffs.B1,
		B2: f.coeffs.B2,
		A1: f.coeffs.A1,
		A2: f.coeffs.A2,
	}

	channels := len(f.state)
	if len(ins) < channels {
		channels = len(ins)
	}

	if len(outs) < channels {
		channels = len(outs)
	}

	for c := 0; c < channels; c++ {
		st := &f.state[c]
		st.d0, st.d1 = processBlockImpl(coeffs, st.d0, st.d1, outs[c][:frameCount], ins[c][:frameCount])
	}
}

func initProcessBlockKernel() {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("biquad: no ProcessBlock kernel registered (missing generic fallback?)")
	}

	if entry.ProcessBlock == nil {
		panic("biquad: selected kernel missing ProcessBlock")
	}

	processBlockImpl = entry.ProcessBlock
}

// Reset clears all channel delay registers. Intended for stream restart
// (format change); never call mid-stream, the discontinuity is audible.
func (f *Filter) Reset() {
	for i := range f.state {
		f.state[i] = channelState{}
	}
}

// ScrubState replaces non-finite or denormal delay register values with
// zero. The render engine calls this once per render cycle so a pathological
// coefficient set cannot leave NaNs ringing in the delay line.
func (f *Filter) ScrubState() {
	for i := range f.state {
		f.state[i].d0 = scrubValue(f.state[i].d0)
		f.state[i].d1 = scrubValue(f.state[i].d1)
	}
}

func scrubValue(x float64) float64 {
	const (
		minValue = 1e-15
		maxValue = 1e15
	)

	abs := math.Abs(x)
	if abs >= minValue && abs <= maxValue {
		return x
	}

	return 0
}

// State returns the delay registers [d0, d1] for channel c.
func (f *Filter) State(c int) [2]float64 {
	return [2]float64{f.state[c].d0, f.state[c].d1}
}

// SetState restores previously saved delay registers for channel c.
func (f *Filter) SetState(c int, state [2]float64) {
	f.state[c].d0 = state[0]
	f.state[c].d1 = state[1]
}
