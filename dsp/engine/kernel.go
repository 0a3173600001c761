package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-lowpass/dsp/filter/biquad"
	"github.com/cwbudde/algo-lowpass/dsp/param"
)

// Defaults applied at construction, before the host announces a format.
const (
	DefaultSampleRate   = 44100.0
	DefaultChannelCount = 2
	DefaultMaxFrames    = 512

	// DefaultCutoffHz and DefaultResonanceDB are the initial parameter
	// values of the filter stage.
	DefaultCutoffHz    = 400.0
	DefaultResonanceDB = 20.0

	// defaultRampSeconds is the ramp length used when the control surface
	// changes a parameter without an explicit ramp duration.
	defaultRampSeconds = 0.02
)

// Fatal render-path contract violations. These indicate a programming error
// in the host, not a recoverable runtime condition.
var (
	ErrNotConfigured      = errors.New("engine: render before Configure")
	ErrChannelMismatch    = errors.New("engine: channel count does not match configured format")
	ErrFrameCountExceeded = errors.New("engine: frame count exceeds configured maximum")
	ErrShortBuffer        = errors.New("engine: channel buffer shorter than frame count")
)

// Kernel is the render-context state machine: one biquad filter stage plus
// the ramped cutoff and resonance parameters.
//
// All Kernel methods except construction and Controls belong to the render
// context. The host must call Configure before the first Render and again
// whenever the sample rate or channel count changes; rendering with a stale
// format is a fatal caller error.
type Kernel struct {
	filter    *biquad.Filter
	cutoff    *param.Ramper
	resonance *param.Ramper

	sampleRate    float64
	nyquistPeriod float64
	channelCount  int
	maxFrames     int

	rampDuration int
	rampOverride int

	bypassed   bool
	configured bool

	controlHook func(Event)

	// reusable sub-range views, sized at Configure so Render never allocates
	insView  [][]float64
	outsView [][]float64
}

type kernelConfig struct {
	cutoffHz     float64
	resonanceDB  float64
	rampOverride int
	controlHook  func(Event)
}

// Option overrides a kernel construction default.
type Option func(*kernelConfig) error

// WithCutoff sets the initial cutoff frequency in Hz.
func WithCutoff(hz float64) Option {
	return func(cfg *kernelConfig) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("cutoff must be > 0 and finite: %f", hz)
		}
		cfg.cutoffHz = hz
		return nil
	}
}

// WithResonance sets the initial resonance in dB.
func WithResonance(db float64) Option {
	return func(cfg *kernelConfig) error {
		if math.IsNaN(db) || math.IsInf(db, 0) {
			return fmt.Errorf("resonance must be finite: %f", db)
		}
		cfg.resonanceDB = db
		return nil
	}
}

// WithRampDuration fixes the ramp length, in samples, used for control
// surface changes. Without this option the kernel derives it from the
// sample rate at Configure time (20 ms).
func WithRampDuration(samples int) Option {
	return func(cfg *kernelConfig) error {
		if samples <= 0 {
			return fmt.Errorf("ramp duration must be > 0: %d", samples)
		}
		cfg.rampOverride = samples
		return nil
	}
}

// WithControlEventHook installs a handler for non-parameter control events.
// The hook runs on the render thread and must obey its rules: no locks, no
// allocation, no blocking.
func WithControlEventHook(hook func(Event)) Option {
	return func(cfg *kernelConfig) error {
		if hook == nil {
			return errors.New("control event hook must not be nil")
		}
		cfg.controlHook = hook
		return nil
	}
}

// NewKernel creates a kernel with default format placeholders. The host
// still must call Configure before rendering; the placeholders only make
// response queries meaningful before the first format announcement.
func NewKernel(opts ...Option) (*Kernel, error) {
	cfg := kernelConfig{
		cutoffHz:    DefaultCutoffHz,
		resonanceDB: DefaultResonanceDB,
		controlHook: func(Event) {},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	k := &Kernel{
		filter:        biquad.NewFilter(DefaultChannelCount),
		cutoff:        param.NewRamper(cfg.cutoffHz),
		resonance:     param.NewRamper(cfg.resonanceDB),
		sampleRate:    DefaultSampleRate,
		nyquistPeriod: 1 / (0.5 * DefaultSampleRate),
		channelCount:  DefaultChannelCount,
		rampOverride:  cfg.rampOverride,
		controlHook:   cfg.controlHook,
	}
	k.filter.CalculateParams(cfg.cutoffHz, cfg.resonanceDB, k.nyquistPeriod, DefaultChannelCount)

	return k, nil
}

// Configure announces the stream format. It must be called before the first
// Render and again whenever the sample rate or channel count changes. The
// filter delay state is reset (stream restart) and any in-flight ramp snaps
// to its pending value.
func (k *Kernel) Configure(sampleRate float64, channelCount, maxFrames int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("engine: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if channelCount <= 0 {
		return fmt.Errorf("engine: channel count must be > 0: %d", channelCount)
	}
	if maxFrames <= 0 {
		return fmt.Errorf("engine: max frames must be > 0: %d", maxFrames)
	}

	k.sampleRate = sampleRate
	k.nyquistPeriod = 1 / (0.5 * sampleRate)
	k.channelCount = channelCount
	k.maxFrames = maxFrames

	if k.rampOverride > 0 {
		k.rampDuration = k.rampOverride
	} else {
		k.rampDuration = int(defaultRampSeconds * sampleRate)
	}

	k.cutoff.Reset()
	k.resonance.Reset()

	k.filter.CalculateParams(k.cutoff.Immediate(), k.resonance.Immediate(), k.nyquistPeriod, channelCount)
	k.filter.Reset()

	k.insView = make([][]float64, channelCount)
	k.outsView = make([][]float64, channelCount)

	k.configured = true

	return nil
}

// SetBypass enables or disables bypass. While bypassed, Render copies input
// to output verbatim but still advances in-flight ramps so parameter state
// stays consistent when bypass is lifted. Render context only.
func (k *Kernel) SetBypass(bypass bool) {
	k.bypassed = bypass
}

// Bypassed reports the current bypass state.
func (k *Kernel) Bypassed() bool {
	return k.bypassed
}

// SampleRate returns the configured sample rate.
func (k *Kernel) SampleRate() float64 { return k.sampleRate }

// NyquistPeriod returns 1 / (sampleRate/2) for the configured format.
func (k *Kernel) NyquistPeriod() float64 { return k.nyquistPeriod }

// ChannelCount returns the configured channel count.
func (k *Kernel) ChannelCount() int { return k.channelCount }

// Controls returns the non-real-time control surface of this kernel.
func (k *Kernel) Controls() *Controls {
	return &Controls{kernel: k}
}

// Render processes one audio block: frameCount samples of every channel in
// ins filtered into outs, with the events applied at their exact sample
// offsets. ins[c] may alias outs[c] for in-place operation.
//
// Events must be ordered by non-decreasing Offset. The block is partitioned
// into sub-ranges at event offsets; at each boundary the due events update
// the parameter rampers, the coefficients are recomputed once from the
// parameters' post-ramp values, and the sub-range is rendered. Using the
// final value for a whole sub-range trades some ramp smoothness for a
// single coefficient recomputation per boundary; keep it that way, the
// audible behavior depends on it.
//
// Render never blocks, locks, or allocates.
func (k *Kernel) Render(ins, outs [][]float64, frameCount int, events []Event) error {
	if !k.configured {
		return ErrNotConfigured
	}
	if len(ins) != k.channelCount || len(outs) != k.channelCount {
		return ErrChannelMismatch
	}
	if frameCount > k.maxFrames {
		return ErrFrameCountExceeded
	}
	for c := 0; c < k.channelCount; c++ {
		if len(ins[c]) < frameCount || len(outs[c]) < frameCount {
			return ErrShortBuffer
		}
	}

	now := 0
	remaining := frameCount
	idx := 0

	for remaining > 0 {
		if idx == len(events) {
			k.renderSubRange(ins, outs, now, remaining)
			break
		}

		next := events[idx].Offset
		if next > frameCount {
			next = frameCount
		}

		if seg := next - now; seg > 0 {
			k.renderSubRange(ins, outs, now, seg)
			now += seg
			remaining -= seg
		}

		for idx < len(events) && events[idx].Offset <= now {
			k.handleEvent(events[idx])
			idx++
		}
	}

	k.filter.ScrubState()

	return nil
}

// renderSubRange renders frames [off, off+n) with the current parameter
// state, then advances any active ramps by n samples.
func (k *Kernel) renderSubRange(ins, outs [][]float64, off, n int) {
	// Pull pending control-surface values. The rampers gate on their
	// change counter, so this is a no-op unless a new value arrived.
	k.cutoff.StartRamp(k.rampDuration)
	k.resonance.StartRamp(k.rampDuration)

	if k.bypassed {
		for c := 0; c < k.channelCount; c++ {
			in := ins[c][off : off+n]
			out := outs[c][off : off+n]
			if len(in) > 0 && &in[0] == &out[0] {
				continue
			}
			copy(out, in)
		}
	} else {
		k.filter.CalculateParams(k.cutoff.Target(), k.resonance.Target(), k.nyquistPeriod, k.channelCount)

		for c := 0; c < k.channelCount; c++ {
			k.insView[c] = ins[c][off : off+n]
			k.outsView[c] = outs[c][off : off+n]
		}
		k.filter.Apply(k.insView, k.outsView, n)
	}

	k.cutoff.TickBy(n)
	k.resonance.TickBy(n)
}

func (k *Kernel) handleEvent(ev Event) {
	if ev.Kind != EventParameter {
		k.controlHook(ev)
		return
	}

	switch ev.Param {
	case ParamCutoff:
		k.cutoff.SetImmediate(ev.Value, ev.RampDuration)
	case ParamResonance:
		k.resonance.SetImmediate(ev.Value, ev.RampDuration)
	default:
		// unknown parameter: ignore, never fault on the render path
	}
}
