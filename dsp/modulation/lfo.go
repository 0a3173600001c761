// Package modulation provides low-frequency oscillators for sweeping filter
// parameters over time.
package modulation

import (
	"fmt"
	"math"
)

// Waveform selects the shape of an oscillator's lookup table.
type Waveform uint8

const (
	Sine Waveform = iota
	Triangle
	Square
	Sawtooth
)

// String returns the waveform name for logs and CLI flags.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// ParseWaveform maps a name to its Waveform.
func ParseWaveform(name string) (Waveform, error) {
	switch name {
	case "sine":
		return Sine, nil
	case "triangle":
		return Triangle, nil
	case "square":
		return Square, nil
	case "sawtooth":
		return Sawtooth, nil
	default:
		return 0, fmt.Errorf("unknown waveform: %q", name)
	}
}

// fill writes one cycle of the waveform, amplitude [-1, 1], into dst.
func (w Waveform) fill(dst []float64) {
	n := len(dst)
	switch w {
	case Triangle:
		theta := 2 * math.Pi / float64(n)
		for i := range dst {
			dst[i] = 2 / math.Pi * math.Asin(math.Sin(theta*float64(i)))
		}
	case Square:
		half := float64(n) / 2
		for i := range dst {
			if float64(i) < half {
				dst[i] = 1
			} else {
				dst[i] = -1
			}
		}
	case Sawtooth:
		limit := float64(n) / 2
		for i := range dst {
			if float64(i) < limit {
				dst[i] = float64(i) / limit
			} else {
				dst[i] = float64(i)/limit - 2
			}
		}
	default:
		theta := 2 * math.Pi / float64(n)
		for i := range dst {
			dst[i] = math.Sin(theta * float64(i))
		}
	}
}

// LFO is a low-frequency oscillator backed by a waveform lookup table with
// linear interpolation between entries. Clones share the table and keep
// independent phase, so a bank of modulators costs one table.
//
// Tick and Reset belong to the render context; construction and Clone do
// not.
type LFO struct {
	// samples is read-only after construction and may be shared between
	// clones.
	samples []float64

	phase     float64
	increment float64
}

// NewLFO builds an oscillator over a lookup table of tableSize entries
// holding one cycle of the waveform.
func NewLFO(waveform Waveform, tableSize int) (*LFO, error) {
	if tableSize < 2 {
		return nil, fmt.Errorf("modulation: table size must be >= 2: %d", tableSize)
	}

	samples := make([]float64, tableSize)
	waveform.fill(samples)

	return &LFO{samples: samples}, nil
}

// Start sets the oscillator to emit frequency Hz when ticked at sampleRate
// samples per second. The phase is left untouched so a running sweep can
// change speed without a jump.
func (l *LFO) Start(sampleRate, frequency float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("modulation: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if frequency <= 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return fmt.Errorf("modulation: frequency must be > 0 and finite: %f", frequency)
	}

	l.increment = float64(len(l.samples)) * frequency / sampleRate

	return nil
}

// Tick returns the next sample and advances the phase.
func (l *LFO) Tick() float64 {
	size := len(l.samples)

	index1 := int(math.Floor(l.phase))
	index2 := index1 + 1
	if index2 == size {
		index2 = 0
	}

	weight := l.phase - float64(index1)
	l.phase += l.increment
	if l.phase >= float64(size) {
		l.phase -= float64(size)
	}

	return (1-weight)*l.samples[index1] + weight*l.samples[index2]
}

// Reset rewinds the phase to the start of the cycle.
func (l *LFO) Reset() {
	l.phase = 0
}

// Clone returns an oscillator sharing this one's lookup table, with its own
// phase starting at zero and the same increment.
func (l *LFO) Clone() *LFO {
	return &LFO{samples: l.samples, increment: l.increment}
}
