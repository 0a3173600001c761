package engine

// ParamID identifies a tunable parameter of the kernel.
type ParamID uint32

// Parameter addresses exposed to the control surface.
const (
	ParamCutoff ParamID = iota
	ParamResonance
)

// String returns the parameter name for logs and CLI output.
func (id ParamID) String() string {
	switch id {
	case ParamCutoff:
		return "cutoff"
	case ParamResonance:
		return "resonance"
	default:
		return "unknown"
	}
}

// EventKind discriminates render events.
type EventKind uint8

const (
	// EventParameter schedules a parameter change, optionally ramped.
	EventParameter EventKind = iota

	// EventControl is any non-parameter control event (transport, MIDI
	// and the like). The kernel forwards these to its control hook,
	// which defaults to a no-op.
	EventControl
)

// Event is one control change scheduled within a render block.
//
// Offset is the sample offset within the block at which the event takes
// effect. The host delivers events in non-decreasing Offset order; events
// whose offset lies at or beyond the block length are dropped. A
// RampDuration of 0 applies Value at the start of the next sample; a
// positive duration starts a linear ramp over that many samples. When two
// events target the same parameter in one block, the later one supersedes
// whatever remains of the earlier ramp at its offset.
type Event struct {
	Kind         EventKind
	Offset       int
	Param        ParamID
	Value        float64
	RampDuration int
}
