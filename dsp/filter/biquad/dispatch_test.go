package biquad

import (
	"sync"
	"testing"

	archregistry "github.com/cwbudde/algo-lowpass/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func resetProcessBlockDispatchForTest() {
	processBlockImpl = nil
	processBlockInitOnce = sync.Once{}
}

// Whatever kernel the host CPU selects must produce the same output and
// final state as the portable scalar recurrence.
func TestDispatchedKernel_MatchesScalarReference(t *testing.T) {
	resetProcessBlockDispatchForTest()
	t.Cleanup(resetProcessBlockDispatchForTest)

	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		t.Fatal("no kernel registered for host CPU")
	}
	t.Logf("dispatched kernel: %s", entry.Name)

	c := archregistry.Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	src := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, -0.1, 0.05, 0.6}

	got := make([]float64, len(src))
	d0g, d1g := entry.ProcessBlock(c, 0.1, -0.05, got, src)

	want := make([]float64, len(src))
	d0w, d1w := 0.1, -0.05
	for i, x := range src {
		y := c.B0*x + d0w
		d0w = c.B1*x - c.A1*y + d1w
		d1w = c.B2*x - c.A2*y
		want[i] = y
	}

	if !almostEqual(d0g, d0w, eps) || !almostEqual(d1g, d1w, eps) {
		t.Fatalf("state mismatch: got (%g,%g), want (%g,%g)", d0g, d1g, d0w, d1w)
	}
	for i := range got {
		if !almostEqual(got[i], want[i], eps) {
			t.Errorf("sample %d: got %.15f, want %.15f", i, got[i], want[i])
		}
	}
}

// The generic fallback must always be available, regardless of arch.
func TestGenericFallbackRegistered(t *testing.T) {
	entry := archregistry.Global.Lookup(cpu.Features{ForceGeneric: true})
	if entry == nil || entry.Name != "generic" {
		t.Fatalf("generic fallback missing: %#v", entry)
	}
}
