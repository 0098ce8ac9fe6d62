package motion

import (
	"math"
	"sort"
	"testing"
)

func TestCurveNamed(t *testing.T) {
	c, ok := CurveNamed("out-cubic")
	if !ok || c == nil {
		t.Fatal("out-cubic should be registered")
	}
	if _, ok := CurveNamed("wobble"); ok {
		t.Error("unknown names should report false")
	}

	// The same name yields the same instance, so rebuilt motions using
	// named curves compare equal.
	again, _ := CurveNamed("out-cubic")
	if !Curved(c, To(1)).Equal(Curved(again, To(1))) {
		t.Error("two lookups of one name should be change-detection equal")
	}
	inQuad, _ := CurveNamed("in-quad")
	outQuad, _ := CurveNamed("out-quad")
	if Curved(inQuad, To(1)).Equal(Curved(outQuad, To(1))) {
		t.Error("different curves should not compare equal")
	}
}

func TestCurveNames(t *testing.T) {
	names := CurveNames()
	if len(names) != len(curves) {
		t.Errorf("CurveNames returned %d names, registry has %d", len(names), len(curves))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("CurveNames should be sorted: %v", names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"linear", "in-quad", "out-bounce", "in-out-elastic"} {
		if !seen[want] {
			t.Errorf("CurveNames missing %q", want)
		}
	}
}

func TestEaseAdapterValues(t *testing.T) {
	tests := []struct {
		curve string
		t     float64
		want  float64
	}{
		{"linear", 0.5, 0.5},
		{"linear", 0.25, 0.25},
		{"in-quad", 0.5, 0.25},
		{"out-quad", 0.5, 0.75},
		{"in-cubic", 0.5, 0.125},
		{"out-cubic", 0.5, 0.875},
		{"in-out-quad", 0.25, 0.125},
		{"in-out-quad", 0.5, 0.5},
		{"in-quad", 0, 0},
		{"in-quad", 1, 1},
		{"out-bounce", 1, 1},
		{"in-elastic", 0, 0},
		{"in-elastic", 1, 1},
	}
	for _, tt := range tests {
		c, ok := CurveNamed(tt.curve)
		if !ok {
			t.Fatalf("%s not registered", tt.curve)
		}
		// gween easings run in float32.
		if got := c(tt.t); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s(%v) = %v, want %v", tt.curve, tt.t, got, tt.want)
		}
	}
}

func TestOvershootCurves(t *testing.T) {
	outBack, _ := CurveNamed("out-back")
	if v := outBack(0.5); v <= 1 {
		t.Errorf("out-back(0.5) = %v, want overshoot past 1", v)
	}
	inBack, _ := CurveNamed("in-back")
	if v := inBack(0.5); v >= 0 {
		t.Errorf("in-back(0.5) = %v, want anticipation below 0", v)
	}
}

func TestLinearIsIdentity(t *testing.T) {
	for _, x := range []float64{0, 0.1, 0.5, 0.9, 1} {
		if Linear(x) != x {
			t.Errorf("Linear(%v) = %v", x, Linear(x))
		}
	}
}
