package motion

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// atF samples p at progress at and fails the test on error or a
// non-scalar result.
func atF(t *testing.T, p *Prepared, at float64) float64 {
	t.Helper()
	v, err := p.At(at)
	if err != nil {
		t.Fatalf("At(%v): %v", at, err)
	}
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("At(%v) = %T, want float64", at, v)
	}
	return f
}

func checkAt(t *testing.T, p *Prepared, cases []struct{ at, expect float64 }) {
	t.Helper()
	for _, tc := range cases {
		if got := atF(t, p, tc.at); math.Abs(got-tc.expect) > 1e-9 {
			t.Errorf("At(%v) = %v, want %v", tc.at, got, tc.expect)
		}
	}
}

// --- Leaves ---

func TestConstPartitionsEvenly(t *testing.T) {
	p := mustPrepare(t, Const(0, 50, 100), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 0},
		{0.33, 0},
		{0.34, 50},
		{0.66, 50},
		{0.67, 100},
		{1, 100},
		// Const never extrapolates; the partition clamps.
		{1.5, 100},
		{-0.2, 0},
	})
}

func TestToQuarters(t *testing.T) {
	m := To(0, 100)
	p := mustPrepare(t, m, PrepareConfig{})
	if p.Motion() != m {
		t.Errorf("Motion = %s, want the source motion", p.Motion())
	}
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 0}, {0.25, 25}, {0.5, 50}, {0.75, 75}, {1, 100},
	})
}

func TestToCheckpointChain(t *testing.T) {
	// Checkpoints split the span evenly: three values, two segments.
	p := mustPrepare(t, To(0, 50, 100), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 0}, {0.25, 25}, {0.5, 50}, {0.75, 75}, {1, 100},
	})

	// A From chain turns around mid-flight.
	p = mustPrepare(t, From(0, 100, 0), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0.25, 50}, {0.5, 100}, {0.75, 50}, {1, 0},
	})
}

func TestToInitialRules(t *testing.T) {
	t.Run("to chains from the initial value", func(t *testing.T) {
		p := mustPrepare(t, To(100), PrepareConfig{Initial: 50.0})
		checkAt(t, p, []struct{ at, expect float64 }{
			{0, 50}, {0.5, 75}, {1, 100},
		})
	})
	t.Run("to without initial holds its first target", func(t *testing.T) {
		p := mustPrepare(t, To(7), PrepareConfig{})
		checkAt(t, p, []struct{ at, expect float64 }{
			{0, 7}, {0.5, 7}, {1, 7},
		})
	})
	t.Run("from ignores the initial value", func(t *testing.T) {
		p := mustPrepare(t, From(80, 20), PrepareConfig{Initial: 999.0})
		checkAt(t, p, []struct{ at, expect float64 }{
			{0, 80}, {0.5, 50}, {1, 20},
		})
	})
	t.Run("from alone pins the value", func(t *testing.T) {
		p := mustPrepare(t, From(250), PrepareConfig{Initial: 1.0})
		checkAt(t, p, []struct{ at, expect float64 }{
			{0, 250}, {0.5, 250}, {1, 250},
		})
	})
}

func TestWaitHoldsValue(t *testing.T) {
	p := mustPrepare(t, Wait(2), PrepareConfig{Initial: 42.0})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 42}, {0.5, 42}, {1, 42},
	})

	p = mustPrepare(t, Wait(2), PrepareConfig{})
	if v, err := p.At(0.5); err != nil || v != nil {
		t.Errorf("At(0.5) = %v, %v, want nil value with no initial", v, err)
	}
}

// --- Seq ---

func TestSeqThreadsValue(t *testing.T) {
	// The second leg has no explicit start: it picks up the 50 the first
	// leg ends on.
	p := mustPrepare(t, Seq(Duration(25, To(0, 50)), Duration(75, To(100))), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 0},
		{0.125, 25},
		{0.25, 50},
		{0.5, 50 + 50.0/3},
		{1, 100},
	})
}

func TestSeqZeroWidthChildJumps(t *testing.T) {
	// A zero-duration leg still runs to completion in the fold, so the
	// jump lands before anything after it samples.
	p := mustPrepare(t, Seq(Duration(0, To(5)), Wait(1)), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 5}, {0.7, 5}, {1, 5},
	})
}

// --- Par ---

func TestParRecombinesKeyed(t *testing.T) {
	p := mustPrepare(t, ParKeyed(map[string]Motion{
		"color":  From(0, 100),
		"offset": From(200, 300),
	}), PrepareConfig{})
	v, err := p.At(0.5)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	want := map[string]float64{"color": 50, "offset": 250}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("At(0.5) mismatch (-want +got):\n%s", diff)
	}
}

func TestParSplitsInitialByKey(t *testing.T) {
	p := mustPrepare(t, ParKeyed(map[string]Motion{
		"color":  To(100),
		"offset": To(300),
	}), PrepareConfig{Initial: map[string]float64{"color": 0, "offset": 200}})
	v, err := p.At(0.5)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	want := map[string]float64{"color": 50, "offset": 250}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("At(0.5) mismatch (-want +got):\n%s", diff)
	}
}

func TestParSplitsInitialByIndex(t *testing.T) {
	p := mustPrepare(t, Par(To(100), To(300)), PrepareConfig{Initial: []float64{0, 200}})
	v, err := p.At(0.5)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if diff := cmp.Diff([]float64{50, 250}, v); diff != "" {
		t.Errorf("At(0.5) mismatch (-want +got):\n%s", diff)
	}
}

func TestParHoldsFinishedTracks(t *testing.T) {
	// The one-unit track finishes halfway through the group and holds its
	// end value for the rest.
	p := mustPrepare(t, Par(
		Duration(1, From(0, 100)),
		Duration(2, From(200, 300)),
	), PrepareConfig{})
	if d, known := p.Duration(); !known || d != 2 {
		t.Fatalf("Duration = %v/%v, want 2/true", d, known)
	}
	v, err := p.At(0.75)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if diff := cmp.Diff([]float64{100, 275}, v); diff != "" {
		t.Errorf("At(0.75) mismatch (-want +got):\n%s", diff)
	}
	v, err = p.At(1)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if diff := cmp.Diff([]float64{100, 300}, v); diff != "" {
		t.Errorf("At(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestParClipsOverlongTrack(t *testing.T) {
	// The group is pinned to two units; the four-unit track only ever
	// plays its first half.
	p := mustPrepare(t, Par(
		Duration(2, From(0, 100)),
		Duration(4, From(0, 100)),
	), PrepareConfig{Duration: 2})
	v, err := p.At(1)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if diff := cmp.Diff([]float64{100, 50}, v); diff != "" {
		t.Errorf("At(1) mismatch (-want +got):\n%s", diff)
	}
}

// --- Repeat, Autoreverse, Tile ---

func TestRepeatReplays(t *testing.T) {
	p := mustPrepare(t, Repeat(2, From(0, 100)), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0.25, 50},
		{0.5, 0}, // second pass restarts
		{0.75, 50},
		{1, 100},
	})
}

func TestRepeatZeroHoldsInitial(t *testing.T) {
	p := mustPrepare(t, Repeat(0, From(0, 100)), PrepareConfig{Initial: 7.0})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 7}, {0.5, 7}, {1, 7},
	})
}

func TestAutoreverseMirrors(t *testing.T) {
	p := mustPrepare(t, Autoreverse(From(0, 100)), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 0}, {0.25, 50}, {0.5, 100}, {0.75, 50}, {1, 0},
	})
}

func TestTileFillsSpanWithCycles(t *testing.T) {
	// 2.5 cycles of a one-unit pattern in 2.5 units; the tail is a half
	// cycle cut off mid-flight.
	p := mustPrepare(t, Duration(2.5, Tile(Duration(1, From(0, 100)))), PrepareConfig{})
	if d, known := p.Duration(); !known || d != 2.5 {
		t.Fatalf("Duration = %v/%v, want 2.5/true", d, known)
	}
	checkAt(t, p, []struct{ at, expect float64 }{
		{0.2, 50}, // halfway through the first cycle
		{0.5, 25}, // quarter into the second
		{1, 50},   // the clipped tail ends mid-flight
	})
}

// --- Timing ---

func TestDelayHoldsThenRuns(t *testing.T) {
	p := mustPrepare(t, Delay(1, Duration(1, From(0, 100))), PrepareConfig{})
	if d, known := p.Duration(); !known || d != 2 {
		t.Fatalf("Duration = %v/%v, want 2/true", d, known)
	}
	checkAt(t, p, []struct{ at, expect float64 }{
		{0.25, 0}, {0.5, 0}, {0.75, 50}, {1, 100},
	})
}

func TestRelDelayTakesFractionOfSpan(t *testing.T) {
	p := mustPrepare(t, RelDelay(0.5, From(0, 100)), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0.25, 0}, {0.5, 0}, {0.75, 50}, {1, 100},
	})
}

func TestCurveShapesProgress(t *testing.T) {
	inQuad, ok := CurveNamed("in-quad")
	if !ok {
		t.Fatal("in-quad should be registered")
	}
	p := mustPrepare(t, Curved(inQuad, From(0, 100)), PrepareConfig{})
	// gween easings run in float32.
	if got := atF(t, p, 0.5); math.Abs(got-25) > 1e-6 {
		t.Errorf("At(0.5) = %v, want 25", got)
	}
	if got := atF(t, p, 1); math.Abs(got-100) > 1e-6 {
		t.Errorf("At(1) = %v, want 100", got)
	}
}

func TestCurveOvershootExtrapolates(t *testing.T) {
	over := func(float64) float64 { return 1.2 }
	under := func(float64) float64 { return -0.2 }

	t.Run("to keeps moving past the end", func(t *testing.T) {
		p := mustPrepare(t, Curved(over, From(0, 100)), PrepareConfig{})
		if got := atF(t, p, 0.5); got != 120 {
			t.Errorf("At(0.5) = %v, want 120", got)
		}
	})
	t.Run("and before the start", func(t *testing.T) {
		p := mustPrepare(t, Curved(under, From(0, 100)), PrepareConfig{})
		if got := atF(t, p, 0.5); got != -20 {
			t.Errorf("At(0.5) = %v, want -20", got)
		}
	})
	t.Run("const clamps instead", func(t *testing.T) {
		p := mustPrepare(t, Curved(over, Const(0, 100)), PrepareConfig{})
		if got := atF(t, p, 0.9); got != 100 {
			t.Errorf("At(0.9) = %v, want 100", got)
		}
	})
}

func TestProgressOutsideUnitRangeExtrapolates(t *testing.T) {
	p := mustPrepare(t, From(0, 100), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{1.25, 125}, {-0.25, -25},
	})
}

// --- Map, Synced ---

func TestMapTransformsValues(t *testing.T) {
	double := func(v Value) Value { return v.(float64) * 2 }
	p := mustPrepare(t, Map(double, From(0, 50)), PrepareConfig{})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 0}, {0.5, 50}, {1, 100},
	})
}

func TestSyncedSamplesWallClock(t *testing.T) {
	// 3.25 seconds into a two-second cycle: phase 0.625 regardless of t.
	p := mustPrepare(t, Synced(Duration(2, From(0, 100))), PrepareConfig{
		Now: func() float64 { return 3.25 },
	})
	checkAt(t, p, []struct{ at, expect float64 }{
		{0, 62.5}, {0.37, 62.5}, {1, 62.5},
	})
}

func TestSyncedWrapsNegativeClock(t *testing.T) {
	p := mustPrepare(t, Synced(Duration(2, From(0, 100))), PrepareConfig{
		Now: func() float64 { return -0.5 },
	})
	if got := atF(t, p, 0.5); math.Abs(got-75) > 1e-9 {
		t.Errorf("At(0.5) = %v, want 75", got)
	}
}

// --- Errors, Interpolate, purity ---

func TestMismatchedShapesSurface(t *testing.T) {
	p := mustPrepare(t, Seq(
		From([]float64{0, 0}, []float64{10, 10}),
		To([]float64{1, 2, 3}),
	), PrepareConfig{})
	if _, err := p.At(0.75); !errors.Is(err, ErrMismatchedShape) {
		t.Errorf("At(0.75) err = %v, want ErrMismatchedShape", err)
	}
	// The first leg is internally consistent and still samples.
	if _, err := p.At(0.25); err != nil {
		t.Errorf("At(0.25): %v", err)
	}
}

func TestInterpolateSuppliesInitial(t *testing.T) {
	p := mustPrepare(t, To(100), PrepareConfig{})
	v, err := p.Interpolate(0.0, 0.5)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if v.(float64) != 50 {
		t.Errorf("Interpolate(0, 0.5) = %v, want 50", v)
	}
	// Without one the To holds its target, as with At.
	if got := atF(t, p, 0.5); got != 100 {
		t.Errorf("At(0.5) = %v, want 100", got)
	}
}

func TestSamplingIsPure(t *testing.T) {
	p := mustPrepare(t, Seq(
		Duration(1, Autoreverse(From(0, 100))),
		Duration(2, Repeat(3, From(0, 50))),
	), PrepareConfig{})
	for _, at := range []float64{1, 0.3, 0.9, 0, 0.3, 1, 0.9} {
		first := atF(t, p, at)
		if again := atF(t, p, at); again != first {
			t.Errorf("At(%v) changed between samples: %v then %v", at, first, again)
		}
	}
}
