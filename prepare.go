package motion

import (
	"errors"
	"math"
	"time"
)

// processStart anchors the default wall clock for [Synced] motions. All
// prepared motions in a process share it, so synced children render in
// lockstep no matter when they were built.
var processStart = time.Now()

func secondsSinceStart() float64 {
	return time.Since(processStart).Seconds()
}

// PrepareConfig configures [Prepare]. The zero value is valid: no
// initial value, the motion's own duration, the process clock.
type PrepareConfig struct {
	// Initial is the value the motion starts from. [To] without an
	// explicit start interpolates away from it; nil makes such a To hold
	// its first target instead.
	Initial Value

	// Duration anchors the root span, in time units, overriding the
	// motion's own intrinsic duration. Zero means unset.
	Duration float64

	// Now supplies the wall clock for [Synced] children, in seconds.
	// Defaults to seconds since process start. Override in tests.
	Now func() float64
}

// Prepared is a compiled motion: the resolved schedule plus the expanded
// side-effect markers. Preparing is the expensive step; sampling a
// Prepared is pure and cheap, so prepare once and sample every frame.
type Prepared struct {
	motion  Motion
	root    *sched
	marks   []Effect
	initial Value
	now     func() float64
}

// Prepare resolves m's schedule and expands its side-effect markers.
//
// Prepare succeeds structurally even when resolution degrades (a [Tile]
// that cannot anchor): the returned Prepared is usable in the degraded
// form and the error, wrapping [ErrUnresolvedDuration], reports what
// failed. Callers that tolerate degraded playback may keep the Prepared
// and log the error.
func Prepare(m Motion, cfg PrepareConfig) (*Prepared, error) {
	if m == nil {
		panic("motion: Prepare with nil motion")
	}
	if cfg.Duration < 0 {
		panic("motion: negative duration")
	}
	var errs []error
	root := layout(m, rootSpan(m, cfg.Duration), &errs)
	now := cfg.Now
	if now == nil {
		now = secondsSinceStart
	}
	p := &Prepared{
		motion:  m,
		root:    root,
		initial: normalizeValue(cfg.Initial),
		now:     now,
	}
	collectMarks(root, 0, 1, clipRange{0, 1}, &p.marks)
	if globalDebug {
		debugReportPrepare(p, errs)
	}
	return p, errors.Join(errs...)
}

// Motion returns the motion this Prepared was compiled from.
func (p *Prepared) Motion() Motion { return p.motion }

// Duration returns the resolved duration in time units. ok is false when
// nothing anchors the schedule; the motion is then defined purely over
// progress and the caller picks the pace.
func (p *Prepared) Duration() (d float64, ok bool) {
	return p.root.dur, p.root.known
}

// At samples the value at progress t using the initial value given at
// prepare time. t is the fraction of the whole timeline; 0.5 is halfway
// regardless of duration. Sampling is pure — no state advances, no
// actions run — so t may move backward or jump freely.
//
// t outside [0, 1] extrapolates: [To] segments continue linearly,
// [Const] and curve inputs clamp.
func (p *Prepared) At(t float64) (Value, error) {
	return evalSched(p.root, p.initial, t, p.now)
}

// Interpolate is [Prepared.At] with an explicit initial value, for
// callers that feed the current rendered state back in each frame.
func (p *Prepared) Interpolate(initial Value, t float64) (Value, error) {
	return evalSched(p.root, normalizeValue(initial), t, p.now)
}

func evalSched(s *sched, initial Value, t float64, now func() float64) (Value, error) {
	switch v := s.m.(type) {
	case *toMotion:
		return evalTo(v, initial, t)
	case *constMotion:
		return evalConst(v, t), nil
	case *waitMotion, *actionMotion:
		return initial, nil
	case *seqMotion:
		return evalSeq(s, initial, t, now)
	case *parMotion:
		return evalPar(s, v, initial, t, now)
	case *repeatMotion:
		if s.cycles == 0 {
			return initial, nil
		}
		u := t * s.cycles
		k := math.Floor(u)
		if k < 0 {
			k = 0
		} else if k > s.cycles-1 {
			k = s.cycles - 1
		}
		return evalSched(s.kids[0], initial, u-k, now)
	case *autoreverseMotion:
		if t <= 0.5 {
			return evalSched(s.kids[0], initial, 2*t, now)
		}
		return evalSched(s.kids[0], initial, 2-2*t, now)
	case *tileMotion:
		u := t * s.cycles
		k := math.Floor(u)
		if k < 0 {
			k = 0
		}
		if last := math.Ceil(s.cycles) - 1; k > last {
			k = last
		}
		return evalSched(s.kids[0], initial, u-k, now)
	case *mapMotion:
		out, err := evalSched(s.kids[0], initial, t, now)
		if err != nil {
			return nil, err
		}
		return normalizeValue(v.fn(out)), nil
	case *withMotion:
		var local float64
		if s.body <= 0 {
			if t >= s.delay {
				local = 1
			}
		} else {
			local = (t - s.delay) / s.body
			if local < 0 {
				local = 0
			} else if local > 1 {
				local = 1
			}
		}
		if s.curve != nil {
			local = s.curve(local)
		}
		return evalSched(s.kids[0], initial, local, now)
	case *syncedMotion:
		phase := math.Mod(now(), s.period) / s.period
		if phase < 0 {
			phase++
		}
		return evalSched(s.kids[0], initial, phase, now)
	}
	return initial, nil
}

// evalTo interpolates across the checkpoint chain. The span divides
// evenly between segments; progress outside a segment extrapolates
// through [Lerp], so overshooting curves keep moving past the ends.
func evalTo(v *toMotion, initial Value, t float64) (Value, error) {
	start := initial
	targets := v.targets
	if v.hasStart {
		start = v.start
	} else if start == nil {
		// Nothing to move from: hold the first target and chain through
		// the rest.
		start = targets[0]
		targets = targets[1:]
	}
	n := len(targets)
	if n == 0 {
		return start, nil
	}
	u := t * float64(n)
	i := int(math.Floor(u))
	if i < 0 {
		i = 0
	} else if i > n-1 {
		i = n - 1
	}
	a := start
	if i > 0 {
		a = targets[i-1]
	}
	return Lerp(a, targets[i], u-float64(i))
}

func evalConst(v *constMotion, t float64) Value {
	k := len(v.values)
	i := int(math.Floor(t * float64(k)))
	if i < 0 {
		i = 0
	} else if i > k-1 {
		i = k - 1
	}
	return v.values[i]
}

// evalSeq threads the running value through the chain: every child ahead
// of t is folded at its end state so the active child starts from what
// it would actually see. Zero-width children fold too, which is how a
// zero-duration To still jumps the value.
func evalSeq(s *sched, initial Value, t float64, now func() float64) (Value, error) {
	last := -1
	for i := range s.wins {
		if s.wins[i].to > s.wins[i].from {
			last = i
		}
	}
	cur := initial
	for i, kid := range s.kids {
		w := s.wins[i]
		if width := w.to - w.from; width > 0 && (t < w.to || i == last) {
			return evalSched(kid, cur, (t-w.from)/width, now)
		}
		v, err := evalSched(kid, cur, 1, now)
		if err != nil {
			return nil, err
		}
		cur = v
	}
	return cur, nil
}

// evalPar samples every track and recombines: a map for keyed groups, a
// slice for positional ones. A track shorter than the group holds its
// end value; a longer one is only ever evaluated up to the group's share
// of its schedule.
func evalPar(s *sched, v *parMotion, initial Value, t float64, now func() float64) (Value, error) {
	if len(s.kids) == 0 {
		return initial, nil
	}
	outs := make([]Value, len(s.kids))
	for i, kid := range s.kids {
		local := 1.0
		if e := s.wins[i].to; e > 0 {
			local = t / e
			if e < 1 && local > 1 {
				local = 1
			}
		}
		out, err := evalSched(kid, parChildInitial(v, initial, i), local, now)
		if err != nil {
			return nil, err
		}
		outs[i] = out
	}
	if v.keys != nil {
		m := make(map[string]Value, len(outs))
		for i, k := range v.keys {
			m[k] = outs[i]
		}
		return normalizeValue(m), nil
	}
	return normalizeValue(outs), nil
}

// parChildInitial projects the group's initial value onto one track:
// keyed groups split maps by key, positional groups split slices by
// index. Anything else (or a missing entry) gives the track no initial.
func parChildInitial(v *parMotion, initial Value, i int) Value {
	if initial == nil {
		return nil
	}
	if v.keys != nil {
		switch m := initial.(type) {
		case map[string]Value:
			return m[v.keys[i]]
		case map[string]float64:
			if x, ok := m[v.keys[i]]; ok {
				return x
			}
		}
		return nil
	}
	switch sl := initial.(type) {
	case []Value:
		if i < len(sl) {
			return sl[i]
		}
	case []float64:
		if i < len(sl) {
			return sl[i]
		}
	}
	return nil
}
