package motion

import "fmt"

// Schedule resolution. A Motion carries timing hints, not a timeline;
// this file turns a motion tree plus the span its caller supplies into
// the resolved windows that sampling and effect collection run on.
//
// Resolution is two passes:
//
//   - intrinsic (bottom-up): the duration a node derives from its own
//     attributes and children alone. Seq sums, Par takes the longest
//     known child, Repeat multiplies, Autoreverse doubles; To and Const
//     have none.
//   - layout (top-down): the parent allocates a span and the node carves
//     it into child windows. Absolute hints claim their time, relative
//     hints their fraction, and unhinted children stretch into whatever
//     remains. The parent's span is authoritative: over-claiming
//     children are rescaled to fit, never dropped.
//
// A tree with no absolute duration anywhere resolves in progress mode:
// the span has no time unit, absolute hints act as proportional weights,
// and [Prepared.Duration] reports unknown.

// DefaultDuration is the span assumed wherever a duration is required
// but none resolves: the weight of an unhinted child in a proportional
// layout, the cycle of a [Synced] child with unknown duration, and the
// clock length of a [Controller] whose motion has no duration.
const DefaultDuration = 1.0

// span is the amount of timeline a parent allocates to a node: time
// units when known, unitless weight otherwise (progress mode).
type span struct {
	len   float64
	known bool
}

// window places a child within its parent's span, in fractions of the
// span. Seq windows abut; Par windows all start at 0 and to may exceed 1
// for a child longer than the group.
type window struct {
	from, to float64
}

// sched is a resolved schedule node, one per motion node. A single flat
// struct for every kind keeps evaluation a tight type switch with no
// per-kind allocation.
type sched struct {
	m     Motion
	dur   float64
	known bool
	kids  []*sched
	wins  []window // seq, par: window per kid

	delay float64 // with: leading hold, fraction of own span
	body  float64 // with: child window length, fraction of own span
	curve Curve   // with

	cycles float64 // repeat: count; tile: passes that fill the span
	period float64 // synced: child cycle in time units
}

// demand is a child's claim on its parent's span: a fixed part in time
// units, a relative part in fractions of the parent span, and whether
// the child stretches into the unclaimed remainder.
type demand struct {
	fixed float64
	rel   float64
	flex  bool
}

// intrinsic reports the duration m derives bottom-up, in time units.
// ok is false when nothing below m anchors it.
func intrinsic(m Motion) (float64, bool) {
	switch v := m.(type) {
	case *waitMotion:
		return v.d, true
	case *actionMotion:
		return 0, true
	case *seqMotion:
		total := 0.0
		for _, c := range v.children {
			d, ok := intrinsic(c)
			if !ok {
				return 0, false
			}
			total += d
		}
		return total, true
	case *parMotion:
		best, ok := 0.0, false
		for _, c := range v.children {
			if d, k := intrinsic(c); k {
				ok = true
				if d > best {
					best = d
				}
			}
		}
		return best, ok
	case *repeatMotion:
		if v.count == 0 {
			return 0, true
		}
		d, ok := intrinsic(v.child)
		return d * float64(v.count), ok
	case *autoreverseMotion:
		d, ok := intrinsic(v.child)
		return d * 2, ok
	case *mapMotion:
		return intrinsic(v.child)
	case *syncedMotion:
		return intrinsic(v.child)
	case *withMotion:
		return withIntrinsic(v)
	}
	// To, Const, Tile: no duration of their own.
	return 0, false
}

// withIntrinsic is the absolute delay plus the body length. Relative
// hints need an enclosing span and contribute nothing bottom-up.
func withIntrinsic(v *withMotion) (float64, bool) {
	t := v.timing
	if t.RelDuration != nil || t.RelDelay != nil {
		return 0, false
	}
	lead := 0.0
	if t.Delay != nil {
		lead = *t.Delay
	}
	if t.Duration != nil {
		return lead + *t.Duration, true
	}
	d, ok := intrinsic(v.child)
	if !ok {
		return 0, false
	}
	return lead + d, true
}

func childDemand(m Motion) demand {
	if w, ok := m.(*withMotion); ok {
		t := w.timing
		var d demand
		if t.Delay != nil {
			d.fixed += *t.Delay
		}
		if t.RelDelay != nil {
			d.rel += *t.RelDelay
		}
		switch {
		case t.Duration != nil:
			d.fixed += *t.Duration
		case t.RelDuration != nil:
			d.rel += *t.RelDuration
		default:
			if cd, ok := intrinsic(w.child); ok {
				d.fixed += cd
			} else {
				d.flex = true
			}
		}
		return d
	}
	if d, ok := intrinsic(m); ok {
		return demand{fixed: d}
	}
	return demand{flex: true}
}

// rootSpan picks the span the whole tree is laid out on: the external
// duration when given, else the root's intrinsic duration, else a
// unitless progress-mode span sized to the root's own demands so that
// absolute hints keep their proportions.
func rootSpan(m Motion, external float64) span {
	if external > 0 {
		return span{external, true}
	}
	if d, ok := intrinsic(m); ok {
		return span{d, true}
	}
	dm := childDemand(m)
	w := dm.fixed
	if dm.flex {
		w += DefaultDuration
	}
	if w <= 0 {
		w = DefaultDuration
	}
	if dm.rel < 1 {
		w /= 1 - dm.rel
	}
	return span{w, false}
}

// layout resolves m over the span its parent allocated, producing the
// sched tree. Resolution problems (an unanchorable [Tile]) are appended
// to errs; the node still lays out in its documented degraded form.
func layout(m Motion, sp span, errs *[]error) *sched {
	s := &sched{m: m, dur: sp.len, known: sp.known}
	switch v := m.(type) {
	case *toMotion, *constMotion, *waitMotion, *actionMotion:
		// Leaves hold no windows.
	case *seqMotion:
		layoutSeq(s, v.children, sp, errs)
	case *parMotion:
		layoutPar(s, v.children, sp, errs)
	case *repeatMotion:
		s.cycles = float64(v.count)
		if v.count > 0 {
			s.kids = []*sched{layout(v.child, span{sp.len / float64(v.count), sp.known}, errs)}
		}
	case *autoreverseMotion:
		s.kids = []*sched{layout(v.child, span{sp.len / 2, sp.known}, errs)}
	case *tileMotion:
		layoutTile(s, v, sp, errs)
	case *mapMotion:
		s.kids = []*sched{layout(v.child, sp, errs)}
	case *withMotion:
		layoutWith(s, v, sp, errs)
	case *syncedMotion:
		d, ok := intrinsic(v.child)
		if !ok || d <= 0 {
			d = DefaultDuration
		}
		s.period = d
		s.kids = []*sched{layout(v.child, span{d, true}, errs)}
	}
	return s
}

func layoutSeq(s *sched, children []Motion, sp span, errs *[]error) {
	n := len(children)
	if n == 0 {
		return
	}
	demands := make([]demand, n)
	var fixed, rel float64
	flexCount := 0
	for i, c := range children {
		demands[i] = childDemand(c)
		fixed += demands[i].fixed
		rel += demands[i].rel
		if demands[i].flex {
			flexCount++
		}
	}

	// Child span lengths, in the parent's units.
	lens := make([]float64, n)
	if sp.known {
		// Anchored: absolute hints keep their spans, relative hints take
		// their fraction, unhinted children split the remainder equally.
		// With no unhinted child to absorb the difference, over- and
		// under-claiming rescale everyone proportionally.
		claimed := fixed + rel*sp.len
		free := sp.len - claimed
		share := 0.0
		scale := 1.0
		switch {
		case free < 0 && claimed > 0:
			scale = sp.len / claimed
		case flexCount > 0:
			share = free / float64(flexCount)
		case free > 0 && claimed > 0:
			scale = sp.len / claimed
		}
		for i := range demands {
			lens[i] = (demands[i].fixed + demands[i].rel*sp.len) * scale
			if demands[i].flex {
				lens[i] += share
			}
		}
	} else {
		// Progress mode: relative hints reserve their fraction, the rest
		// splits proportionally with absolute hints as weights and
		// unhinted children weighing DefaultDuration.
		var total float64
		weights := make([]float64, n)
		for i := range demands {
			w := demands[i].fixed
			if demands[i].flex {
				w += DefaultDuration
			}
			weights[i] = w
			total += w
		}
		// With nothing to absorb the remainder, relative hints rescale to
		// fill the span, matching the anchored branch.
		relScale := 1.0
		if rel > 1 || (total == 0 && rel > 0 && rel != 1) {
			relScale = 1 / rel
		}
		free := sp.len * (1 - rel*relScale)
		for i := range demands {
			lens[i] = demands[i].rel * relScale * sp.len
			if total > 0 {
				lens[i] += free * weights[i] / total
			}
		}
	}

	s.kids = make([]*sched, n)
	s.wins = make([]window, n)
	at := 0.0
	for i, c := range children {
		frac := 0.0
		if sp.len > 0 {
			frac = lens[i] / sp.len
		}
		s.wins[i] = window{at, at + frac}
		s.kids[i] = layout(c, span{lens[i], sp.known}, errs)
		at += frac
	}
	// Absorb float drift so the last window ends exactly at 1.
	if at != 1 && s.wins[n-1].to > s.wins[n-1].from {
		s.wins[n-1].to = 1
	}
}

func layoutPar(s *sched, children []Motion, sp span, errs *[]error) {
	n := len(children)
	if n == 0 {
		return
	}
	demands := make([]demand, n)
	for i, c := range children {
		demands[i] = childDemand(c)
	}
	// The scale children resolve against: the allocated span when
	// anchored, else the longest fixed claim (the group's natural length
	// in progress mode).
	norm := sp.len
	if !sp.known {
		norm = 0
		for _, d := range demands {
			if !d.flex && d.fixed > norm {
				norm = d.fixed
			}
		}
	}
	s.kids = make([]*sched, n)
	s.wins = make([]window, n)
	for i, c := range children {
		d := demands[i]
		e := d.rel
		if norm > 0 {
			e += d.fixed / norm
		}
		if d.flex && e < 1 {
			e = 1
		}
		s.wins[i] = window{0, e}
		s.kids[i] = layout(c, span{e * sp.len, sp.known}, errs)
	}
}

// layoutWith places the wrapped child inside its span: [delay,
// delay+body], with any remainder held at the child's terminal value.
// A delay and duration that together overrun the span are rescaled to
// fit, preserving their ratio.
func layoutWith(s *sched, v *withMotion, sp span, errs *[]error) {
	t := v.timing
	s.curve = t.Curve

	lead := 0.0
	switch {
	case t.Delay != nil:
		lead = *t.Delay
	case t.RelDelay != nil:
		lead = *t.RelDelay * sp.len
	}
	body := -1.0
	switch {
	case t.Duration != nil:
		body = *t.Duration
	case t.RelDuration != nil:
		body = *t.RelDuration * sp.len
	}
	if body < 0 {
		// No duration hint: the body fills whatever the delay leaves.
		body = sp.len - lead
		if body < 0 {
			body = 0
		}
	}
	if total := lead + body; total > sp.len && total > 0 {
		f := sp.len / total
		lead *= f
		body *= f
	}
	if sp.len > 0 {
		s.delay = lead / sp.len
		s.body = body / sp.len
	} else {
		s.delay, s.body = 0, 1
		body = 0
	}
	s.kids = []*sched{layout(v.child, span{body, sp.known}, errs)}
}

func layoutTile(s *sched, v *tileMotion, sp span, errs *[]error) {
	d, ok := intrinsic(v.child)
	if !sp.known || sp.len <= 0 || !ok || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%w: tile needs an anchored span and a child with known duration, got %s", ErrUnresolvedDuration, v.child))
		s.cycles = 1
		s.kids = []*sched{layout(v.child, sp, errs)}
		return
	}
	s.cycles = sp.len / d
	s.kids = []*sched{layout(v.child, span{d, true}, errs)}
}
