package motion

// --- Motion ---

// Motion is an immutable description of an animation: how a value changes
// as progress runs from 0 to 1. Motions hold no clocks and no mutable
// state; they are cheap to build, rebuild, and compare, and a single
// Motion may be prepared and sampled any number of times.
//
// The set of motion kinds is closed. Construct them with the package
// functions ([To], [Seq], [Par], ...) and combine freely; the concrete
// types are not exported.
type Motion interface {
	// String returns the canonical parenthesized description of the
	// motion, e.g. "(seq (to 0 50) (to 100))". Two motions with equal
	// structure render identically.
	String() string

	// Equal reports whether other describes the same motion: same kind,
	// same attributes, equal children. Map functions compare by function
	// identity, curves by identity refined with probe samples, and
	// actions by id.
	Equal(other Motion) bool

	// isMotion restricts implementations to this package so the
	// resolver's type switches stay exhaustive.
	isMotion()
}

type toMotion struct {
	targets  []Value
	start    Value
	hasStart bool
}

type constMotion struct {
	values []Value
}

type waitMotion struct {
	d float64
}

type seqMotion struct {
	children []Motion
}

type parMotion struct {
	children []Motion
	keys     []string // sorted; nil when positional
}

type repeatMotion struct {
	count int
	child Motion
}

type autoreverseMotion struct {
	child Motion
}

type tileMotion struct {
	child Motion
}

type mapMotion struct {
	fn    func(Value) Value
	child Motion
}

type withMotion struct {
	timing Timing
	child  Motion
}

type actionMotion struct {
	id string
	fn func()
}

type syncedMotion struct {
	child Motion
}

func (*toMotion) isMotion()          {}
func (*constMotion) isMotion()       {}
func (*waitMotion) isMotion()        {}
func (*seqMotion) isMotion()         {}
func (*parMotion) isMotion()         {}
func (*repeatMotion) isMotion()      {}
func (*autoreverseMotion) isMotion() {}
func (*tileMotion) isMotion()        {}
func (*mapMotion) isMotion()         {}
func (*withMotion) isMotion()        {}
func (*actionMotion) isMotion()      {}
func (*syncedMotion) isMotion()      {}

// --- Leaf constructors ---

// To animates from the current value toward each target in turn, dividing
// its span evenly between the segments. The current value is whatever the
// enclosing motion has produced so far (the previous child's end value
// inside a [Seq], or the initial value supplied at prepare time). With no
// initial value available the first target is held instead.
//
// Values are normalized on construction: integer and float arguments
// become float64, slices and maps are copied.
func To(targets ...Value) Motion {
	if len(targets) == 0 {
		panic("motion: To requires at least one target")
	}
	return &toMotion{targets: normalizeValues(targets)}
}

// From is [To] with an explicit start value. It ignores the surrounding
// value entirely, which makes it replay-identical inside [Repeat] and
// [Tile]. From(v) with no targets holds v.
func From(start Value, targets ...Value) Motion {
	return &toMotion{
		targets:  normalizeValues(targets),
		start:    normalizeValue(start),
		hasStart: true,
	}
}

// Const steps through the given values, holding each over an equal share
// of its span. There is no interpolation between steps. Uneven shares are
// written as a [Seq] of [Duration]-wrapped Consts.
func Const(values ...Value) Motion {
	if len(values) == 0 {
		panic("motion: Const requires at least one value")
	}
	return &constMotion{values: normalizeValues(values)}
}

// Wait holds the current value for d time units. It is the one leaf that
// takes time of its own, so it anchors schedules: Seq(Wait(1), ...) is a
// one-unit delay even with no other timing in the tree.
func Wait(d float64) Motion {
	if d < 0 {
		panic("motion: negative wait duration")
	}
	return &waitMotion{d: d}
}

// Action plants a side-effect marker at a point on the timeline. Sampling
// never runs fn; [Prepared.Effects] returns the markers a progress window
// crossed and the caller fires them. Actions take no time and pass the
// current value through.
//
// Actions compare equal by id alone, so rebuilding the closure every
// frame does not defeat [Motion.Equal]. A nil fn is allowed for
// marker-only use.
func Action(id string, fn func()) Motion {
	if id == "" {
		panic("motion: empty action id")
	}
	return &actionMotion{id: id, fn: fn}
}

// --- Composite constructors ---

// Seq plays children one after another. Each child starts from the value
// the previous child ended on. Span allocation follows the children's
// timing hints; see [Prepare].
func Seq(children ...Motion) Motion {
	return &seqMotion{children: copyChildren("Seq", children)}
}

// Par plays children at the same time, producing a []Value of their
// results by position. Children with a known duration define the group's
// length (the longest wins); children without one stretch over the whole
// group. A child that finishes early holds its end value.
func Par(children ...Motion) Motion {
	return &parMotion{children: copyChildren("Par", children)}
}

// ParKeyed is [Par] over named tracks, producing a map[string]Value.
// Track order (for describe and effect ordering) is the sorted key order.
func ParKeyed(tracks map[string]Motion) Motion {
	keys := sortedKeys(tracks)
	children := make([]Motion, len(keys))
	for i, k := range keys {
		if tracks[k] == nil {
			panic("motion: nil child in ParKeyed")
		}
		children[i] = tracks[k]
	}
	return &parMotion{children: children, keys: keys}
}

// Repeat plays child count times back to back. Every pass restarts from
// the repeat's own starting value, not from the previous pass's end; use
// [From] inside the child when the passes must be identical regardless of
// surroundings. A count of zero (or less) takes no time and leaves the
// current value untouched.
func Repeat(count int, child Motion) Motion {
	requireChild("Repeat", child)
	if count < 0 {
		count = 0
	}
	return &repeatMotion{count: count, child: child}
}

// Autoreverse plays child forward then backward, doubling its duration.
func Autoreverse(child Motion) Motion {
	requireChild("Autoreverse", child)
	return &autoreverseMotion{child: child}
}

// Tile repeats child as many times as fit the span the parent allocates,
// truncating the last pass. Tile needs both an absolute outer span and a
// child with known duration; otherwise [Prepare] reports
// [ErrUnresolvedDuration] and the child plays once.
func Tile(child Motion) Motion {
	requireChild("Tile", child)
	return &tileMotion{child: child}
}

// Map transforms the child's sampled value through fn. fn must be pure;
// it runs on every sample. Map compares by function identity.
func Map(fn func(Value) Value, child Motion) Motion {
	if fn == nil {
		panic("motion: nil map function")
	}
	requireChild("Map", child)
	return &mapMotion{fn: fn, child: child}
}

// Synced ignores driven progress and samples its child from wall-clock
// phase instead: progress = (now mod cycle) / cycle, where cycle is the
// child's duration (or [DefaultDuration] when unknown). Two Synced
// motions built at different times render in lockstep. Actions inside a
// Synced child are not scheduled.
func Synced(child Motion) Motion {
	requireChild("Synced", child)
	return &syncedMotion{child: child}
}

func copyChildren(kind string, children []Motion) []Motion {
	out := make([]Motion, len(children))
	for i, c := range children {
		if c == nil {
			panic("motion: nil child in " + kind)
		}
		out[i] = c
	}
	return out
}

func requireChild(kind string, child Motion) {
	if child == nil {
		panic("motion: nil child in " + kind)
	}
}

// --- Timing ---

// Timing attaches schedule hints to a motion via [With]. Nil fields are
// unset. Duration and Delay are absolute time units; RelDuration and
// RelDelay are fractions of the nearest enclosing span. Curve remaps the
// wrapped motion's local progress.
type Timing struct {
	Duration    *float64
	RelDuration *float64
	Delay       *float64
	RelDelay    *float64
	Curve       Curve
}

func (t Timing) zero() bool {
	return t.Duration == nil && t.RelDuration == nil &&
		t.Delay == nil && t.RelDelay == nil && t.Curve == nil
}

// With wraps child with timing hints. Wrapping with a zero Timing returns
// child unchanged. Absolute and relative forms of the same hint are
// mutually exclusive. Motions carry no inline timing of their own; this
// wrapper (and its shorthands [Duration], [RelDuration], [Delay],
// [RelDelay], [Curved]) is the only way to attach it.
func With(t Timing, child Motion) Motion {
	requireChild("With", child)
	if t.Duration != nil && t.RelDuration != nil {
		panic("motion: both absolute and relative duration")
	}
	if t.Delay != nil && t.RelDelay != nil {
		panic("motion: both absolute and relative delay")
	}
	if t.Duration != nil && *t.Duration < 0 {
		panic("motion: negative duration")
	}
	if t.RelDuration != nil && *t.RelDuration < 0 {
		panic("motion: negative relative duration")
	}
	if t.Delay != nil && *t.Delay < 0 {
		panic("motion: negative delay")
	}
	if t.RelDelay != nil && *t.RelDelay < 0 {
		panic("motion: negative relative delay")
	}
	if t.zero() {
		return child
	}
	return &withMotion{timing: t, child: child}
}

// Duration gives child an absolute duration of d time units.
func Duration(d float64, child Motion) Motion {
	return With(Timing{Duration: &d}, child)
}

// RelDuration gives child a duration of fraction f of the enclosing span.
func RelDuration(f float64, child Motion) Motion {
	return With(Timing{RelDuration: &f}, child)
}

// Delay holds the current value for d time units before child starts.
func Delay(d float64, child Motion) Motion {
	return With(Timing{Delay: &d}, child)
}

// RelDelay is [Delay] with a fraction of the enclosing span.
func RelDelay(f float64, child Motion) Motion {
	return With(Timing{RelDelay: &f}, child)
}

// Curved remaps child's local progress through c before sampling. The
// input is clamped to [0, 1] first; the output may overshoot, which
// [To] extrapolates through its end segments.
func Curved(c Curve, child Motion) Motion {
	return With(Timing{Curve: c}, child)
}
