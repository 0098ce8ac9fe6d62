// Package motion is a declarative animation-composition library for
// [Ebitengine] games and immediate-mode UIs.
//
// A [Motion] is an immutable description of how a value changes over
// normalized progress — it holds no clocks, no timers, and no mutable
// state. Small motions compose into larger ones ([Seq], [Par], [Repeat],
// [Autoreverse], [Tile]), and the composite stays a plain value that can
// be compared ([Motion.Equal]), printed ([Motion.String]), hashed
// ([Hash]), and rebuilt every frame for free.
//
// Full documentation, tutorials, and examples are available at:
//
// https://phanxgames.github.io/motion/
//
// # Quick start
//
// Describe a motion, prepare it once, then sample it at any progress:
//
//	m := motion.Seq(
//		motion.Duration(0.25, motion.To(0, 50)),
//		motion.Duration(0.75, motion.To(100)),
//	)
//
//	p, err := motion.Prepare(m, motion.PrepareConfig{})
//	if err != nil { ... }
//
//	v, _ := p.At(0.5) // 66.66…, halfway into the second leg
//
// Sampling is pure: the same progress always yields the same value, and
// out-of-order or repeated sampling is fine. Driving progress from a clock
// is the caller's job — or use a [Controller] and call [Controller.Update]
// once per frame, which tweens progress over the resolved duration (via
// [gween]).
//
// # Values
//
// Motions animate [Value]s: numbers, []float64, []Value, map[string]Value,
// and any type registered with [RegisterLerp] or implementing
// [Interpolable]. Unregistered atomic values (strings, bools) step from a
// to b at the end of their segment. Composite values interpolate
// structurally and must agree in shape, else [ErrMismatchedShape].
//
// # Timing
//
// Motions carry no timing of their own; attach it with [With] or the
// shorthands [Duration], [RelDuration], [Delay], [RelDelay], and [Curved].
// Absolute durations anchor the schedule; relative fractions resolve
// against the nearest enclosing span. When nothing anchors the tree, the
// schedule is laid out proportionally on a unit span and
// [Prepared.Duration] reports unknown.
//
// # Side effects
//
// [Action] plants a named callback at a point on the timeline. Callbacks
// never run during sampling; [Prepared.Effects] returns the ones crossed
// by a progress window and the caller (or [Controller.SetProgress]) fires
// them. Forward windows are half-open (from, to], backward [to, from).
//
// # Scripts
//
// [ParseScript] builds motion trees from YAML documents — curve names,
// timing keys, and action bindings included — and a [Library] keeps named
// motions for reuse across scripts.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package motion
