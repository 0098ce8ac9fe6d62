package motion

import "reflect"

// Structural equality. Equal motions describe the same animation and may
// share a prepared schedule; [Controller.SetMotion] uses this to skip
// recompilation when an immediate-mode caller rebuilds an identical tree
// every frame.

func (m *toMotion) Equal(other Motion) bool {
	o, ok := other.(*toMotion)
	return ok && m.hasStart == o.hasStart &&
		valueEqual(m.start, o.start) &&
		valueSlicesEqual(m.targets, o.targets)
}

func (m *constMotion) Equal(other Motion) bool {
	o, ok := other.(*constMotion)
	return ok && valueSlicesEqual(m.values, o.values)
}

func (m *waitMotion) Equal(other Motion) bool {
	o, ok := other.(*waitMotion)
	return ok && m.d == o.d
}

func (m *seqMotion) Equal(other Motion) bool {
	o, ok := other.(*seqMotion)
	return ok && motionsEqual(m.children, o.children)
}

func (m *parMotion) Equal(other Motion) bool {
	o, ok := other.(*parMotion)
	if !ok || (m.keys == nil) != (o.keys == nil) {
		return false
	}
	if m.keys != nil {
		if len(m.keys) != len(o.keys) {
			return false
		}
		for i := range m.keys {
			if m.keys[i] != o.keys[i] {
				return false
			}
		}
	}
	return motionsEqual(m.children, o.children)
}

func (m *repeatMotion) Equal(other Motion) bool {
	o, ok := other.(*repeatMotion)
	return ok && m.count == o.count && m.child.Equal(o.child)
}

func (m *autoreverseMotion) Equal(other Motion) bool {
	o, ok := other.(*autoreverseMotion)
	return ok && m.child.Equal(o.child)
}

func (m *tileMotion) Equal(other Motion) bool {
	o, ok := other.(*tileMotion)
	return ok && m.child.Equal(o.child)
}

func (m *mapMotion) Equal(other Motion) bool {
	o, ok := other.(*mapMotion)
	return ok && funcEqual(m.fn, o.fn) && m.child.Equal(o.child)
}

func (m *withMotion) Equal(other Motion) bool {
	o, ok := other.(*withMotion)
	return ok && timingEqual(m.timing, o.timing) && m.child.Equal(o.child)
}

// Actions compare by id alone: callbacks are rebuilt closures in
// immediate-mode callers, and comparing them by identity would make every
// rebuilt tree unequal.
func (m *actionMotion) Equal(other Motion) bool {
	o, ok := other.(*actionMotion)
	return ok && m.id == o.id
}

func (m *syncedMotion) Equal(other Motion) bool {
	o, ok := other.(*syncedMotion)
	return ok && m.child.Equal(o.child)
}

func motionsEqual(a, b []Motion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func valueSlicesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func timingEqual(a, b Timing) bool {
	return floatPtrEqual(a.Duration, b.Duration) &&
		floatPtrEqual(a.RelDuration, b.RelDuration) &&
		floatPtrEqual(a.Delay, b.Delay) &&
		floatPtrEqual(a.RelDelay, b.RelDelay) &&
		curveEqual(a.Curve, b.Curve)
}

// curveEqual compares curves by code identity, refined by sampling.
// Closures built from one literal share a code pointer (every [Ease]
// adapter does), so same-pointer curves are probed at a few points to
// tell different easings apart. Curves are pure by contract, so probing
// is safe.
var curveProbes = [...]float64{0.25, 0.5, 0.75}

func curveEqual(a, b Curve) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.ValueOf(a).Pointer() != reflect.ValueOf(b).Pointer() {
		return false
	}
	for _, t := range curveProbes {
		if a(t) != b(t) {
			return false
		}
	}
	return true
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// funcEqual compares functions by identity. Two closures from the same
// function literal share an identity; distinct literals never do.
func funcEqual(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.IsNil() || bv.IsNil() {
		return av.IsNil() && bv.IsNil()
	}
	return av.Pointer() == bv.Pointer()
}
