package motion

import (
	"fmt"
	"reflect"
	"slices"

	"golang.org/x/exp/maps"
)

// Value is any animatable value. Numbers interpolate linearly (integers
// are normalized to float64 on construction), []float64, []Value,
// map[string]float64, and map[string]Value interpolate structurally
// element by element, and custom types interpolate through [RegisterLerp]
// or [Interpolable]. Anything else is atomic: it steps from a to b at the
// end of its segment.
type Value = any

// LerpFunc interpolates between two values of one registered type.
// t is usually within [0, 1] but may overshoot when a curve does.
type LerpFunc func(a, b Value, t float64) (Value, error)

// Interpolable values interpolate themselves. Implementations should
// return a value of their own type and are responsible for checking that
// to matches.
type Interpolable interface {
	Lerp(to Value, t float64) (Value, error)
}

// Registered custom lerps, keyed by concrete type. The package is
// single-threaded (one motion world per goroutine), so no lock.
var lerpRegistry = map[reflect.Type]LerpFunc{}

// RegisterLerp registers fn as the interpolator for prototype's concrete
// type, replacing any previous registration. Registered types take
// precedence over [Interpolable] and over the built-in shapes, and are
// exempt from value normalization.
func RegisterLerp(prototype Value, fn LerpFunc) {
	if prototype == nil {
		panic("motion: RegisterLerp with nil prototype")
	}
	if fn == nil {
		panic("motion: RegisterLerp with nil func")
	}
	lerpRegistry[reflect.TypeOf(prototype)] = fn
}

// Lerp interpolates between a and b at t. Composite values must agree in
// shape (same length, same key set, same container kind) or Lerp returns
// [ErrMismatchedShape]. Atomic values ignore t except for the step at
// t >= 1.
func Lerp(a, b Value, t float64) (Value, error) {
	if a == nil && b == nil {
		return nil, nil
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil and %T", ErrMismatchedShape, pick(a, b))
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if fn, ok := lerpRegistry[ta]; ok {
		if ta != tb {
			return nil, fmt.Errorf("%w: %T and %T", ErrMismatchedShape, a, b)
		}
		return fn(a, b, t)
	}
	if _, ok := lerpRegistry[tb]; ok {
		return nil, fmt.Errorf("%w: %T and %T", ErrMismatchedShape, a, b)
	}
	if ia, ok := a.(Interpolable); ok {
		return ia.Lerp(b, t)
	}

	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return nil, fmt.Errorf("%w: number and %T", ErrMismatchedShape, b)
		}
		return fa + (fb-fa)*t, nil
	}

	switch av := a.(type) {
	case []float64:
		bv, ok := b.([]float64)
		if !ok {
			return nil, fmt.Errorf("%w: []float64 and %T", ErrMismatchedShape, b)
		}
		if len(av) != len(bv) {
			return nil, fmt.Errorf("%w: slice lengths %d and %d", ErrMismatchedShape, len(av), len(bv))
		}
		out := make([]float64, len(av))
		for i := range av {
			out[i] = av[i] + (bv[i]-av[i])*t
		}
		return out, nil
	case []Value:
		bv, ok := b.([]Value)
		if !ok {
			return nil, fmt.Errorf("%w: []motion.Value and %T", ErrMismatchedShape, b)
		}
		if len(av) != len(bv) {
			return nil, fmt.Errorf("%w: slice lengths %d and %d", ErrMismatchedShape, len(av), len(bv))
		}
		out := make([]Value, len(av))
		for i := range av {
			v, err := Lerp(av[i], bv[i], t)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case map[string]float64:
		bv, ok := b.(map[string]float64)
		if !ok {
			return nil, fmt.Errorf("%w: map[string]float64 and %T", ErrMismatchedShape, b)
		}
		if err := checkKeys(av, bv); err != nil {
			return nil, err
		}
		out := make(map[string]float64, len(av))
		for k, x := range av {
			out[k] = x + (bv[k]-x)*t
		}
		return out, nil
	case map[string]Value:
		bv, ok := b.(map[string]Value)
		if !ok {
			return nil, fmt.Errorf("%w: map[string]motion.Value and %T", ErrMismatchedShape, b)
		}
		if err := checkKeys(av, bv); err != nil {
			return nil, err
		}
		out := make(map[string]Value, len(av))
		for _, k := range sortedKeys(av) {
			v, err := Lerp(av[k], bv[k], t)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = v
		}
		return out, nil
	}

	if structural(b) {
		return nil, fmt.Errorf("%w: %T and %T", ErrMismatchedShape, a, b)
	}
	if _, ok := toFloat(b); ok {
		return nil, fmt.Errorf("%w: %T and number", ErrMismatchedShape, a)
	}
	// Atomic step: hold a until the segment completes.
	if t < 1 {
		return a, nil
	}
	return b, nil
}

func pick(a, b Value) Value {
	if a != nil {
		return a
	}
	return b
}

func structural(v Value) bool {
	switch v.(type) {
	case []float64, []Value, map[string]float64, map[string]Value:
		return true
	}
	return false
}

func checkKeys[V any](a, b map[string]V) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: map sizes %d and %d", ErrMismatchedShape, len(a), len(b))
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return fmt.Errorf("%w: key %q missing on one side", ErrMismatchedShape, k)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// --- Normalization ---

// normalizeValue canonicalizes values stored in motions and supplied as
// initial values: numbers become float64, numeric slices/maps collapse to
// []float64/map[string]float64, mixed ones to []Value/map[string]Value,
// and containers are copied so the motion stays immutable. Registered and
// Interpolable types pass through untouched.
func normalizeValue(v Value) Value {
	if v == nil {
		return nil
	}
	if _, ok := lerpRegistry[reflect.TypeOf(v)]; ok {
		return v
	}
	if _, ok := v.(Interpolable); ok {
		return v
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	switch vv := v.(type) {
	case []float64:
		return slices.Clone(vv)
	case []float32:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out
	case []int:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out
	case []Value:
		return normalizeSlice(vv)
	case map[string]float64:
		return maps.Clone(vv)
	case map[string]Value:
		return normalizeMap(vv)
	}
	return v
}

func normalizeSlice(vv []Value) Value {
	out := make([]Value, len(vv))
	numeric := true
	for i, x := range vv {
		out[i] = normalizeValue(x)
		if _, ok := out[i].(float64); !ok {
			numeric = false
		}
	}
	if !numeric {
		return out
	}
	fs := make([]float64, len(out))
	for i, x := range out {
		fs[i] = x.(float64)
	}
	return fs
}

func normalizeMap(vv map[string]Value) Value {
	out := make(map[string]Value, len(vv))
	numeric := true
	for k, x := range vv {
		out[k] = normalizeValue(x)
		if _, ok := out[k].(float64); !ok {
			numeric = false
		}
	}
	if !numeric {
		return out
	}
	fs := make(map[string]float64, len(out))
	for k, x := range out {
		fs[k] = x.(float64)
	}
	return fs
}

func normalizeValues(vs []Value) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = normalizeValue(v)
	}
	return out
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// --- Equality ---

// valueEqual compares normalized values exactly: float64 by ==, composite
// shapes element by element, everything else by reflect.DeepEqual.
func valueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := a.(float64); ok {
		fb, ok := b.(float64)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case []float64:
		bv, ok := b.([]float64)
		return ok && slices.Equal(av, bv)
	case []Value:
		bv, ok := b.([]Value)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]float64:
		bv, ok := b.(map[string]float64)
		return ok && maps.Equal(av, bv)
	case map[string]Value:
		bv, ok := b.(map[string]Value)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !valueEqual(x, y) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
