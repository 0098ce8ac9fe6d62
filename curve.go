package motion

import "github.com/tanema/gween/ease"

// Curve remaps normalized progress. Inputs arrive clamped to [0, 1];
// outputs may overshoot (back, elastic), which [To] extrapolates through
// its end segments. A nil Curve means [Linear].
//
// Curves must be pure. [Motion.Equal] compares them by function
// identity, probing a few sample points when identities coincide, so
// build a curve once and reuse the value; [CurveNamed] always returns
// the same instance for a name.
type Curve func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// Ease adapts a [gween] easing function to a [Curve].
//
// Each call returns a distinct function value; when [Motion.Equal] is
// used for change detection, adapt once and reuse (or use [CurveNamed]).
//
// [gween]: https://github.com/tanema/gween
func Ease(fn ease.TweenFunc) Curve {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// curves is the stable named-curve table. Names follow the describe
// register: kebab-case gween easing names.
var curves = map[string]Curve{
	"linear":         Linear,
	"in-quad":        Ease(ease.InQuad),
	"out-quad":       Ease(ease.OutQuad),
	"in-out-quad":    Ease(ease.InOutQuad),
	"in-cubic":       Ease(ease.InCubic),
	"out-cubic":      Ease(ease.OutCubic),
	"in-out-cubic":   Ease(ease.InOutCubic),
	"in-quart":       Ease(ease.InQuart),
	"out-quart":      Ease(ease.OutQuart),
	"in-out-quart":   Ease(ease.InOutQuart),
	"in-quint":       Ease(ease.InQuint),
	"out-quint":      Ease(ease.OutQuint),
	"in-out-quint":   Ease(ease.InOutQuint),
	"in-sine":        Ease(ease.InSine),
	"out-sine":       Ease(ease.OutSine),
	"in-out-sine":    Ease(ease.InOutSine),
	"in-expo":        Ease(ease.InExpo),
	"out-expo":       Ease(ease.OutExpo),
	"in-out-expo":    Ease(ease.InOutExpo),
	"in-circ":        Ease(ease.InCirc),
	"out-circ":       Ease(ease.OutCirc),
	"in-out-circ":    Ease(ease.InOutCirc),
	"in-back":        Ease(ease.InBack),
	"out-back":       Ease(ease.OutBack),
	"in-out-back":    Ease(ease.InOutBack),
	"in-bounce":      Ease(ease.InBounce),
	"out-bounce":     Ease(ease.OutBounce),
	"in-out-bounce":  Ease(ease.InOutBounce),
	"in-elastic":     Ease(ease.InElastic),
	"out-elastic":    Ease(ease.OutElastic),
	"in-out-elastic": Ease(ease.InOutElastic),
}

// CurveNamed returns the curve registered under name ("linear",
// "out-cubic", "in-out-elastic", ...). The same name always returns the
// same instance, so named curves are change-detection friendly.
func CurveNamed(name string) (Curve, bool) {
	c, ok := curves[name]
	return c, ok
}

// CurveNames returns the sorted names accepted by [CurveNamed].
func CurveNames() []string {
	return sortedKeys(curves)
}
