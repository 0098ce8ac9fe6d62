package motion

import "errors"

// Errors returned by [Lerp], [Prepare], the [Controller], and the script
// loader. Returned errors wrap these with context; test with errors.Is.
var (
	// ErrMismatchedShape reports an interpolation between composite
	// values that disagree in length, key set, or container kind.
	ErrMismatchedShape = errors.New("mismatched value shapes")

	// ErrUnresolvedDuration reports a schedule that needs an absolute
	// duration where none could be resolved (a [Tile] with no anchored
	// span, or a Tile child with unknown duration).
	ErrUnresolvedDuration = errors.New("unresolved duration")

	// ErrDisposed reports use of a [Controller] after [Controller.Dispose].
	ErrDisposed = errors.New("controller disposed")

	// ErrNotFound reports a [Library] lookup or script ref with no
	// registered motion.
	ErrNotFound = errors.New("motion not found")

	// ErrBadScript reports a motion script that parsed as YAML but does
	// not describe a motion (unknown node kind, unknown curve name,
	// unbound action, malformed timing).
	ErrBadScript = errors.New("invalid motion script")
)
