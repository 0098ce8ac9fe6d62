package motion

import "fmt"

// Library is a registry of named motions: the reusable vocabulary that
// scripts reference with ref nodes and immediate-mode callers look up by
// name. Like the rest of the package it is single-threaded; register
// during setup, read at frame time.
type Library struct {
	motions map[string]Motion
}

// NewLibrary returns an empty registry.
func NewLibrary() *Library {
	return &Library{motions: make(map[string]Motion)}
}

// Register stores m under name, replacing any previous entry.
func (l *Library) Register(name string, m Motion) {
	if name == "" {
		panic("motion: Register with empty name")
	}
	if m == nil {
		panic("motion: Register with nil motion")
	}
	l.motions[name] = m
}

// Get returns the motion registered under name, or an error wrapping
// [ErrNotFound].
func (l *Library) Get(name string) (Motion, error) {
	m, ok := l.motions[name]
	if !ok {
		return nil, fmt.Errorf("%w: motion %q", ErrNotFound, name)
	}
	return m, nil
}

// Names returns the registered names, sorted.
func (l *Library) Names() []string {
	return sortedKeys(l.motions)
}

// Len returns the number of registered motions.
func (l *Library) Len() int { return len(l.motions) }
