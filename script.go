package motion

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScriptOptions configures [ParseScript].
type ScriptOptions struct {
	// Actions binds action ids to callbacks. Every action id used by the
	// script must have an entry; an explicit nil entry declares a
	// marker-only action.
	Actions map[string]func()

	// Library resolves ref nodes. A script without refs needs none.
	Library *Library

	// Curves adds named curves, consulted before the built-in table
	// (see [CurveNamed]).
	Curves map[string]Curve
}

// ParseScript builds a [Motion] from a YAML document, so motion design
// can live in data files next to the art instead of in code. Every
// parse error wraps [ErrBadScript] and carries the line number.
//
// A node is a mapping with exactly one motion key — to, from, const,
// wait, seq, par, tracks, repeat, autoreverse, tile, synced, action,
// ref — plus optional timing keys (duration, rel-duration, delay,
// rel-delay, curve) and count for repeat:
//
//	seq:
//	  - to: [0, 50]
//	    duration: 25
//	  - to: [100]
//	    duration: 75
//	    curve: out-quad
//	  - action: arrived
//
// Checkpoint payloads are lists; a bare scalar is shorthand for a
// one-element list, and vector checkpoints nest ([[0, 0], [40, 20]]).
// tracks maps names to motions and builds a [ParKeyed]; par takes a
// list and keeps its order. YAML anchors and aliases work as usual for
// repeated fragments.
func ParseScript(data []byte, opts ScriptOptions) (Motion, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadScript, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrBadScript)
	}
	p := scriptParser{opts: opts}
	return p.motion(doc.Content[0])
}

type scriptParser struct {
	opts ScriptOptions
}

// motionKeys is the closed set of structural keys; exactly one per node.
var motionKeys = map[string]bool{
	"to": true, "from": true, "const": true, "wait": true,
	"seq": true, "par": true, "tracks": true, "repeat": true,
	"autoreverse": true, "tile": true, "synced": true,
	"action": true, "ref": true,
}

func (p scriptParser) motion(n *yaml.Node) (Motion, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, p.errf(n, "expected a motion mapping, got %s", kindName(n))
	}

	var kind string
	var payload *yaml.Node
	var countNode *yaml.Node
	var timing Timing
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if seen[k.Value] {
			return nil, p.errf(k, "duplicate key %q", k.Value)
		}
		seen[k.Value] = true
		switch {
		case motionKeys[k.Value]:
			if kind != "" {
				return nil, p.errf(k, "both %q and %q given; one motion per mapping", kind, k.Value)
			}
			kind, payload = k.Value, v
		case k.Value == "count":
			countNode = v
		case k.Value == "duration":
			f, err := p.float(v, "duration")
			if err != nil {
				return nil, err
			}
			timing.Duration = &f
		case k.Value == "rel-duration":
			f, err := p.float(v, "rel-duration")
			if err != nil {
				return nil, err
			}
			timing.RelDuration = &f
		case k.Value == "delay":
			f, err := p.float(v, "delay")
			if err != nil {
				return nil, err
			}
			timing.Delay = &f
		case k.Value == "rel-delay":
			f, err := p.float(v, "rel-delay")
			if err != nil {
				return nil, err
			}
			timing.RelDelay = &f
		case k.Value == "curve":
			c, err := p.curve(v)
			if err != nil {
				return nil, err
			}
			timing.Curve = c
		default:
			return nil, p.errf(k, "unknown key %q", k.Value)
		}
	}
	if kind == "" {
		return nil, p.errf(n, "no motion key (to, seq, par, ...)")
	}
	if countNode != nil && kind != "repeat" {
		return nil, p.errf(countNode, "count outside repeat")
	}
	if timing.Duration != nil && timing.RelDuration != nil {
		return nil, p.errf(n, "both duration and rel-duration given")
	}
	if timing.Delay != nil && timing.RelDelay != nil {
		return nil, p.errf(n, "both delay and rel-delay given")
	}

	m, err := p.build(kind, payload, countNode)
	if err != nil {
		return nil, err
	}
	return With(timing, m), nil
}

func (p scriptParser) build(kind string, payload, countNode *yaml.Node) (Motion, error) {
	switch kind {
	case "to":
		vals, err := p.values(payload)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return nil, p.errf(payload, "to needs at least one checkpoint")
		}
		return To(vals...), nil
	case "from":
		vals, err := p.values(payload)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return nil, p.errf(payload, "from needs a start value")
		}
		return From(vals[0], vals[1:]...), nil
	case "const":
		vals, err := p.values(payload)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return nil, p.errf(payload, "const needs at least one value")
		}
		return Const(vals...), nil
	case "wait":
		d, err := p.float(payload, "wait")
		if err != nil {
			return nil, err
		}
		return Wait(d), nil
	case "seq":
		children, err := p.motions(payload)
		if err != nil {
			return nil, err
		}
		return Seq(children...), nil
	case "par":
		children, err := p.motions(payload)
		if err != nil {
			return nil, err
		}
		return Par(children...), nil
	case "tracks":
		tracks, err := p.tracks(payload)
		if err != nil {
			return nil, err
		}
		return ParKeyed(tracks), nil
	case "repeat":
		if countNode == nil {
			return nil, p.errf(payload, "repeat needs count")
		}
		count, err := p.int(countNode, "count")
		if err != nil {
			return nil, err
		}
		child, err := p.motion(payload)
		if err != nil {
			return nil, err
		}
		return Repeat(count, child), nil
	case "autoreverse":
		child, err := p.motion(payload)
		if err != nil {
			return nil, err
		}
		return Autoreverse(child), nil
	case "tile":
		child, err := p.motion(payload)
		if err != nil {
			return nil, err
		}
		return Tile(child), nil
	case "synced":
		child, err := p.motion(payload)
		if err != nil {
			return nil, err
		}
		return Synced(child), nil
	case "action":
		id, err := p.scalar(payload, "action id")
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, p.errf(payload, "empty action id")
		}
		fn, bound := p.opts.Actions[id]
		if !bound {
			return nil, p.errf(payload, "unbound action %q", id)
		}
		return Action(id, fn), nil
	case "ref":
		name, err := p.scalar(payload, "ref name")
		if err != nil {
			return nil, err
		}
		if p.opts.Library == nil {
			return nil, p.errf(payload, "ref %q with no library", name)
		}
		m, err := p.opts.Library.Get(name)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadScript, payload.Line, err)
		}
		return m, nil
	}
	return nil, p.errf(payload, "unhandled motion key %q", kind)
}

func (p scriptParser) motions(n *yaml.Node) ([]Motion, error) {
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		return nil, p.errf(n, "expected a list of motions, got %s", kindName(n))
	}
	out := make([]Motion, len(n.Content))
	for i, el := range n.Content {
		m, err := p.motion(el)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func (p scriptParser) tracks(n *yaml.Node) (map[string]Motion, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, p.errf(n, "expected a mapping of tracks, got %s", kindName(n))
	}
	out := make(map[string]Motion, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Value == "" {
			return nil, p.errf(k, "empty track name")
		}
		if _, dup := out[k.Value]; dup {
			return nil, p.errf(k, "duplicate track %q", k.Value)
		}
		m, err := p.motion(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out[k.Value] = m
	}
	if len(out) == 0 {
		return nil, p.errf(n, "tracks needs at least one track")
	}
	return out, nil
}

func (p scriptParser) values(n *yaml.Node) ([]Value, error) {
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		v, err := p.value(n)
		if err != nil {
			return nil, err
		}
		return []Value{v}, nil
	}
	out := make([]Value, len(n.Content))
	for i, el := range n.Content {
		v, err := p.value(el)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p scriptParser) value(n *yaml.Node) (Value, error) {
	n = deref(n)
	switch n.Kind {
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, p.errf(n, "bad value: %v", err)
		}
		if v == nil {
			return nil, p.errf(n, "null value")
		}
		return v, nil
	case yaml.SequenceNode:
		out := make([]Value, len(n.Content))
		for i, el := range n.Content {
			v, err := p.value(el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := p.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	}
	return nil, p.errf(n, "unsupported value (%s)", kindName(n))
}

func (p scriptParser) float(n *yaml.Node, key string) (float64, error) {
	n = deref(n)
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, p.errf(n, "%s wants a number: %v", key, err)
	}
	if f < 0 {
		return 0, p.errf(n, "negative %s", key)
	}
	return f, nil
}

func (p scriptParser) int(n *yaml.Node, key string) (int, error) {
	n = deref(n)
	var i int
	if err := n.Decode(&i); err != nil {
		return 0, p.errf(n, "%s wants an integer: %v", key, err)
	}
	return i, nil
}

func (p scriptParser) scalar(n *yaml.Node, what string) (string, error) {
	n = deref(n)
	if n.Kind != yaml.ScalarNode {
		return "", p.errf(n, "%s wants a scalar, got %s", what, kindName(n))
	}
	return n.Value, nil
}

func (p scriptParser) curve(n *yaml.Node) (Curve, error) {
	name, err := p.scalar(n, "curve")
	if err != nil {
		return nil, err
	}
	if c, ok := p.opts.Curves[name]; ok {
		return c, nil
	}
	if c, ok := CurveNamed(name); ok {
		return c, nil
	}
	return nil, p.errf(n, "unknown curve %q", name)
}

func (p scriptParser) errf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrBadScript, n.Line, fmt.Sprintf(format, args...))
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
