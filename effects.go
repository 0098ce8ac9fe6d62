package motion

import "math"

// Effect is a side-effect marker placed on a prepared timeline. Markers
// are expanded once at prepare time; [Prepared.Effects] returns the ones
// a progress move crossed and the caller fires them.
type Effect struct {
	// ID is the action identifier, unique or not as the author chose.
	ID string
	// At is the marker's position on the timeline, in [0, 1].
	At float64
	// Fn is the bound callback; nil for marker-only actions.
	Fn func()
}

// Invoke runs the bound callback, if any.
func (e Effect) Invoke() {
	if e.Fn != nil {
		e.Fn()
	}
}

// markEps absorbs float drift when positioning markers against window
// edges and the autoreverse apex.
const markEps = 1e-9

// clipRange bounds marker positions on the root timeline. Par and Tile
// can hand a child a window shorter than the child's own schedule;
// markers past the reachable part are never delivered, so they are
// dropped at expansion.
type clipRange struct {
	lo, hi float64
}

func (c clipRange) contains(x float64) bool {
	return x >= c.lo-markEps && x <= c.hi+markEps
}

func (c clipRange) narrow(a, b float64) clipRange {
	if a > b {
		a, b = b, a
	}
	if a > c.lo {
		c.lo = a
	}
	if b < c.hi {
		c.hi = b
	}
	return c
}

// collectMarks walks the resolved schedule emitting markers in tree
// order. base and scale map a node's local progress onto the root
// timeline; scale is negative inside the mirrored half of an
// [Autoreverse].
func collectMarks(s *sched, base, scale float64, clip clipRange, out *[]Effect) {
	switch v := s.m.(type) {
	case *actionMotion:
		if clip.contains(base) {
			at := base
			if at < 0 {
				at = 0
			} else if at > 1 {
				at = 1
			}
			*out = append(*out, Effect{ID: v.id, At: at, Fn: v.fn})
		}
	case *seqMotion:
		for i, kid := range s.kids {
			w := s.wins[i]
			collectMarks(kid, base+w.from*scale, (w.to-w.from)*scale, clip, out)
		}
	case *parMotion:
		inner := clip.narrow(base, base+scale)
		for i, kid := range s.kids {
			collectMarks(kid, base, s.wins[i].to*scale, inner, out)
		}
	case *repeatMotion:
		n := int(s.cycles)
		if n == 0 {
			return
		}
		cs := scale / float64(n)
		for k := 0; k < n; k++ {
			collectMarks(s.kids[0], base+float64(k)*cs, cs, clip, out)
		}
	case *autoreverseMotion:
		half := scale / 2
		collectMarks(s.kids[0], base, half, clip, out)
		// Mirrored pass. A marker at the apex coincides with its forward
		// occurrence; one crossing, one delivery, so the duplicate is
		// dropped.
		mid := base + half
		kept := len(*out)
		collectMarks(s.kids[0], base+scale, -half, clip, out)
		w := kept
		for i := kept; i < len(*out); i++ {
			if math.Abs((*out)[i].At-mid) <= markEps {
				continue
			}
			(*out)[w] = (*out)[i]
			w++
		}
		*out = (*out)[:w]
	case *tileMotion:
		if s.cycles <= 0 {
			return
		}
		inner := clip.narrow(base, base+scale)
		cs := scale / s.cycles
		n := int(math.Ceil(s.cycles - markEps))
		for k := 0; k < n; k++ {
			collectMarks(s.kids[0], base+float64(k)*cs, cs, inner, out)
		}
	case *mapMotion:
		collectMarks(s.kids[0], base, scale, clip, out)
	case *withMotion:
		collectMarks(s.kids[0], base+s.delay*scale, s.body*scale, clip, out)
	case *syncedMotion:
		// Wall-clock driven: interior markers have no stable timeline
		// position and are not scheduled.
	}
}

// Effects returns the markers a progress move from from to to crossed,
// in tree order (document order, not timeline order). Windows are
// half-open on the start side so a marker fires exactly once across
// adjacent moves: forward moves deliver (from, to], backward moves
// [to, from). An empty move returns nil.
//
// Effects never invokes anything; the caller decides what a marker
// means. [Controller.SetProgress] invokes them as it moves.
func (p *Prepared) Effects(from, to float64) []Effect {
	if from == to || len(p.marks) == 0 {
		return nil
	}
	var out []Effect
	if from < to {
		for _, e := range p.marks {
			if e.At > from && e.At <= to {
				out = append(out, e)
			}
		}
		return out
	}
	for _, e := range p.marks {
		if e.At >= to && e.At < from {
			out = append(out, e)
		}
	}
	return out
}
