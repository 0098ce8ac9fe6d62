package motion

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// --- Describe ---

func (m *toMotion) String() string          { return describe(m) }
func (m *constMotion) String() string       { return describe(m) }
func (m *waitMotion) String() string        { return describe(m) }
func (m *seqMotion) String() string         { return describe(m) }
func (m *parMotion) String() string         { return describe(m) }
func (m *repeatMotion) String() string      { return describe(m) }
func (m *autoreverseMotion) String() string { return describe(m) }
func (m *tileMotion) String() string        { return describe(m) }
func (m *mapMotion) String() string         { return describe(m) }
func (m *withMotion) String() string        { return describe(m) }
func (m *actionMotion) String() string      { return describe(m) }
func (m *syncedMotion) String() string      { return describe(m) }

func describe(m Motion) string {
	var sb strings.Builder
	writeMotion(&sb, m)
	return sb.String()
}

func writeMotion(sb *strings.Builder, m Motion) {
	switch v := m.(type) {
	case *toMotion:
		if v.hasStart {
			sb.WriteString("(from ")
			sb.WriteString(formatValue(v.start))
		} else {
			sb.WriteString("(to")
		}
		for _, t := range v.targets {
			sb.WriteByte(' ')
			sb.WriteString(formatValue(t))
		}
		sb.WriteByte(')')
	case *constMotion:
		sb.WriteString("(const")
		for _, x := range v.values {
			sb.WriteByte(' ')
			sb.WriteString(formatValue(x))
		}
		sb.WriteByte(')')
	case *waitMotion:
		sb.WriteString("(wait ")
		sb.WriteString(formatFloat(v.d))
		sb.WriteByte(')')
	case *seqMotion:
		sb.WriteString("(seq")
		for _, c := range v.children {
			sb.WriteByte(' ')
			writeMotion(sb, c)
		}
		sb.WriteByte(')')
	case *parMotion:
		sb.WriteString("(par")
		for i, c := range v.children {
			if v.keys != nil {
				sb.WriteString(" :")
				sb.WriteString(v.keys[i])
			}
			sb.WriteByte(' ')
			writeMotion(sb, c)
		}
		sb.WriteByte(')')
	case *repeatMotion:
		sb.WriteString("(repeat ")
		sb.WriteString(strconv.Itoa(v.count))
		sb.WriteByte(' ')
		writeMotion(sb, v.child)
		sb.WriteByte(')')
	case *autoreverseMotion:
		writeWrapped(sb, "autoreverse", v.child)
	case *tileMotion:
		writeWrapped(sb, "tile", v.child)
	case *mapMotion:
		writeWrapped(sb, "map", v.child)
	case *withMotion:
		writeTiming(sb, v)
	case *actionMotion:
		sb.WriteString("(action! :")
		sb.WriteString(v.id)
		sb.WriteByte(')')
	case *syncedMotion:
		writeWrapped(sb, "synced", v.child)
	}
}

func writeWrapped(sb *strings.Builder, name string, child Motion) {
	sb.WriteByte('(')
	sb.WriteString(name)
	sb.WriteByte(' ')
	writeMotion(sb, child)
	sb.WriteByte(')')
}

// writeTiming renders a timing wrapper as nested single-hint forms,
// outermost to innermost: delay, rel-delay, duration, rel-duration,
// curve. "(delay 10 (duration 100 (to 1)))" is one wrapper carrying both
// hints.
func writeTiming(sb *strings.Builder, v *withMotion) {
	t := v.timing
	closers := 0
	open := func(name string, val *float64) {
		if val == nil {
			return
		}
		sb.WriteByte('(')
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(formatFloat(*val))
		sb.WriteByte(' ')
		closers++
	}
	open("delay", t.Delay)
	open("rel-delay", t.RelDelay)
	open("duration", t.Duration)
	open("rel-duration", t.RelDuration)
	if t.Curve != nil {
		sb.WriteString("(curve ")
		closers++
	}
	writeMotion(sb, v.child)
	for ; closers > 0; closers-- {
		sb.WriteByte(')')
	}
}

func formatValue(v Value) string {
	if v == nil {
		return "nil"
	}
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = formatFloat(f)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case []Value:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case map[string]float64:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range sortedKeys(x) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(':')
			sb.WriteString(k)
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(x[k]))
		}
		sb.WriteByte('}')
		return sb.String()
	case map[string]Value:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range sortedKeys(x) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(':')
			sb.WriteString(k)
			sb.WriteByte(' ')
			sb.WriteString(formatValue(x[k]))
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return fmt.Sprintf("%v", v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// --- Hash ---

// Hash returns a cache key for m: FNV-1a over the description plus the
// identities of its curves and map functions. Motions that compare
// [Motion.Equal] hash identically. Stable within a process, not across
// processes (function identities differ).
func Hash(m Motion) uint64 {
	h := fnv.New64a()
	io.WriteString(h, m.String())
	hashFuncs(h, m)
	return h.Sum64()
}

func hashFuncs(h hash.Hash64, m Motion) {
	switch v := m.(type) {
	case *seqMotion:
		for _, c := range v.children {
			hashFuncs(h, c)
		}
	case *parMotion:
		for _, c := range v.children {
			hashFuncs(h, c)
		}
	case *repeatMotion:
		hashFuncs(h, v.child)
	case *autoreverseMotion:
		hashFuncs(h, v.child)
	case *tileMotion:
		hashFuncs(h, v.child)
	case *syncedMotion:
		hashFuncs(h, v.child)
	case *mapMotion:
		hashPointer(h, reflect.ValueOf(v.fn).Pointer())
		hashFuncs(h, v.child)
	case *withMotion:
		if v.timing.Curve != nil {
			hashPointer(h, reflect.ValueOf(v.timing.Curve).Pointer())
		}
		hashFuncs(h, v.child)
	}
}

func hashPointer(h hash.Hash64, p uintptr) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(p))
	h.Write(buf[:])
}
