package motion

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// globalDebug gates debug reporting and the strict disposed-use checks.
var globalDebug bool

// SetDebug toggles debug mode for the whole package: prepares and
// controller recompiles are reported on stderr, oversized schedules get
// warnings, and using a disposed [Controller] panics at the call site
// instead of returning [ErrDisposed].
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// debugLog prints a [motion]-prefixed report to stderr.
func debugLog(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[motion] "+format+"\n", args...)
}

func debugReportPrepare(p *Prepared, errs []error) {
	if d, known := p.Duration(); known {
		debugLog("prepared %s: duration %s, %d markers", p.motion, formatFloat(d), len(p.marks))
	} else {
		debugLog("prepared %s: unanchored, %d markers", p.motion, len(p.marks))
	}
	for _, err := range errs {
		debugLog("warning: %v", err)
	}
	debugCheckMarks(p)
	debugCheckDepth(p.root)
}

// debugMaxMarks warns when marker expansion explodes; a large Repeat
// count around an Action is usually a mistake.
const debugMaxMarks = 10000

func debugCheckMarks(p *Prepared) {
	if len(p.marks) > debugMaxMarks {
		debugLog("warning: %s expands to %d markers (threshold %d)",
			p.motion, len(p.marks), debugMaxMarks)
	}
}

// debugMaxDepth warns on schedules nested past the threshold.
const debugMaxDepth = 32

func debugCheckDepth(s *sched) {
	if d := schedDepth(s); d > debugMaxDepth {
		debugLog("warning: schedule depth %d exceeds %d", d, debugMaxDepth)
	}
}

func schedDepth(s *sched) int {
	best := 0
	for _, kid := range s.kids {
		if d := schedDepth(kid); d > best {
			best = d
		}
	}
	return best + 1
}

// DebugString renders the resolved schedule, one line per node with its
// window on the prepared timeline and its span in time units when
// known, followed by the expanded markers. For debugging and tests; the
// format is not stable.
func (p *Prepared) DebugString() string {
	var sb strings.Builder
	writeSched(&sb, p.root, 0, 0, 1)
	if len(p.marks) > 0 {
		sb.WriteString("markers:")
		for _, mk := range p.marks {
			sb.WriteString(" :")
			sb.WriteString(mk.ID)
			sb.WriteByte('@')
			sb.WriteString(formatFloat(mk.At))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeSched(sb *strings.Builder, s *sched, depth int, from, to float64) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(schedHead(s))
	fmt.Fprintf(sb, " [%s, %s]", formatFloat(from), formatFloat(to))
	if s.known {
		sb.WriteString(" dur=")
		sb.WriteString(formatFloat(s.dur))
	}
	sb.WriteByte('\n')

	width := to - from
	switch s.m.(type) {
	case *seqMotion, *parMotion:
		for i, kid := range s.kids {
			w := s.wins[i]
			writeSched(sb, kid, depth+1, from+w.from*width, from+w.to*width)
		}
	case *withMotion:
		writeSched(sb, s.kids[0], depth+1, from+s.delay*width, from+(s.delay+s.body)*width)
	case *repeatMotion:
		if len(s.kids) > 0 {
			writeSched(sb, s.kids[0], depth+1, from, from+width/s.cycles)
		}
	case *autoreverseMotion:
		writeSched(sb, s.kids[0], depth+1, from, from+width/2)
	case *tileMotion:
		writeSched(sb, s.kids[0], depth+1, from, from+width/s.cycles)
	case *mapMotion, *syncedMotion:
		writeSched(sb, s.kids[0], depth+1, from, to)
	}
}

func schedHead(s *sched) string {
	switch v := s.m.(type) {
	case *seqMotion:
		return "seq"
	case *parMotion:
		if v.keys != nil {
			return "par :" + strings.Join(v.keys, " :")
		}
		return "par"
	case *repeatMotion:
		return "repeat x" + strconv.Itoa(v.count)
	case *autoreverseMotion:
		return "autoreverse"
	case *tileMotion:
		return "tile x" + strconv.FormatFloat(s.cycles, 'g', 4, 64)
	case *mapMotion:
		return "map"
	case *withMotion:
		return "with"
	case *syncedMotion:
		return "synced period=" + formatFloat(s.period)
	}
	return s.m.String()
}
