package trace

import "time"

// Kind tells span boundaries apart from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// marker is the glyph prefixed to text-formatted events.
func (k Kind) marker() string {
	switch k {
	case KindSpanBegin:
		return "→ "
	case KindSpanEnd:
		return "← "
	case KindHeartbeat:
		return "♡ "
	default:
		return "• "
	}
}

// Scope orders events from coarse to fine. A level admits every scope up
// to its deepest one.
type Scope uint8

const (
	// ScopeDriver covers one input file handled by the CLI.
	ScopeDriver Scope = iota + 1
	// ScopePass covers a pipeline phase or the conversion as a whole.
	ScopePass
	// ScopeSweep covers one walk of the conversion driver over the module.
	ScopeSweep
	// ScopePattern covers one rewrite attempt on one operation.
	ScopePattern
)

var scopeNames = [...]string{"unknown", "driver", "pass", "sweep", "pattern"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one record written by a tracer. Span end events repeat the
// span's identity so that a ring dump can be read on its own.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Name     string // "lower", "sweep#2", "hl.add"
	Detail   string
	Extra    map[string]string
}
