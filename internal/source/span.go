package source

import (
	"fmt"
)

// Span is the location tag attached to declarations and IR operations.
type Span struct {
	File  FileID
	Start Pos
	End   Pos
}

// Unknown is the location of synthesized entities.
var Unknown = Span{}

// At builds a single-point span.
func At(file FileID, line, col uint32) Span {
	p := Pos{Line: line, Col: col}
	return Span{File: file, Start: p, End: p}
}

// IsKnown reports whether the span carries a real position.
func (s Span) IsKnown() bool {
	return s.Start.IsValid()
}

func (s Span) String() string {
	if !s.IsKnown() {
		return "loc(unknown)"
	}
	if s.Start == s.End {
		return fmt.Sprintf("loc(%d:%d:%d)", s.File, s.Start.Line, s.Start.Col)
	}
	return fmt.Sprintf("loc(%d:%d:%d-%d:%d)", s.File, s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Cover returns the smallest span enclosing both spans of the same file.
func (s Span) Cover(other Span) Span {
	if !s.IsKnown() {
		return other
	}
	if !other.IsKnown() || s.File != other.File {
		return s
	}
	if less(other.Start, s.Start) {
		s.Start = other.Start
	}
	if less(s.End, other.End) {
		s.End = other.End
	}
	return s
}

func less(a, b Pos) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}
