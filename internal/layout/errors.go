package layout

import (
	"fmt"
	"strings"
)

// ErrorKind classifies layout failures.
type ErrorKind uint8

const (
	// RecursiveRecord is a record that contains itself by value.
	RecursiveRecord ErrorKind = iota + 1
	NegativeLength
	// Incomplete covers void, function types and arrays of unknown length.
	Incomplete
)

// Error is returned by LayoutOf. Cycle is set for RecursiveRecord and
// Length for NegativeLength.
type Error struct {
	Kind   ErrorKind
	Type   string
	Cycle  []string
	Length int64
}

func (e *Error) Error() string {
	switch e.Kind {
	case RecursiveRecord:
		return "record " + e.Type + " contains itself by value: " + strings.Join(e.Cycle, " -> ")
	case NegativeLength:
		return fmt.Sprintf("array %s has negative length %d", e.Type, e.Length)
	case Incomplete:
		return "type " + e.Type + " is incomplete and has no layout"
	}
	return fmt.Sprintf("layout of %s failed (kind %d)", e.Type, e.Kind)
}
