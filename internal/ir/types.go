package ir

import (
	"fmt"
	"strings"
)

// Type is an IR type. Two types are equal when they print the same.
type Type interface {
	String() string
}

// TypeEqual reports structural equality.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// IntegerType is a signless integer of the given width.
type IntegerType struct {
	Width int
}

func (t *IntegerType) String() string { return fmt.Sprintf("i%d", t.Width) }

// IndexType is the target-sized index integer.
type IndexType struct{}

func (*IndexType) String() string { return "index" }

// NoneType is the unit type of operations without a meaningful value.
type NoneType struct{}

func (*NoneType) String() string { return "none" }

// FunctionType is the signature of a function-like operation.
type FunctionType struct {
	Inputs  []Type
	Results []Type
}

func (t *FunctionType) String() string {
	in := joinTypes(t.Inputs)
	switch len(t.Results) {
	case 0:
		return "(" + in + ") -> ()"
	case 1:
		if _, ok := t.Results[0].(*FunctionType); !ok {
			return "(" + in + ") -> " + t.Results[0].String()
		}
	}
	return "(" + in + ") -> (" + joinTypes(t.Results) + ")"
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Common builtin types.
var (
	I1    = &IntegerType{Width: 1}
	I8    = &IntegerType{Width: 8}
	I16   = &IntegerType{Width: 16}
	I32   = &IntegerType{Width: 32}
	I64   = &IntegerType{Width: 64}
	Index = &IndexType{}
	None  = &NoneType{}
)

// Int returns the integer type of the given width.
func Int(width int) *IntegerType {
	switch width {
	case 1:
		return I1
	case 8:
		return I8
	case 16:
		return I16
	case 32:
		return I32
	case 64:
		return I64
	}
	return &IntegerType{Width: width}
}

// IsNone reports whether t is the none type.
func IsNone(t Type) bool {
	_, ok := t.(*NoneType)
	return ok
}
