package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute is a compile-time constant attached to an operation.
type Attribute interface {
	String() string
}

// NamedAttr is a name/value pair.
type NamedAttr struct {
	Name  string
	Value Attribute
}

// IntegerAttr is a typed integer constant.
type IntegerAttr struct {
	Type  Type
	Value int64
}

func (a IntegerAttr) String() string {
	return fmt.Sprintf("%d : %s", a.Value, a.Type)
}

// StringAttr is a string constant.
type StringAttr string

func (a StringAttr) String() string { return strconv.Quote(string(a)) }

// BoolAttr is a boolean constant.
type BoolAttr bool

func (a BoolAttr) String() string { return strconv.FormatBool(bool(a)) }

// UnitAttr marks presence only.
type UnitAttr struct{}

func (UnitAttr) String() string { return "unit" }

// TypeAttr wraps a type.
type TypeAttr struct {
	Type Type
}

func (a TypeAttr) String() string { return a.Type.String() }

// SymbolRefAttr refers to a symbol by name.
type SymbolRefAttr string

func (a SymbolRefAttr) String() string { return "@" + string(a) }

// ArrayAttr is an ordered list of attributes.
type ArrayAttr []Attribute

func (a ArrayAttr) String() string {
	parts := make([]string, len(a))
	for i, el := range a {
		parts[i] = attrString(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictAttr is an ordered dictionary of named attributes.
type DictAttr []NamedAttr

func (d DictAttr) String() string {
	parts := make([]string, len(d))
	for i, na := range d {
		parts[i] = na.Name + " = " + attrString(na.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the attribute stored under name.
func (d DictAttr) Get(name string) (Attribute, bool) {
	for _, na := range d {
		if na.Name == name {
			return na.Value, true
		}
	}
	return nil, false
}

func attrString(a Attribute) string {
	if a == nil {
		return "<<null>>"
	}
	return a.String()
}
