// Package hl is the high-level dialect: structured, C-like operations whose
// variables are lvalues and whose casts name their conversion kind.
package hl

import (
	"fmt"
	"strings"

	"hilo/internal/ir"
)

// LValueType is an addressable location holding Elem.
type LValueType struct {
	Elem ir.Type
}

func (t *LValueType) String() string { return fmt.Sprintf("!hl.lvalue<%s>", t.Elem) }

// PointerType is a C pointer to Elem.
type PointerType struct {
	Elem ir.Type
}

func (t *PointerType) String() string { return fmt.Sprintf("!hl.ptr<%s>", t.Elem) }

// ArrayType is a ranked array; Shape is outermost dimension first.
type ArrayType struct {
	Shape []int64
	Elem  ir.Type
}

func (t *ArrayType) String() string {
	dims := make([]string, len(t.Shape))
	for i, d := range t.Shape {
		dims[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("!hl.array<%sx%s>", strings.Join(dims, "x"), t.Elem)
}

// UnrankedArrayType is an array of unknown extent.
type UnrankedArrayType struct {
	Elem ir.Type
}

func (t *UnrankedArrayType) String() string { return fmt.Sprintf("!hl.array<*x%s>", t.Elem) }

// RecordType names a struct or union by its canonical tag name.
type RecordType struct {
	Name string
}

func (t *RecordType) String() string { return fmt.Sprintf("!hl.record<%q>", t.Name) }

// LValue wraps t in an lvalue.
func LValue(t ir.Type) *LValueType { return &LValueType{Elem: t} }

// Pointer wraps t in a pointer.
func Pointer(t ir.Type) *PointerType { return &PointerType{Elem: t} }

// IsLValue reports whether t is an lvalue type.
func IsLValue(t ir.Type) bool {
	_, ok := t.(*LValueType)
	return ok
}

// StripLValue returns the element of an lvalue type, or t itself.
func StripLValue(t ir.Type) ir.Type {
	if lv, ok := t.(*LValueType); ok {
		return lv.Elem
	}
	return t
}

// Flatten returns the shape and scalar element of a (possibly nested) array.
func (t *ArrayType) Flatten() ([]int64, ir.Type) {
	shape := append([]int64(nil), t.Shape...)
	elem := t.Elem
	for {
		inner, ok := elem.(*ArrayType)
		if !ok {
			return shape, elem
		}
		shape = append(shape, inner.Shape...)
		elem = inner.Elem
	}
}
