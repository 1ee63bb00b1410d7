// Package ll is the low-level dialect: explicit stack slots, loads and
// stores, and flat arithmetic that maps one to one onto LLVM IR.
package ll

import (
	"fmt"
	"strings"

	"hilo/internal/ir"
)

// PointerType is an opaque-free pointer to Elem.
type PointerType struct {
	Elem ir.Type
}

func (t *PointerType) String() string { return fmt.Sprintf("!ll.ptr<%s>", t.Elem) }

// ArrayType is a fixed-length array.
type ArrayType struct {
	Len  int64
	Elem ir.Type
}

func (t *ArrayType) String() string { return fmt.Sprintf("!ll.array<%d x %s>", t.Len, t.Elem) }

// VoidType is the result type of functions returning nothing.
type VoidType struct{}

func (*VoidType) String() string { return "!ll.void" }

// Void is the shared void type.
var Void = &VoidType{}

// FuncType is a function signature with exactly one result.
type FuncType struct {
	Result   ir.Type
	Params   []ir.Type
	Variadic bool
}

func (t *FuncType) String() string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	if t.Variadic {
		parts = append(parts, "...")
	}
	return fmt.Sprintf("!ll.func<%s (%s)>", t.Result, strings.Join(parts, ", "))
}

// Pointer returns a pointer to t.
func Pointer(t ir.Type) *PointerType { return &PointerType{Elem: t} }

// IsPointer reports whether t is an ll pointer.
func IsPointer(t ir.Type) bool {
	_, ok := t.(*PointerType)
	return ok
}

// IsVoid reports whether t is the void type.
func IsVoid(t ir.Type) bool {
	_, ok := t.(*VoidType)
	return ok
}
