package ast

import (
	"fmt"
	"strings"
)

// Type is a front-end type.
type Type interface {
	String() string
	astType()
}

// IntType is a builtin integer type.
type IntType struct {
	Bits     int
	Unsigned bool
	Spelling string
}

// VoidType is `void`.
type VoidType struct{}

// PointerType is `T*`.
type PointerType struct {
	Pointee Type
}

// ArrayType is `T[Len]`.
type ArrayType struct {
	Elem Type
	Len  int64
}

// IncompleteArrayType is `T[]`.
type IncompleteArrayType struct {
	Elem Type
}

// FunctionType is a function signature.
type FunctionType struct {
	Params   []Type
	Result   Type
	Variadic bool
}

// TypedefType refers to a typedef.
type TypedefType struct {
	Decl *TypedefDecl
}

// RecordType refers to a struct or union.
type RecordType struct {
	Decl *RecordDecl
}

// EnumType refers to an enumeration.
type EnumType struct {
	Decl *EnumDecl
}

func (*IntType) astType()             {}
func (*VoidType) astType()            {}
func (*PointerType) astType()         {}
func (*ArrayType) astType()           {}
func (*IncompleteArrayType) astType() {}
func (*FunctionType) astType()        {}
func (*TypedefType) astType()         {}
func (*RecordType) astType()          {}
func (*EnumType) astType()            {}

// Builtin types with the LP64 sizes.
var (
	Bool     = &IntType{Bits: 1, Unsigned: true, Spelling: "bool"}
	Char     = &IntType{Bits: 8, Spelling: "char"}
	UChar    = &IntType{Bits: 8, Unsigned: true, Spelling: "unsigned char"}
	Short    = &IntType{Bits: 16, Spelling: "short"}
	Int      = &IntType{Bits: 32, Spelling: "int"}
	UInt     = &IntType{Bits: 32, Unsigned: true, Spelling: "unsigned int"}
	Long     = &IntType{Bits: 64, Spelling: "long"}
	ULong    = &IntType{Bits: 64, Unsigned: true, Spelling: "unsigned long"}
	LongLong = &IntType{Bits: 64, Spelling: "long long"}
	Void     = &VoidType{}
)

func (t *IntType) String() string {
	if t.Spelling != "" {
		return t.Spelling
	}
	if t.Unsigned {
		return fmt.Sprintf("u%d", t.Bits)
	}
	return fmt.Sprintf("i%d", t.Bits)
}

func (*VoidType) String() string { return "void" }

func (t *PointerType) String() string { return t.Pointee.String() + "*" }

func (t *ArrayType) String() string { return fmt.Sprintf("%s[%d]", t.Elem, t.Len) }

func (t *IncompleteArrayType) String() string { return t.Elem.String() + "[]" }

func (t *FunctionType) String() string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	if t.Variadic {
		parts = append(parts, "...")
	}
	return fmt.Sprintf("%s (%s)", t.Result, strings.Join(parts, ", "))
}

func (t *TypedefType) String() string { return t.Decl.Name() }

func (t *RecordType) String() string {
	kw := "struct"
	if t.Decl.Union {
		kw = "union"
	}
	if t.Decl.Name() == "" {
		return kw + " <anonymous>"
	}
	return kw + " " + t.Decl.Name()
}

func (t *EnumType) String() string {
	if t.Decl.Name() == "" {
		return "enum <anonymous>"
	}
	return "enum " + t.Decl.Name()
}

// Canonical strips typedef sugar.
func Canonical(t Type) Type {
	for {
		td, ok := t.(*TypedefType)
		if !ok || td.Decl == nil {
			return t
		}
		t = td.Decl.Underlying
	}
}
