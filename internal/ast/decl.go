package ast

import "hilo/internal/source"

// DeclKind enumerates declaration categories.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclTranslationUnit
	DeclFunction
	DeclParam
	DeclVar
	DeclTypedef
	DeclRecord
	DeclEnum
	DeclEnumConstant
	DeclLabel
	DeclNamespace
)

func (k DeclKind) String() string {
	switch k {
	case DeclTranslationUnit:
		return "TranslationUnit"
	case DeclFunction:
		return "Function"
	case DeclParam:
		return "ParmVar"
	case DeclVar:
		return "Var"
	case DeclTypedef:
		return "Typedef"
	case DeclRecord:
		return "Record"
	case DeclEnum:
		return "Enum"
	case DeclEnumConstant:
		return "EnumConstant"
	case DeclLabel:
		return "Label"
	case DeclNamespace:
		return "Namespace"
	default:
		return "Invalid"
	}
}

// Decl is a source-level named entity.
type Decl interface {
	ID() DeclID
	// Name is empty for anonymous declarations.
	Name() string
	Kind() DeclKind
	// Context is the enclosing declaration context; nil only for the
	// translation unit.
	Context() DeclContext
	Span() source.Span
}

// DeclContext is a declaration that can enclose other declarations.
type DeclContext interface {
	Decl
	declContext()
}

// TagDecl introduces an aggregate or enumeration type.
type TagDecl interface {
	DeclContext
	tagDecl()
}

type declBase struct {
	id   DeclID
	name string
	kind DeclKind
	ctx  DeclContext
	span source.Span
}

func (d *declBase) ID() DeclID           { return d.id }
func (d *declBase) Name() string         { return d.name }
func (d *declBase) Kind() DeclKind       { return d.kind }
func (d *declBase) Context() DeclContext { return d.ctx }
func (d *declBase) Span() source.Span    { return d.span }

// TranslationUnit is the root context of one compilation.
type TranslationUnit struct {
	declBase
	Decls []Decl
}

func (*TranslationUnit) declContext() {}

// FunctionDecl declares (and, with a body, defines) a function.
type FunctionDecl struct {
	declBase
	Params   []*ParamDecl
	Result   Type
	Body     *CompoundStmt
	Variadic bool
}

func (*FunctionDecl) declContext() {}

// Type returns the function's signature.
func (f *FunctionDecl) Type() *FunctionType {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return &FunctionType{Params: params, Result: f.Result, Variadic: f.Variadic}
}

// ParamDecl is a function parameter.
type ParamDecl struct {
	declBase
	Type Type
}

// VarDecl is a local or global variable. Init may be nil.
type VarDecl struct {
	declBase
	Type Type
	Init Expr
}

// TypedefDecl introduces a type alias.
type TypedefDecl struct {
	declBase
	Underlying Type
}

// Field is a record member.
type Field struct {
	Name string
	Type Type
}

// RecordDecl is a struct or union definition.
type RecordDecl struct {
	declBase
	Union  bool
	Fields []Field
	// Decls holds nested tag declarations.
	Decls []Decl
}

func (*RecordDecl) declContext() {}
func (*RecordDecl) tagDecl()     {}

// EnumDecl is an enumeration definition.
type EnumDecl struct {
	declBase
	Base      Type
	Constants []*EnumConstantDecl
}

func (*EnumDecl) declContext() {}
func (*EnumDecl) tagDecl()     {}

// EnumConstantDecl is one enumerator.
type EnumConstantDecl struct {
	declBase
	Value int64
}

// LabelDecl is a goto label.
type LabelDecl struct {
	declBase
}

// NamespaceDecl is a C++ namespace. The C mid-end does not accept it as a
// tag context.
type NamespaceDecl struct {
	declBase
	Decls []Decl
}

func (*NamespaceDecl) declContext() {}
