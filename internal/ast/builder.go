package ast

import (
	"fmt"

	"fortio.org/safecast"

	"hilo/internal/source"
)

// Builder allocates declarations and wires them into their contexts.
type Builder struct {
	decls []Decl // index 0 reserved for NoDeclID
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{decls: make([]Decl, 1, 64)}
}

// Decl returns the declaration with the given ID or nil.
func (b *Builder) Decl(id DeclID) Decl {
	if !id.IsValid() || int(id) >= len(b.decls) {
		return nil
	}
	return b.decls[id]
}

// Len reports the number of allocated declarations.
func (b *Builder) Len() int { return len(b.decls) - 1 }

func (b *Builder) base(kind DeclKind, ctx DeclContext, name string, span source.Span) declBase {
	value, err := safecast.Conv[uint32](len(b.decls))
	if err != nil {
		panic(fmt.Errorf("declaration arena overflow: %w", err))
	}
	return declBase{id: DeclID(value), name: name, kind: kind, ctx: ctx, span: span}
}

func (b *Builder) record(d Decl) {
	b.decls = append(b.decls, d)
	switch ctx := d.Context().(type) {
	case *TranslationUnit:
		ctx.Decls = append(ctx.Decls, d)
	case *RecordDecl:
		ctx.Decls = append(ctx.Decls, d)
	case *NamespaceDecl:
		ctx.Decls = append(ctx.Decls, d)
	}
}

// TranslationUnit allocates the root context.
func (b *Builder) TranslationUnit(span source.Span) *TranslationUnit {
	tu := &TranslationUnit{declBase: b.base(DeclTranslationUnit, nil, "", span)}
	b.decls = append(b.decls, tu)
	return tu
}

// Function declares a function without parameters or body.
func (b *Builder) Function(ctx DeclContext, name string, result Type, span source.Span) *FunctionDecl {
	fn := &FunctionDecl{declBase: b.base(DeclFunction, ctx, name, span), Result: result}
	b.record(fn)
	return fn
}

// Param appends a parameter to fn.
func (b *Builder) Param(fn *FunctionDecl, name string, t Type, span source.Span) *ParamDecl {
	p := &ParamDecl{declBase: b.base(DeclParam, fn, name, span), Type: t}
	b.record(p)
	fn.Params = append(fn.Params, p)
	return p
}

// Var declares a variable. Locals are placed by the caller through a DeclStmt.
func (b *Builder) Var(ctx DeclContext, name string, t Type, init Expr, span source.Span) *VarDecl {
	v := &VarDecl{declBase: b.base(DeclVar, ctx, name, span), Type: t, Init: init}
	b.record(v)
	return v
}

// Typedef declares a type alias.
func (b *Builder) Typedef(ctx DeclContext, name string, underlying Type, span source.Span) *TypedefDecl {
	td := &TypedefDecl{declBase: b.base(DeclTypedef, ctx, name, span), Underlying: underlying}
	b.record(td)
	return td
}

// Record declares a struct (or union). An empty name makes it anonymous.
func (b *Builder) Record(ctx DeclContext, name string, union bool, fields []Field, span source.Span) *RecordDecl {
	r := &RecordDecl{declBase: b.base(DeclRecord, ctx, name, span), Union: union, Fields: fields}
	b.record(r)
	return r
}

// Enum declares an enumeration with the given underlying type.
func (b *Builder) Enum(ctx DeclContext, name string, base Type, span source.Span) *EnumDecl {
	if base == nil {
		base = UInt
	}
	e := &EnumDecl{declBase: b.base(DeclEnum, ctx, name, span), Base: base}
	b.record(e)
	return e
}

// EnumConstant appends an enumerator to e.
func (b *Builder) EnumConstant(e *EnumDecl, name string, value int64, span source.Span) *EnumConstantDecl {
	c := &EnumConstantDecl{declBase: b.base(DeclEnumConstant, e, name, span), Value: value}
	b.record(c)
	e.Constants = append(e.Constants, c)
	return c
}

// Label declares a label inside fn.
func (b *Builder) Label(fn *FunctionDecl, name string, span source.Span) *LabelDecl {
	l := &LabelDecl{declBase: b.base(DeclLabel, fn, name, span)}
	b.record(l)
	return l
}

// Namespace declares a namespace.
func (b *Builder) Namespace(ctx DeclContext, name string, span source.Span) *NamespaceDecl {
	ns := &NamespaceDecl{declBase: b.base(DeclNamespace, ctx, name, span)}
	b.record(ns)
	return ns
}
