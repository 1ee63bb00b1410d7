package codegen

import (
	"fmt"

	"fortio.org/safecast"

	"hilo/internal/ast"
	"hilo/internal/diag"
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/source"
	"hilo/internal/symbols"
)

// Table is the symbol table shape used for every declaration category.
type Table[V any] = symbols.ScopedTable[ast.DeclID, V]

// scope is implemented by every Table instantiation.
type scope interface {
	Push()
	Pop()
	Depth() int
}

// Context holds the state shared by code generation of one translation unit.
type Context struct {
	Vars       *Table[*ir.Value]
	Typedefs   *Table[*ir.Operation]
	TypeDecls  *Table[*ir.Operation]
	Funcs      *Table[*ir.Operation]
	Enums      *Table[*ir.Operation]
	EnumConsts *Table[*ir.Operation]
	Labels     *Table[*ir.Operation]

	Tags      *symbols.TagNames
	Blueprint *layout.Blueprint
	Layout    *layout.Engine

	// Module is the module under construction; nil until generation starts.
	Module *ir.Operation
	// Reporter forwards each distinct diagnostic once.
	Reporter diag.Reporter

	errors int
}

// NewContext returns a context with empty tables and no open scope.
func NewContext(target layout.Target, reporter diag.Reporter) *Context {
	return &Context{
		Vars:       symbols.NewScopedTable[ast.DeclID, *ir.Value]("vars"),
		Typedefs:   symbols.NewScopedTable[ast.DeclID, *ir.Operation]("typedefs"),
		TypeDecls:  symbols.NewScopedTable[ast.DeclID, *ir.Operation]("typedecls"),
		Funcs:      symbols.NewScopedTable[ast.DeclID, *ir.Operation]("funcs"),
		Enums:      symbols.NewScopedTable[ast.DeclID, *ir.Operation]("enums"),
		EnumConsts: symbols.NewScopedTable[ast.DeclID, *ir.Operation]("enumconsts"),
		Labels:     symbols.NewScopedTable[ast.DeclID, *ir.Operation]("labels"),
		Tags:       symbols.NewTagNames(),
		Blueprint:  layout.NewBlueprint(),
		Layout:     layout.New(target),
		Reporter:   diag.NewDedupReporter(reporter),
	}
}

// lexical lists the tables that follow block scoping. Labels are function
// scoped and are pushed separately.
func (c *Context) lexical() []scope {
	return []scope{c.Vars, c.Typedefs, c.TypeDecls, c.Funcs, c.Enums, c.EnumConsts}
}

// PushBlock opens a nested block scope.
func (c *Context) PushBlock() {
	for _, s := range c.lexical() {
		s.Push()
	}
}

// PopBlock closes the innermost block scope.
func (c *Context) PopBlock() {
	for _, s := range c.lexical() {
		s.Pop()
	}
}

// PushFunction opens a function scope, including a fresh label scope.
func (c *Context) PushFunction() {
	c.PushBlock()
	c.Labels.Push()
}

// PopFunction closes the scope opened by PushFunction.
func (c *Context) PopFunction() {
	c.Labels.Pop()
	c.PopBlock()
}

// Depth returns the number of open block scopes.
func (c *Context) Depth() int { return c.Vars.Depth() }

// Errors returns the number of error diagnostics reported so far.
func (c *Context) Errors() int { return c.errors }

func (c *Context) report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	if sev == diag.SevError {
		c.errors++
	}
	diag.NewReportBuilder(c.Reporter, sev, code, span, msg).Emit()
}

// Error reports a generic code generation error against the module.
func (c *Context) Error(msg string) {
	span := source.Unknown
	if c.Module != nil {
		span = c.Module.Loc()
	}
	c.report(diag.CGError, diag.SevError, span, msg)
}

// Errorf reports an error at span.
func (c *Context) Errorf(code diag.Code, span source.Span, format string, args ...any) {
	c.report(code, diag.SevError, span, fmt.Sprintf(format, args...))
}

// Symbol looks d up in table. On a miss it optionally reports msg as an
// undeclared-symbol error and returns the zero value.
func Symbol[V any](c *Context, table *Table[V], d ast.Decl, msg string, withError bool) (V, bool) {
	v, ok := table.Lookup(d.ID())
	if !ok && withError {
		c.report(diag.CGUndeclaredSymbol, diag.SevError, d.Span(), msg)
	}
	return v, ok
}

// LookupFunction returns the func.func generated for fn.
func (c *Context) LookupFunction(fn *ast.FunctionDecl, withError bool) (*ir.Operation, bool) {
	return Symbol(c, c.Funcs, fn, fmt.Sprintf("undeclared function %q", fn.Name()), withError)
}

// I8 through U64 build signless integer attributes. Unsigned values keep
// their two's complement bit pattern.
func (c *Context) I8(v int8) ir.IntegerAttr { return intAttr(8, int64(v)) }
func (c *Context) I16(v int16) ir.IntegerAttr { return intAttr(16, int64(v)) }
func (c *Context) I32(v int32) ir.IntegerAttr { return intAttr(32, int64(v)) }
func (c *Context) I64(v int64) ir.IntegerAttr { return intAttr(64, v) }
func (c *Context) U8(v uint8) ir.IntegerAttr { return intAttr(8, int64(v)) }
func (c *Context) U16(v uint16) ir.IntegerAttr { return intAttr(16, int64(v)) }
func (c *Context) U32(v uint32) ir.IntegerAttr { return intAttr(32, int64(v)) }
func (c *Context) U64(v uint64) ir.IntegerAttr { return intAttr(64, int64(v)) }

func intAttr(width int, v int64) ir.IntegerAttr {
	return ir.IntegerAttr{Type: ir.Int(width), Value: v}
}

// ConvertType maps a front-end type to its High IR form. Typedefs are
// stripped; references to undeclared typedefs and tags are reported.
func (c *Context) ConvertType(t ast.Type, at source.Span) ir.Type {
	switch t := t.(type) {
	case *ast.TypedefType:
		Symbol(c, c.Typedefs, t.Decl, fmt.Sprintf("undeclared type %q", t.Decl.Name()), true)
		return c.ConvertType(ast.Canonical(t), at)
	case *ast.IntType:
		return ir.Int(t.Bits)
	case *ast.VoidType:
		return ir.None
	case *ast.PointerType:
		return hl.Pointer(c.ConvertType(t.Pointee, at))
	case *ast.ArrayType:
		elem := c.ConvertType(t.Elem, at)
		shape := []int64{t.Len}
		if inner, ok := elem.(*hl.ArrayType); ok {
			shape = append(shape, inner.Shape...)
			elem = inner.Elem
		}
		return &hl.ArrayType{Shape: shape, Elem: elem}
	case *ast.IncompleteArrayType:
		return &hl.UnrankedArrayType{Elem: c.ConvertType(t.Elem, at)}
	case *ast.FunctionType:
		inputs := make([]ir.Type, len(t.Params))
		for i, p := range t.Params {
			inputs[i] = c.ConvertType(p, at)
		}
		return &ir.FunctionType{Inputs: inputs, Results: []ir.Type{c.ConvertType(t.Result, at)}}
	case *ast.RecordType:
		Symbol(c, c.TypeDecls, t.Decl, fmt.Sprintf("undeclared record %q", t.Decl.Name()), true)
		return &hl.RecordType{Name: c.Tags.Name(t.Decl)}
	case *ast.EnumType:
		Symbol(c, c.Enums, t.Decl, fmt.Sprintf("undeclared enum %q", t.Decl.Name()), true)
		return c.ConvertType(t.Decl.Base, at)
	default:
		c.Errorf(diag.CGUnsupported, at, "unsupported type %s", t)
		return ir.None
	}
}

// RecordLayout stores the layout of every scalar reachable from t in the
// blueprint. Records are not scalars and are skipped.
func (c *Context) RecordLayout(t ast.Type, at source.Span) {
	t = ast.Canonical(t)
	switch tt := t.(type) {
	case *ast.ArrayType:
		c.RecordLayout(tt.Elem, at)
		return
	case *ast.IntType:
		// Sub-byte integers keep their natural width.
		if tt.Bits%8 != 0 {
			return
		}
	case *ast.PointerType, *ast.EnumType:
	default:
		return
	}
	l, err := c.Layout.LayoutOf(t)
	if err != nil {
		c.Errorf(diag.CGLayout, at, "%v", err)
		return
	}
	size, errSize := safecast.Conv[uint64](l.SizeBits())
	align, errAlign := safecast.Conv[uint64](l.AlignBits())
	if errSize != nil || errAlign != nil {
		c.Errorf(diag.CGLayout, at, "layout of %s out of range", t)
		return
	}
	c.Blueprint.Add(c.ConvertType(t, at), size, align)
}
