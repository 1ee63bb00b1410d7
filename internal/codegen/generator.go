package codegen

import (
	"errors"
	"fmt"

	"hilo/internal/ast"
	"hilo/internal/diag"
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/symbols"
)

// ErrGeneration reports that code generation produced error diagnostics or
// hit an internal inconsistency.
var ErrGeneration = errors.New("code generation failed")

// Generator emits High IR for one translation unit.
type Generator struct {
	ctx  *Context
	b    *ir.Builder
	unit *ir.Operation
	fn   *ast.FunctionDecl
}

// NewGenerator returns a generator writing through ctx.
func NewGenerator(ctx *Context) *Generator {
	return &Generator{ctx: ctx}
}

// Context returns the generator's context.
func (g *Generator) Context() *Context { return g.ctx }

// Generate builds `builtin.module { hl.translation_unit { ... } }` for tu.
// The module is returned only when no error diagnostic was reported.
func (g *Generator) Generate(tu *ast.TranslationUnit) (*ir.Operation, error) {
	c := g.ctx
	c.Module = ir.NewModule(tu.Span())
	if err := g.run(tu); err != nil {
		c.report(diag.CGInternal, diag.SevError, tu.Span(), err.Error())
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if err := c.Blueprint.Flush(c.Module); err != nil {
		c.report(diag.CGInternal, diag.SevError, tu.Span(), err.Error())
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if c.errors > 0 {
		return nil, fmt.Errorf("%w: %d error(s)", ErrGeneration, c.errors)
	}
	return c.Module, nil
}

func (g *Generator) run(tu *ast.TranslationUnit) (err error) {
	defer symbols.Recover(&err)
	g.b = ir.AtEnd(ir.Body(g.ctx.Module))
	g.unit = hl.TranslationUnit(g.b, tu.Span())
	g.b.SetInsertionPointToEnd(ir.Body(g.unit))

	g.ctx.PushBlock()
	for _, d := range tu.Decls {
		g.genDecl(d)
	}
	g.ctx.PopBlock()
	return nil
}

func (g *Generator) genDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.FunctionDecl:
		g.genFunction(d)
	case *ast.VarDecl:
		if g.fn == nil {
			g.ctx.Errorf(diag.CGUnsupported, d.Span(), "global variable %q is not supported", d.Name())
			return
		}
		g.genVar(d)
	case *ast.TypedefDecl:
		g.genTypedef(d)
	case *ast.RecordDecl:
		g.genRecord(d)
	case *ast.EnumDecl:
		g.genEnum(d)
	case *ast.LabelDecl:
		g.genLabel(d)
	case *ast.NamespaceDecl:
		for _, inner := range d.Decls {
			g.genDecl(inner)
		}
	default:
		g.ctx.Errorf(diag.CGUnsupported, d.Span(), "unexpected %s declaration", d.Kind())
	}
}

func (g *Generator) genTypedef(d *ast.TypedefDecl) {
	c := g.ctx
	op := hl.Typedef(g.b, d.Span(), symbols.DeclName(d), c.ConvertType(d.Underlying, d.Span()))
	c.Typedefs.Bind(d.ID(), op)
}

func (g *Generator) genRecord(d *ast.RecordDecl) {
	c := g.ctx
	op := hl.TypeDecl(g.b, d.Span(), c.Tags.Name(d))
	c.TypeDecls.Bind(d.ID(), op)
	for _, inner := range d.Decls {
		g.genDecl(inner)
	}
}

func (g *Generator) genEnum(d *ast.EnumDecl) {
	c := g.ctx
	base := c.ConvertType(d.Base, d.Span())
	op := hl.Enum(g.b, d.Span(), c.Tags.Name(d), base)
	c.Enums.Bind(d.ID(), op)

	consts := ir.AtEnd(ir.Body(op))
	for _, k := range d.Constants {
		kop := hl.EnumConst(consts, k.Span(), symbols.DeclName(k), ir.IntegerAttr{Type: base, Value: k.Value})
		c.EnumConsts.Bind(k.ID(), kop)
	}
}

func (g *Generator) genLabel(d *ast.LabelDecl) {
	if g.fn == nil {
		g.ctx.Errorf(diag.CGError, d.Span(), "label %q outside of a function", d.Name())
		return
	}
	op := hl.LabelDecl(g.b, d.Span(), symbols.DeclName(d))
	g.ctx.Labels.Bind(d.ID(), op)
}

// genFunction declares fn in the translation unit, reusing an earlier
// declaration of the same name, and generates its body if it has one.
func (g *Generator) genFunction(fn *ast.FunctionDecl) {
	c := g.ctx
	ft, ok := c.ConvertType(fn.Type(), fn.Span()).(*ir.FunctionType)
	if !ok {
		return
	}
	argAttrs := make([]ir.DictAttr, len(fn.Params))
	for i, p := range fn.Params {
		argAttrs[i] = ir.DictAttr{{Name: ir.ArgNameAttr, Value: ir.StringAttr(symbols.DeclName(p))}}
	}

	op := ir.LookupSymbol(g.unit, fn.Name())
	switch {
	case op == nil:
		saved := g.b.Save()
		g.b.SetInsertionPointToEnd(ir.Body(g.unit))
		op = ir.DeclareFunc(g.b, fn.Span(), fn.Name(), ft, argAttrs)
		g.b.Restore(saved)
		if fn.Variadic {
			op.SetAttr(ir.VariadicAttr, ir.UnitAttr{})
		}
	case op.Name() != ir.FuncOpName || !ir.TypeEqual(ir.FuncSignature(op), ft):
		c.Errorf(diag.CGError, fn.Span(), "conflicting declaration of %q", fn.Name())
		return
	case fn.Body != nil && ir.EntryBlock(op) != nil:
		c.Errorf(diag.CGError, fn.Span(), "redefinition of %q", fn.Name())
		return
	}
	// Bound before the body so that recursive calls resolve.
	c.Funcs.Bind(fn.ID(), op)
	if fn.Body == nil {
		return
	}
	ir.SetArgAttrs(op, argAttrs)
	op.SetLoc(fn.Span())
	g.genBody(fn, op, ft)
}

func (g *Generator) genBody(fn *ast.FunctionDecl, op *ir.Operation, ft *ir.FunctionType) {
	c := g.ctx
	saved := g.b.Save()
	entry := ir.AddEntryBlock(op)
	g.b.SetInsertionPointToEnd(entry)
	outer := g.fn
	g.fn = fn

	c.PushFunction()
	for i, p := range fn.Params {
		c.Vars.Bind(p.ID(), entry.Arg(i))
		c.RecordLayout(p.Type, p.Span())
	}
	g.genStmts(fn.Body.Stmts)
	c.PopFunction()

	if !ir.IsTerminated(entry) {
		if ir.IsNone(ft.Results[0]) {
			hl.Return(g.b, fn.Body.Span())
		} else {
			c.Errorf(diag.CGError, fn.Span(), "function %q does not end in a return", fn.Name())
		}
	}
	g.fn = outer
	g.b.Restore(saved)
}
