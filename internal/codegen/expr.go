package codegen

import (
	"fmt"

	"hilo/internal/ast"
	"hilo/internal/diag"
	"hilo/internal/hl"
	"hilo/internal/ir"
)

var castKinds = map[ast.CastKind]hl.CastKind{
	ast.CastLValueToRValue:         hl.CastLValueToRValue,
	ast.CastIntegralCast:           hl.CastIntegralCast,
	ast.CastFloatingCast:           hl.CastFloatingCast,
	ast.CastArrayToPointerDecay:    hl.CastArrayToPointerDecay,
	ast.CastFunctionToPointerDecay: hl.CastFunctionToPointerDecay,
	ast.CastNoOp:                   hl.CastNoOp,
	ast.CastBitCast:                hl.CastBitCast,
}

var arithOps = map[ast.BinOp]string{
	ast.OpAdd: hl.AddOp,
	ast.OpSub: hl.SubOp,
}

var assignOps = map[ast.BinOp]string{
	ast.OpAssign:    hl.AssignOp,
	ast.OpAddAssign: hl.AddAssignOp,
	ast.OpSubAssign: hl.SubAssignOp,
}

// genExpr emits x and returns its value. The value is nil for calls of void
// functions; ok is false when an error was reported.
func (g *Generator) genExpr(x ast.Expr) (v *ir.Value, ok bool) {
	c := g.ctx
	switch x := x.(type) {
	case *ast.IntLit:
		return hl.Const(g.b, x.Span(), c.ConvertType(x.Type(), x.Span()), x.Value), true
	case *ast.DeclRefExpr:
		return g.genDeclRef(x)
	case *ast.ImplicitCastExpr:
		return g.genCast(x)
	case *ast.BinaryExpr:
		return g.genBinary(x)
	case *ast.CallExpr:
		return g.genCall(x)
	case *ast.InitListExpr:
		elems := make([]*ir.Value, len(x.Elems))
		for i, e := range x.Elems {
			ev, ok := g.genExpr(e)
			if !ok || ev == nil {
				return nil, false
			}
			elems[i] = ev
		}
		return hl.InitList(g.b, x.Span(), c.ConvertType(x.Type(), x.Span()), elems), true
	default:
		c.Errorf(diag.CGUnsupported, x.Span(), "unsupported expression %T", x)
		return nil, false
	}
}

func (g *Generator) genDeclRef(x *ast.DeclRefExpr) (*ir.Value, bool) {
	c := g.ctx
	switch d := x.Decl.(type) {
	case *ast.VarDecl, *ast.ParamDecl:
		v, ok := Symbol(c, c.Vars, d, fmt.Sprintf("use of undeclared identifier %q", d.Name()), true)
		if !ok {
			return nil, false
		}
		t := c.ConvertType(x.Type(), x.Span())
		return hl.Ref(g.b, x.Span(), v, hl.LValue(t)), true
	case *ast.EnumConstantDecl:
		op, ok := Symbol(c, c.EnumConsts, d, fmt.Sprintf("use of undeclared enumerator %q", d.Name()), true)
		if !ok {
			return nil, false
		}
		a, _ := hl.ConstValue(op)
		return hl.Const(g.b, x.Span(), c.ConvertType(x.Type(), x.Span()), a.Value), true
	default:
		c.Errorf(diag.CGUnsupported, x.Span(), "%s %q cannot be used as a value", x.Decl.Kind(), x.Decl.Name())
		return nil, false
	}
}

func (g *Generator) genCast(x *ast.ImplicitCastExpr) (*ir.Value, bool) {
	c := g.ctx
	kind, known := castKinds[x.Kind]
	if !known {
		c.Errorf(diag.CGUnsupported, x.Span(), "unsupported conversion %s", x.Kind)
		return nil, false
	}
	v, ok := g.genExpr(x.X)
	if !ok || v == nil {
		return nil, false
	}
	return hl.ImplicitCast(g.b, x.Span(), kind, v, c.ConvertType(x.Type(), x.Span())), true
}

func (g *Generator) genBinary(x *ast.BinaryExpr) (*ir.Value, bool) {
	c := g.ctx
	l, okL := g.genExpr(x.L)
	r, okR := g.genExpr(x.R)
	if !okL || !okR || l == nil || r == nil {
		return nil, false
	}
	switch {
	case x.Op.IsAssignment():
		if !hl.IsLValue(l.Type()) {
			c.Errorf(diag.CGError, x.Span(), "expression is not assignable")
			return nil, false
		}
		return hl.Assign(g.b, x.Span(), assignOps[x.Op], r, l), true
	case x.Op.IsComparison():
		pred := predicate(x.Op, isUnsigned(x.L.Type()))
		return hl.Cmp(g.b, x.Span(), pred, c.ConvertType(x.Type(), x.Span()), l, r), true
	}
	name, known := arithOps[x.Op]
	if !known {
		c.Errorf(diag.CGUnsupported, x.Span(), "unsupported operator %s", x.Op)
		return nil, false
	}
	return hl.Binary(g.b, x.Span(), name, c.ConvertType(x.Type(), x.Span()), l, r), true
}

func (g *Generator) genCall(x *ast.CallExpr) (*ir.Value, bool) {
	c := g.ctx
	fn, ok := c.LookupFunction(x.Callee, true)
	if !ok {
		return nil, false
	}
	args := make([]*ir.Value, len(x.Args))
	for i, a := range x.Args {
		v, ok := g.genExpr(a)
		if !ok || v == nil {
			return nil, false
		}
		args[i] = v
	}
	var results []ir.Type
	if rt := c.ConvertType(x.Type(), x.Span()); !ir.IsNone(rt) {
		results = []ir.Type{rt}
	}
	op := hl.Call(g.b, x.Span(), ir.SymbolName(fn), args, results)
	if len(results) == 0 {
		return nil, true
	}
	return op.Result(0), true
}

func predicate(op ast.BinOp, unsigned bool) hl.Predicate {
	switch op {
	case ast.OpEQ:
		return hl.PredEQ
	case ast.OpNE:
		return hl.PredNE
	case ast.OpLT:
		if unsigned {
			return hl.PredULT
		}
		return hl.PredSLT
	case ast.OpLE:
		if unsigned {
			return hl.PredULE
		}
		return hl.PredSLE
	case ast.OpGT:
		if unsigned {
			return hl.PredUGT
		}
		return hl.PredSGT
	default:
		if unsigned {
			return hl.PredUGE
		}
		return hl.PredSGE
	}
}

func isUnsigned(t ast.Type) bool {
	switch t := ast.Canonical(t).(type) {
	case *ast.IntType:
		return t.Unsigned
	case *ast.EnumType:
		return isUnsigned(t.Decl.Base)
	case *ast.PointerType:
		return true
	}
	return false
}
