package codegen

import (
	"hilo/internal/ast"
	"hilo/internal/diag"
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/symbols"
)

// genStmts emits stmts into the current block. Statements after a
// terminator are unreachable and are dropped.
func (g *Generator) genStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if ir.IsTerminated(g.b.Block()) {
			return
		}
		g.genStmt(s)
	}
}

func (g *Generator) genStmt(s ast.Stmt) {
	c := g.ctx
	switch s := s.(type) {
	case *ast.CompoundStmt:
		// Nested blocks get their own scope; their ops stay inline.
		c.PushBlock()
		g.genStmts(s.Stmts)
		c.PopBlock()
	case *ast.DeclStmt:
		for _, d := range s.Decls {
			g.genDecl(d)
		}
	case *ast.ReturnStmt:
		g.genReturn(s)
	case *ast.ExprStmt:
		g.genExpr(s.X)
	case *ast.LabelStmt:
		if _, ok := c.Labels.Lookup(s.Label.ID()); !ok {
			g.genLabel(s.Label)
		}
		if s.Body != nil {
			g.genStmt(s.Body)
		}
	default:
		c.Errorf(diag.CGUnsupported, s.Span(), "unsupported statement %T", s)
	}
}

func (g *Generator) genReturn(s *ast.ReturnStmt) {
	if s.Value == nil {
		hl.Return(g.b, s.Span())
		return
	}
	v, ok := g.genExpr(s.Value)
	if !ok {
		return
	}
	if v == nil {
		hl.Return(g.b, s.Span())
		return
	}
	hl.Return(g.b, s.Span(), v)
}

func (g *Generator) genVar(d *ast.VarDecl) {
	c := g.ctx
	t := c.ConvertType(d.Type, d.Span())
	op := hl.Var(g.b, d.Span(), symbols.DeclName(d), hl.LValue(t))
	c.RecordLayout(d.Type, d.Span())
	if d.Init != nil {
		saved := g.b.Save()
		g.b.SetInsertionPointToEnd(hl.VarInit(op))
		if v, ok := g.genExpr(d.Init); ok && v != nil {
			hl.ValueYield(g.b, d.Init.Span(), v)
		}
		g.b.Restore(saved)
	}
	// A variable is not visible inside its own initializer.
	c.Vars.Bind(d.ID(), op.Result(0))
}
