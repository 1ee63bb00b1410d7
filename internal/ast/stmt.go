package ast

import "hilo/internal/source"

// Stmt is a statement inside a function body.
type Stmt interface {
	Span() source.Span
	astStmt()
}

// StmtBase carries the location shared by all statements.
type StmtBase struct {
	Loc source.Span
}

func (s *StmtBase) Span() source.Span { return s.Loc }

// CompoundStmt is a `{ ... }` block and opens a lexical scope.
type CompoundStmt struct {
	StmtBase
	Stmts []Stmt
}

// DeclStmt introduces local declarations.
type DeclStmt struct {
	StmtBase
	Decls []Decl
}

// ReturnStmt returns from the enclosing function. Value may be nil.
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	StmtBase
	X Expr
}

// LabelStmt attaches a label to a statement.
type LabelStmt struct {
	StmtBase
	Label *LabelDecl
	Body  Stmt
}

func (*CompoundStmt) astStmt() {}
func (*DeclStmt) astStmt()     {}
func (*ReturnStmt) astStmt()   {}
func (*ExprStmt) astStmt()     {}
func (*LabelStmt) astStmt()    {}

// Block builds a compound statement.
func Block(stmts ...Stmt) *CompoundStmt {
	return &CompoundStmt{Stmts: stmts}
}

// Declare builds a declaration statement.
func Declare(decls ...Decl) *DeclStmt {
	return &DeclStmt{Decls: decls}
}

// Return builds a return statement.
func Return(v Expr) *ReturnStmt {
	return &ReturnStmt{Value: v}
}

// Eval builds an expression statement.
func Eval(x Expr) *ExprStmt {
	return &ExprStmt{X: x}
}
