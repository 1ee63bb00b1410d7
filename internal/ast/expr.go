package ast

import "hilo/internal/source"

// Expr is a typed expression.
type Expr interface {
	Type() Type
	Span() source.Span
	astExpr()
}

// ExprBase carries the type and location shared by all expressions.
type ExprBase struct {
	Ty  Type
	Loc source.Span
}

func (e *ExprBase) Type() Type        { return e.Ty }
func (e *ExprBase) Span() source.Span { return e.Loc }

// CastKind classifies implicit conversions.
type CastKind uint8

const (
	CastLValueToRValue CastKind = iota + 1
	CastIntegralCast
	CastFloatingCast
	CastArrayToPointerDecay
	CastFunctionToPointerDecay
	CastNoOp
	CastBitCast
)

func (k CastKind) String() string {
	switch k {
	case CastLValueToRValue:
		return "LValueToRValue"
	case CastIntegralCast:
		return "IntegralCast"
	case CastFloatingCast:
		return "FloatingCast"
	case CastArrayToPointerDecay:
		return "ArrayToPointerDecay"
	case CastFunctionToPointerDecay:
		return "FunctionToPointerDecay"
	case CastNoOp:
		return "NoOp"
	case CastBitCast:
		return "BitCast"
	default:
		return "Unknown"
	}
}

// BinOp enumerates binary operators.
type BinOp uint8

const (
	OpAdd BinOp = iota + 1
	OpSub
	OpAssign
	OpAddAssign
	OpSubAssign
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpAssign:
		return "="
	case OpAddAssign:
		return "+="
	case OpSubAssign:
		return "-="
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	default:
		return "?"
	}
}

// IsComparison reports whether op yields a truth value.
func (op BinOp) IsComparison() bool { return op >= OpEQ && op <= OpGE }

// IsAssignment reports whether op writes its left operand.
func (op BinOp) IsAssignment() bool { return op >= OpAssign && op <= OpSubAssign }

// IntLit is an integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// DeclRefExpr names a variable, parameter, enumerator or function.
// Its value is the declaration's storage (an lvalue) for variables.
type DeclRefExpr struct {
	ExprBase
	Decl Decl
}

// ImplicitCastExpr is a conversion inserted by the front end.
type ImplicitCastExpr struct {
	ExprBase
	Kind CastKind
	X    Expr
}

// BinaryExpr covers arithmetic, comparison and (compound) assignment.
type BinaryExpr struct {
	ExprBase
	Op   BinOp
	L, R Expr
}

// CallExpr is a direct call.
type CallExpr struct {
	ExprBase
	Callee *FunctionDecl
	Args   []Expr
}

// InitListExpr is a brace-enclosed aggregate initializer.
type InitListExpr struct {
	ExprBase
	Elems []Expr
}

func (*IntLit) astExpr()           {}
func (*DeclRefExpr) astExpr()      {}
func (*ImplicitCastExpr) astExpr() {}
func (*BinaryExpr) astExpr()       {}
func (*CallExpr) astExpr()         {}
func (*InitListExpr) astExpr()     {}

// Lit builds an integer literal of type t.
func Lit(v int64, t Type) *IntLit {
	return &IntLit{ExprBase: ExprBase{Ty: t}, Value: v}
}

// Ref builds a reference to d. The type is taken from the declaration.
func Ref(d Decl) *DeclRefExpr {
	var t Type
	switch d := d.(type) {
	case *VarDecl:
		t = d.Type
	case *ParamDecl:
		t = d.Type
	case *EnumConstantDecl:
		t = Int
	case *FunctionDecl:
		t = d.Type()
	}
	return &DeclRefExpr{ExprBase: ExprBase{Ty: t}, Decl: d}
}

// Cast builds an implicit conversion of x to t.
func Cast(kind CastKind, x Expr, t Type) *ImplicitCastExpr {
	return &ImplicitCastExpr{ExprBase: ExprBase{Ty: t}, Kind: kind, X: x}
}

// Load wraps x in an lvalue-to-rvalue conversion.
func Load(x Expr) *ImplicitCastExpr {
	return Cast(CastLValueToRValue, x, x.Type())
}

// Binary builds a binary expression with an explicit result type.
func Binary(op BinOp, l, r Expr, t Type) *BinaryExpr {
	return &BinaryExpr{ExprBase: ExprBase{Ty: t}, Op: op, L: l, R: r}
}

// Call builds a direct call of fn.
func Call(fn *FunctionDecl, args ...Expr) *CallExpr {
	return &CallExpr{ExprBase: ExprBase{Ty: fn.Result}, Callee: fn, Args: args}
}

// InitList builds an aggregate initializer of type t.
func InitList(t Type, elems ...Expr) *InitListExpr {
	return &InitListExpr{ExprBase: ExprBase{Ty: t}, Elems: elems}
}
