package hl

import (
	"errors"

	"hilo/internal/ir"
	"hilo/internal/source"
)

// Dialect is the operation name prefix.
const Dialect = "hl"

// Operation names.
const (
	TranslationUnitOp = "hl.translation_unit"
	TypedefOp         = "hl.typedef"
	TypeDeclOp        = "hl.type"
	EnumOp            = "hl.enum"
	EnumConstOp       = "hl.enum.const"
	LabelDeclOp       = "hl.label.decl"
	VarOp             = "hl.var"
	ConstOp           = "hl.const"
	ReturnOp          = "hl.return"
	AddOp             = "hl.add"
	SubOp             = "hl.sub"
	AssignOp          = "hl.assign"
	AddAssignOp       = "hl.assign.add"
	SubAssignOp       = "hl.assign.sub"
	RefOp             = "hl.ref"
	ImplicitCastOp    = "hl.implicit_cast"
	CallOp            = "hl.call"
	CmpOp             = "hl.cmp"
	InitListOp        = "hl.initlist"
	ValueYieldOp      = "hl.value.yield"
)

// Attribute names.
const (
	NameAttr      = "name"
	TypeAttr      = "type"
	ValueAttr     = "value"
	KindAttr      = "kind"
	PredicateName = "predicate"
	CalleeAttr    = "callee"
)

func init() {
	ir.Register(TranslationUnitOp, ir.Traits{SymbolTable: true})
	ir.Register(ReturnOp, ir.Traits{Terminator: true})
	ir.Register(ValueYieldOp, ir.Traits{Terminator: true})
	ir.Register(VarOp, ir.Traits{Verify: verifyVar})
}

func verifyVar(op *ir.Operation) error {
	if op.NumResults() != 1 || !IsLValue(op.Result(0).Type()) {
		return errors.New("hl.var must produce one lvalue")
	}
	if op.NumRegions() != 1 {
		return errors.New("hl.var must own exactly one initializer region")
	}
	return nil
}

// TranslationUnit creates the top-level container.
func TranslationUnit(b *ir.Builder, loc source.Span) *ir.Operation {
	op := b.Create(ir.OpSpec{Name: TranslationUnitOp, Loc: loc, Regions: 1})
	op.Region(0).AddBlock()
	return op
}

// Typedef records a type alias.
func Typedef(b *ir.Builder, loc source.Span, name string, t ir.Type) *ir.Operation {
	return b.Create(ir.OpSpec{Name: TypedefOp, Loc: loc, Attrs: []ir.NamedAttr{
		{Name: NameAttr, Value: ir.StringAttr(name)},
		{Name: TypeAttr, Value: ir.TypeAttr{Type: t}},
	}})
}

// TypeDecl declares a record type by canonical name.
func TypeDecl(b *ir.Builder, loc source.Span, name string) *ir.Operation {
	return b.Create(ir.OpSpec{Name: TypeDeclOp, Loc: loc, Attrs: []ir.NamedAttr{
		{Name: NameAttr, Value: ir.StringAttr(name)},
	}})
}

// Enum declares an enumeration; constants go into its single block.
func Enum(b *ir.Builder, loc source.Span, name string, base ir.Type) *ir.Operation {
	op := b.Create(ir.OpSpec{Name: EnumOp, Loc: loc, Regions: 1, Attrs: []ir.NamedAttr{
		{Name: NameAttr, Value: ir.StringAttr(name)},
		{Name: TypeAttr, Value: ir.TypeAttr{Type: base}},
	}})
	op.Region(0).AddBlock()
	return op
}

// EnumConst declares one enumerator.
func EnumConst(b *ir.Builder, loc source.Span, name string, value ir.IntegerAttr) *ir.Operation {
	return b.Create(ir.OpSpec{Name: EnumConstOp, Loc: loc, Attrs: []ir.NamedAttr{
		{Name: NameAttr, Value: ir.StringAttr(name)},
		{Name: ValueAttr, Value: value},
	}})
}

// LabelDecl declares a label.
func LabelDecl(b *ir.Builder, loc source.Span, name string) *ir.Operation {
	return b.Create(ir.OpSpec{Name: LabelDeclOp, Loc: loc, Attrs: []ir.NamedAttr{
		{Name: NameAttr, Value: ir.StringAttr(name)},
	}})
}

// Var declares a variable of lvalue type t with an empty initializer region.
func Var(b *ir.Builder, loc source.Span, name string, t *LValueType) *ir.Operation {
	return b.Create(ir.OpSpec{
		Name:    VarOp,
		Loc:     loc,
		Results: []ir.Type{t},
		Attrs:   []ir.NamedAttr{{Name: NameAttr, Value: ir.StringAttr(name)}},
		Regions: 1,
	})
}

// VarInit returns the initializer block of a variable, creating it if needed.
func VarInit(op *ir.Operation) *ir.Block {
	r := op.Region(0)
	if r.Empty() {
		return r.AddBlock()
	}
	return r.Front()
}

// Const creates an integer constant.
func Const(b *ir.Builder, loc source.Span, t ir.Type, value int64) *ir.Value {
	return b.Create(ir.OpSpec{
		Name:    ConstOp,
		Loc:     loc,
		Results: []ir.Type{t},
		Attrs:   []ir.NamedAttr{{Name: ValueAttr, Value: ir.IntegerAttr{Type: t, Value: value}}},
	}).Result(0)
}

// Return terminates a function body.
func Return(b *ir.Builder, loc source.Span, vals ...*ir.Value) *ir.Operation {
	return b.Create(ir.OpSpec{Name: ReturnOp, Loc: loc, Operands: vals})
}

// Binary creates hl.add or hl.sub.
func Binary(b *ir.Builder, loc source.Span, name string, t ir.Type, lhs, rhs *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: name, Loc: loc, Operands: []*ir.Value{lhs, rhs}, Results: []ir.Type{t}}).Result(0)
}

// Assign creates hl.assign, hl.assign.add or hl.assign.sub. The operands are
// (src, dst) and the result is the stored value.
func Assign(b *ir.Builder, loc source.Span, name string, src, dst *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{
		Name:     name,
		Loc:      loc,
		Operands: []*ir.Value{src, dst},
		Results:  []ir.Type{StripLValue(dst.Type())},
	}).Result(0)
}

// Ref references a declared value as an lvalue of type t.
func Ref(b *ir.Builder, loc source.Span, v *ir.Value, t ir.Type) *ir.Value {
	return b.Create(ir.OpSpec{Name: RefOp, Loc: loc, Operands: []*ir.Value{v}, Results: []ir.Type{t}}).Result(0)
}

// ImplicitCast converts v to t.
func ImplicitCast(b *ir.Builder, loc source.Span, kind CastKind, v *ir.Value, t ir.Type) *ir.Value {
	return b.Create(ir.OpSpec{
		Name:     ImplicitCastOp,
		Loc:      loc,
		Operands: []*ir.Value{v},
		Results:  []ir.Type{t},
		Attrs:    []ir.NamedAttr{{Name: KindAttr, Value: CastKindAttr{Kind: kind}}},
	}).Result(0)
}

// Call calls callee by symbol.
func Call(b *ir.Builder, loc source.Span, callee string, args []*ir.Value, results []ir.Type) *ir.Operation {
	return b.Create(ir.OpSpec{
		Name:     CallOp,
		Loc:      loc,
		Operands: args,
		Results:  results,
		Attrs:    []ir.NamedAttr{{Name: CalleeAttr, Value: ir.SymbolRefAttr(callee)}},
	})
}

// Cmp compares lhs and rhs.
func Cmp(b *ir.Builder, loc source.Span, pred Predicate, t ir.Type, lhs, rhs *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{
		Name:     CmpOp,
		Loc:      loc,
		Operands: []*ir.Value{lhs, rhs},
		Results:  []ir.Type{t},
		Attrs:    []ir.NamedAttr{{Name: PredicateName, Value: PredicateAttr{Pred: pred}}},
	}).Result(0)
}

// InitList builds an aggregate value of type t from elems.
func InitList(b *ir.Builder, loc source.Span, t ir.Type, elems []*ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: InitListOp, Loc: loc, Operands: elems, Results: []ir.Type{t}}).Result(0)
}

// ValueYield ends an initializer region.
func ValueYield(b *ir.Builder, loc source.Span, v *ir.Value) *ir.Operation {
	return b.Create(ir.OpSpec{Name: ValueYieldOp, Loc: loc, Operands: []*ir.Value{v}})
}

// Name returns the name attribute of a declaration op.
func Name(op *ir.Operation) string { return op.StringAttr(NameAttr) }

// CastKindOf returns the conversion kind of hl.implicit_cast.
func CastKindOf(op *ir.Operation) CastKind {
	a, _ := op.Attr(KindAttr).(CastKindAttr)
	return a.Kind
}

// PredicateOf returns the predicate of hl.cmp.
func PredicateOf(op *ir.Operation) Predicate {
	a, _ := op.Attr(PredicateName).(PredicateAttr)
	return a.Pred
}

// Callee returns the callee symbol of hl.call.
func Callee(op *ir.Operation) string {
	s, _ := op.Attr(CalleeAttr).(ir.SymbolRefAttr)
	return string(s)
}

// ConstValue returns the value attribute of hl.const.
func ConstValue(op *ir.Operation) (ir.IntegerAttr, bool) {
	a, ok := op.Attr(ValueAttr).(ir.IntegerAttr)
	return a, ok
}
