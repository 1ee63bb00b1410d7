package ll

import (
	"hilo/internal/ir"
	"hilo/internal/source"
)

// Dialect is the operation name prefix.
const Dialect = "ll"

// Operation names.
const (
	FuncOp   = "ll.func"
	AllocaOp = "ll.alloca"
	StoreOp  = "ll.store"
	LoadOp   = "ll.load"
	ConstOp  = "ll.constant"
	GEPOp    = "ll.getelementptr"
	ReturnOp = "ll.return"
	AddOp    = "ll.add"
	SubOp    = "ll.sub"
	SExtOp   = "ll.sext"
	TruncOp  = "ll.trunc"
	CallOp   = "ll.call"
	ICmpOp   = "ll.icmp"
)

// Attribute names.
const (
	LinkageAttr   = "linkage"
	CConvAttr     = "cconv"
	ValueAttr     = "value"
	CalleeAttr    = "callee"
	PredicateAttr = "predicate"
)

// Default function attributes.
const (
	LinkageExternal = "external"
	CConvC          = "ccc"
)

func init() {
	ir.Register(FuncOp, ir.Traits{})
	ir.Register(ReturnOp, ir.Traits{Terminator: true})
}

// ICmpPredicate is an integer comparison predicate.
type ICmpPredicate string

const (
	ICmpEQ  ICmpPredicate = "eq"
	ICmpSGT ICmpPredicate = "sgt"
)

// ICmpPredicateAttr carries the predicate on ll.icmp.
type ICmpPredicateAttr struct {
	Pred ICmpPredicate
}

func (a ICmpPredicateAttr) String() string { return string(a.Pred) }

// FuncSpec describes an ll.func to create.
type FuncSpec struct {
	Name     string
	Type     *FuncType
	Linkage  string
	CConv    string
	ArgAttrs ir.ArrayAttr
}

// Func creates an ll.func with an empty body region.
func Func(b *ir.Builder, loc source.Span, spec FuncSpec) *ir.Operation {
	linkage := spec.Linkage
	if linkage == "" {
		linkage = LinkageExternal
	}
	cconv := spec.CConv
	if cconv == "" {
		cconv = CConvC
	}
	attrs := []ir.NamedAttr{
		{Name: ir.SymNameAttr, Value: ir.StringAttr(spec.Name)},
		{Name: ir.FuncTypeAttr, Value: ir.TypeAttr{Type: spec.Type}},
		{Name: LinkageAttr, Value: ir.StringAttr(linkage)},
		{Name: CConvAttr, Value: ir.StringAttr(cconv)},
	}
	if spec.ArgAttrs != nil {
		attrs = append(attrs, ir.NamedAttr{Name: ir.ArgAttrsAttr, Value: spec.ArgAttrs})
	}
	return b.Create(ir.OpSpec{Name: FuncOp, Loc: loc, Attrs: attrs, Regions: 1})
}

// FuncTypeOf returns the signature of an ll.func.
func FuncTypeOf(op *ir.Operation) *FuncType {
	ft, _ := op.TypeAttr(ir.FuncTypeAttr).(*FuncType)
	return ft
}

// Constant creates an integer constant of type t.
func Constant(b *ir.Builder, loc source.Span, t ir.Type, value int64) *ir.Value {
	return b.Create(ir.OpSpec{
		Name:    ConstOp,
		Loc:     loc,
		Results: []ir.Type{t},
		Attrs:   []ir.NamedAttr{{Name: ValueAttr, Value: ir.IntegerAttr{Type: t, Value: value}}},
	}).Result(0)
}

// Alloca reserves count slots and yields a pointer of type ptr.
func Alloca(b *ir.Builder, loc source.Span, ptr *PointerType, count *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: AllocaOp, Loc: loc, Operands: []*ir.Value{count}, Results: []ir.Type{ptr}}).Result(0)
}

// Store writes val to addr.
func Store(b *ir.Builder, loc source.Span, val, addr *ir.Value) *ir.Operation {
	return b.Create(ir.OpSpec{Name: StoreOp, Loc: loc, Operands: []*ir.Value{val, addr}})
}

// Load reads the pointee of addr.
func Load(b *ir.Builder, loc source.Span, t ir.Type, addr *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: LoadOp, Loc: loc, Operands: []*ir.Value{addr}, Results: []ir.Type{t}}).Result(0)
}

// GEP computes the address of base[idx] as a pointer of type ptr.
func GEP(b *ir.Builder, loc source.Span, ptr *PointerType, base, idx *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: GEPOp, Loc: loc, Operands: []*ir.Value{base, idx}, Results: []ir.Type{ptr}}).Result(0)
}

// Return returns vals from the enclosing ll.func.
func Return(b *ir.Builder, loc source.Span, vals ...*ir.Value) *ir.Operation {
	return b.Create(ir.OpSpec{Name: ReturnOp, Loc: loc, Operands: vals})
}

// Binary creates an arithmetic op of the given name.
func Binary(b *ir.Builder, loc source.Span, name string, t ir.Type, lhs, rhs *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: name, Loc: loc, Operands: []*ir.Value{lhs, rhs}, Results: []ir.Type{t}}).Result(0)
}

// Convert creates ll.sext or ll.trunc.
func Convert(b *ir.Builder, loc source.Span, name string, t ir.Type, v *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{Name: name, Loc: loc, Operands: []*ir.Value{v}, Results: []ir.Type{t}}).Result(0)
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

// ICmp compares lhs and rhs.
func ICmp(b *ir.Builder, loc source.Span, pred ICmpPredicate, t ir.Type, lhs, rhs *ir.Value) *ir.Value {
	return b.Create(ir.OpSpec{
		Name:     ICmpOp,
		Loc:      loc,
		Operands: []*ir.Value{lhs, rhs},
		Results:  []ir.Type{t},
		Attrs:    []ir.NamedAttr{{Name: PredicateAttr, Value: ICmpPredicateAttr{Pred: pred}}},
	}).Result(0)
}

// Callee returns the callee symbol of ll.call.
func Callee(op *ir.Operation) string {
	s, _ := op.Attr(CalleeAttr).(ir.SymbolRefAttr)
	return string(s)
}

// PredicateOf returns the predicate of ll.icmp.
func PredicateOf(op *ir.Operation) ICmpPredicate {
	a, _ := op.Attr(PredicateAttr).(ICmpPredicateAttr)
	return a.Pred
}

// ConstValue returns the value attribute of ll.constant.
func ConstValue(op *ir.Operation) (ir.IntegerAttr, bool) {
	a, ok := op.Attr(ValueAttr).(ir.IntegerAttr)
	return a, ok
}
