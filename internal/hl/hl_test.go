package hl

import (
	"testing"

	"hilo/internal/ir"
	"hilo/internal/source"
)

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		want string
	}{
		{LValue(ir.I32), "!hl.lvalue<i32>"},
		{Pointer(ir.I8), "!hl.ptr<i8>"},
		{&ArrayType{Shape: []int64{2, 3}, Elem: ir.I32}, "!hl.array<2x3xi32>"},
		{&UnrankedArrayType{Elem: ir.I16}, "!hl.array<*xi16>"},
		{&RecordType{Name: "S"}, `!hl.record<"S">`},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestFlattenNestedArrays(t *testing.T) {
	inner := &ArrayType{Shape: []int64{4}, Elem: ir.I8}
	outer := &ArrayType{Shape: []int64{2, 3}, Elem: inner}
	shape, elem := outer.Flatten()
	if len(shape) != 3 || shape[0] != 2 || shape[1] != 3 || shape[2] != 4 {
		t.Fatalf("unexpected shape %v", shape)
	}
	if elem != ir.I8 {
		t.Fatalf("unexpected element %v", elem)
	}
}

func TestVarWithInitVerifies(t *testing.T) {
	m := ir.NewModule(source.Unknown)
	b := ir.AtEnd(ir.Body(m))
	tu := TranslationUnit(b, source.Unknown)
	b.SetInsertionPointToEnd(ir.Body(tu))
	v := Var(b, source.Unknown, "x", LValue(ir.I32))

	ib := ir.AtEnd(VarInit(v))
	c := Const(ib, source.Unknown, ir.I32, 7)
	ValueYield(ib, source.Unknown, c)

	if Name(v) != "x" {
		t.Fatalf("unexpected name %q", Name(v))
	}
	if err := ir.Verify(m); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestAccessors(t *testing.T) {
	m := ir.NewModule(source.Unknown)
	b := ir.AtEnd(ir.Body(m))
	x := Const(b, source.Unknown, ir.I32, 1)
	cmp := Cmp(b, source.Unknown, PredSGT, ir.I32, x, x)
	cast := ImplicitCast(b, source.Unknown, CastIntegralCast, x, ir.I64)
	call := Call(b, source.Unknown, "g", []*ir.Value{x}, []ir.Type{ir.I32})

	if PredicateOf(cmp.DefiningOp()) != PredSGT {
		t.Fatalf("predicate not stored")
	}
	if CastKindOf(cast.DefiningOp()) != CastIntegralCast {
		t.Fatalf("cast kind not stored")
	}
	if Callee(call) != "g" {
		t.Fatalf("callee not stored")
	}
	if a, ok := ConstValue(x.DefiningOp()); !ok || a.Value != 1 {
		t.Fatalf("const value not stored")
	}
}
