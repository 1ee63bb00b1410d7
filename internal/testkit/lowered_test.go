package testkit

import (
	"strings"
	"testing"

	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/ll"
	"hilo/internal/source"
)

var loc = source.Unknown

// llFunc builds `ll.func f() -> i32` and returns a builder in its body.
func llFunc(mod *ir.Operation) *ir.Builder {
	fn := ll.Func(ir.AtEnd(ir.Body(mod)), loc, ll.FuncSpec{
		Name: "f",
		Type: &ll.FuncType{Result: ir.Int(32)},
	})
	return ir.AtEnd(fn.Region(0).AddBlock())
}

func TestCheckLoweredAcceptsWellTypedModule(t *testing.T) {
	mod := ir.NewModule(loc)
	b := llFunc(mod)
	slot := ll.Alloca(b, loc, ll.Pointer(ir.Int(32)), ll.Constant(b, loc, ir.Int(64), 1))
	ll.Store(b, loc, ll.Constant(b, loc, ir.Int(32), 3), slot)
	ll.Return(b, loc, ll.Load(b, loc, ir.Int(32), slot))

	if err := CheckLowered(mod); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckCounts(mod, map[string]int{ll.ConstOp: 2, ll.LoadOp: 1}); err != nil {
		t.Fatalf("unexpected count error: %v", err)
	}
}

func TestCheckLoweredFindsProblems(t *testing.T) {
	mod := ir.NewModule(loc)
	b := llFunc(mod)
	slot := ll.Alloca(b, loc, ll.Pointer(ir.Int(32)), ll.Constant(b, loc, ir.Int(64), 1))
	ll.Store(b, loc, ll.Constant(b, loc, ir.Int(64), 3), slot)
	hl.Const(b, loc, ir.Int(32), 1)

	err := CheckLowered(mod)
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, want := range []string{"stores i64 through !ll.ptr<i32>", "high level operation", "not terminated"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}

	if err := CheckCounts(mod, map[string]int{ll.StoreOp: 2}); err == nil || !strings.Contains(err.Error(), "ll.store: got 1, want 2") {
		t.Errorf("unexpected count error %v", err)
	}
}
