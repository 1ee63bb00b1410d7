package hltoll

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hilo/internal/ast"
	"hilo/internal/codegen"
	"hilo/internal/diag"
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/ll"
	"hilo/internal/rewrite"
	"hilo/internal/source"
	"hilo/internal/testkit"
)

var loc = source.Unknown

// fixture builds hl modules by hand: module > translation unit > functions.
type fixture struct {
	mod  *ir.Operation
	unit *ir.Operation
}

func newFixture() *fixture {
	mod := ir.NewModule(loc)
	unit := hl.TranslationUnit(ir.AtEnd(ir.Body(mod)), loc)
	return &fixture{mod: mod, unit: unit}
}

// function adds a function and returns a builder positioned in its body.
func (f *fixture) function(name string, result ir.Type, inputs ...ir.Type) (*ir.Builder, *ir.Block) {
	fn := ir.BuildFunc(ir.AtEnd(ir.Body(f.unit)), loc, name, &ir.FunctionType{Inputs: inputs, Results: []ir.Type{result}}, nil)
	entry := ir.EntryBlock(fn)
	return ir.AtEnd(entry), entry
}

// local declares a variable of type t initialized to init.
func local(b *ir.Builder, name string, t ir.Type, init int64) *ir.Value {
	v := hl.Var(b, loc, name, hl.LValue(t))
	ib := ir.AtEnd(hl.VarInit(v))
	hl.ValueYield(ib, loc, hl.Const(ib, loc, t, init))
	return v.Result(0)
}

func lower(t *testing.T, mod *ir.Operation) *ir.Operation {
	t.Helper()
	out, err := Lower(context.Background(), mod, Options{})
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}
	assertNoHighIR(t, out)
	return out
}

func assertNoHighIR(t *testing.T, out *ir.Operation) {
	t.Helper()
	if err := testkit.CheckLowered(out); err != nil {
		t.Errorf("malformed lowering output: %v", err)
	}
}

func assertCounts(t *testing.T, out *ir.Operation, want map[string]int) {
	t.Helper()
	if err := testkit.CheckCounts(out, want); err != nil {
		t.Error(err)
	}
}

func constValue(t *testing.T, v *ir.Value) int64 {
	t.Helper()
	def := v.DefiningOp()
	if def == nil || def.Name() != ll.ConstOp {
		t.Fatalf("expected an ll.constant, got %v", def)
	}
	a, _ := ll.ConstValue(def)
	return a.Value
}

func TestLowerParamsLocalsAndSum(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(loc)
	fn := b.Function(tu, "sum", ast.Int, loc)
	a := b.Param(fn, "a", ast.Int, loc)
	x := b.Var(fn, "x", ast.Int, ast.Lit(1, ast.Int), loc)
	fn.Body = ast.Block(
		ast.Declare(x),
		ast.Return(ast.Binary(ast.OpAdd, ast.Load(ast.Ref(a)), ast.Load(ast.Ref(x)), ast.Int)),
	)
	bag := diag.NewBag(10)
	mod, err := codegen.NewGenerator(codegen.NewContext(layout.X86_64LinuxGNU(), diag.BagReporter{Bag: bag})).Generate(tu)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	out := lower(t, mod)
	assertCounts(t, out, map[string]int{
		ll.FuncOp:   1,
		ll.AllocaOp: 2,
		ll.StoreOp:  2,
		ll.LoadOp:   2,
		ll.AddOp:    1,
		ll.ReturnOp: 1,
	})

	fnOp := ir.Collect(out, ll.FuncOp)[0]
	if fnOp.ParentOp() != out {
		t.Errorf("translation unit body was not spliced into the module")
	}
	if got := ll.FuncTypeOf(fnOp).String(); got != "!ll.func<i32 (i32)>" {
		t.Errorf("unexpected signature %s", got)
	}
	attrs := ir.ArgAttrs(fnOp)
	if len(attrs) != 1 {
		t.Fatalf("expected argument attributes to survive, got %d", len(attrs))
	}
	if name, _ := attrs[0].Get(ir.ArgNameAttr); name != ir.StringAttr("a") {
		t.Errorf("expected arg name a, got %v", name)
	}
	// The parameter is only read back from its slot.
	arg := ir.EntryBlock(fnOp).Arg(0)
	if users := arg.Users(); len(users) != 1 || users[0].Name() != ll.StoreOp {
		t.Errorf("parameter should only feed its slot store, used by %v", users)
	}
	if len(ir.Collect(mod, ir.FuncOpName)) != 1 {
		t.Errorf("input module was modified")
	}
}

func TestIntegralCasts(t *testing.T) {
	tests := []struct {
		name     string
		from, to ir.Type
		op       string
	}{
		{"widen", ir.I32, ir.I64, ll.SExtOp},
		{"narrow", ir.I64, ir.I32, ll.TruncOp},
		{"same width", ir.I32, ir.I32, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b, _ := f.function("cast", tt.to)
			c := hl.Const(b, loc, tt.from, 7)
			hl.Return(b, loc, hl.ImplicitCast(b, loc, hl.CastIntegralCast, c, tt.to))

			out := lower(t, f.mod)
			sext, trunc := len(ir.Collect(out, ll.SExtOp)), len(ir.Collect(out, ll.TruncOp))
			switch tt.op {
			case ll.SExtOp:
				if sext != 1 || trunc != 0 {
					t.Fatalf("expected one sext, got sext=%d trunc=%d", sext, trunc)
				}
			case ll.TruncOp:
				if sext != 0 || trunc != 1 {
					t.Fatalf("expected one trunc, got sext=%d trunc=%d", sext, trunc)
				}
			default:
				if sext+trunc != 0 {
					t.Fatalf("expected no conversion, got sext=%d trunc=%d", sext, trunc)
				}
				ret := ir.Collect(out, ll.ReturnOp)[0]
				if got := constValue(t, ret.Operand(0)); got != 7 {
					t.Fatalf("expected the constant to be returned directly, got %d", got)
				}
			}
		})
	}
}

func TestUnsupportedCastKindFails(t *testing.T) {
	f := newFixture()
	b, _ := f.function("bits", ir.I32)
	c := hl.Const(b, loc, ir.I32, 1)
	hl.Return(b, loc, hl.ImplicitCast(b, loc, hl.CastBitCast, c, ir.I32))

	out, err := Lower(context.Background(), f.mod, Options{})
	if !errors.Is(err, rewrite.ErrConversionFailed) {
		t.Fatalf("expected a conversion failure, got %v", err)
	}
	if out != nil {
		t.Fatalf("no IR may be returned on failure")
	}
}

func TestPlainAssignmentDoesNotLoad(t *testing.T) {
	f := newFixture()
	b, _ := f.function("set", ir.I32)
	x := local(b, "x", ir.I32, 1)
	five := hl.Const(b, loc, ir.I32, 5)
	stored := hl.Assign(b, loc, hl.AssignOp, five, hl.Ref(b, loc, x, hl.LValue(ir.I32)))
	hl.Return(b, loc, stored)

	out := lower(t, f.mod)
	assertCounts(t, out, map[string]int{
		ll.AllocaOp: 1,
		ll.StoreOp:  2,
		ll.LoadOp:   0,
	})
	ret := ir.Collect(out, ll.ReturnOp)[0]
	if got := constValue(t, ret.Operand(0)); got != 5 {
		t.Fatalf("assignment should yield the stored value 5, got %d", got)
	}
}

func TestCompoundAssignmentLoadsOperatesStores(t *testing.T) {
	tests := []struct {
		name, op, arith string
	}{
		{"add", hl.AddAssignOp, ll.AddOp},
		{"sub", hl.SubAssignOp, ll.SubOp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b, _ := f.function("acc", ir.I32)
			x := local(b, "x", ir.I32, 1)
			two := hl.Const(b, loc, ir.I32, 2)
			hl.Return(b, loc, hl.Assign(b, loc, tt.op, two, hl.Ref(b, loc, x, hl.LValue(ir.I32))))

			out := lower(t, f.mod)
			assertCounts(t, out, map[string]int{
				ll.LoadOp:  1,
				tt.arith:   1,
				ll.StoreOp: 2,
			})
			arith := ir.Collect(out, tt.arith)[0]
			if def := arith.Operand(0).DefiningOp(); def == nil || def.Name() != ll.LoadOp {
				t.Errorf("expected the current value as left operand")
			}
			stores := ir.Collect(out, ll.StoreOp)
			if last := stores[len(stores)-1]; last.Operand(0) != arith.Result(0) {
				t.Errorf("expected the new value to be stored")
			}
			ret := ir.Collect(out, ll.ReturnOp)[0]
			if ret.Operand(0) != arith.Result(0) {
				t.Errorf("expected the assignment to yield the new value")
			}
		})
	}
}

func TestInitListStoresEachElement(t *testing.T) {
	f := newFixture()
	b, _ := f.function("init", ir.None)
	arr := &hl.ArrayType{Shape: []int64{3}, Elem: ir.I32}
	v := hl.Var(b, loc, "arr", hl.LValue(arr))
	ib := ir.AtEnd(hl.VarInit(v))
	elems := []*ir.Value{
		hl.Const(ib, loc, ir.I32, 10),
		hl.Const(ib, loc, ir.I32, 20),
		hl.Const(ib, loc, ir.I32, 30),
	}
	hl.ValueYield(ib, loc, hl.InitList(ib, loc, arr, elems))
	hl.Return(b, loc)

	out := lower(t, f.mod)
	assertCounts(t, out, map[string]int{
		ll.AllocaOp: 1,
		ll.GEPOp:    3,
		ll.StoreOp:  3,
		ll.ReturnOp: 1,
	})
	slot := ir.Collect(out, ll.AllocaOp)[0].Result(0)
	if got := slot.Type().String(); got != "!ll.ptr<!ll.array<3 x i32>>" {
		t.Errorf("unexpected slot type %s", got)
	}
	for i, store := range ir.Collect(out, ll.StoreOp) {
		gep := store.Operand(1).DefiningOp()
		if gep == nil || gep.Name() != ll.GEPOp {
			t.Fatalf("store %d does not write through a GEP", i)
		}
		if gep.Operand(0) != slot {
			t.Errorf("GEP %d does not index the variable slot", i)
		}
		if idx := constValue(t, gep.Operand(1)); idx != int64(i) {
			t.Errorf("store %d uses index %d", i, idx)
		}
		if val := constValue(t, store.Operand(0)); val != int64(10*(i+1)) {
			t.Errorf("store %d writes %d", i, val)
		}
	}
}

func TestOversizedInitListFails(t *testing.T) {
	f := newFixture()
	b, _ := f.function("init", ir.None)
	arr := &hl.ArrayType{Shape: []int64{1}, Elem: ir.I32}
	v := hl.Var(b, loc, "arr", hl.LValue(arr))
	ib := ir.AtEnd(hl.VarInit(v))
	elems := []*ir.Value{hl.Const(ib, loc, ir.I32, 1), hl.Const(ib, loc, ir.I32, 2)}
	hl.ValueYield(ib, loc, hl.InitList(ib, loc, arr, elems))
	hl.Return(b, loc)

	if _, err := Lower(context.Background(), f.mod, Options{}); !errors.Is(err, rewrite.ErrConversionFailed) {
		t.Fatalf("expected a conversion failure, got %v", err)
	}
}

func TestResolvedCallKeepsArgumentOrder(t *testing.T) {
	f := newFixture()
	cb, _ := f.function("pick", ir.I32, ir.I32, ir.I32)
	hl.Return(cb, loc, hl.Const(cb, loc, ir.I32, 0))

	b, _ := f.function("caller", ir.I32)
	one := hl.Const(b, loc, ir.I32, 1)
	two := hl.Const(b, loc, ir.I32, 2)
	call := hl.Call(b, loc, "pick", []*ir.Value{one, two}, []ir.Type{ir.I32})
	hl.Return(b, loc, call.Result(0))

	out := lower(t, f.mod)
	calls := ir.Collect(out, ll.CallOp)
	if len(calls) != 1 {
		t.Fatalf("expected one ll.call, got %d", len(calls))
	}
	lc := calls[0]
	if ll.Callee(lc) != "pick" {
		t.Errorf("unexpected callee %q", ll.Callee(lc))
	}
	if lc.NumOperands() != 2 || constValue(t, lc.Operand(0)) != 1 || constValue(t, lc.Operand(1)) != 2 {
		t.Errorf("argument order not preserved")
	}
	if got := lc.Result(0).Type(); !ir.TypeEqual(got, ir.I32) {
		t.Errorf("unexpected call result type %s", got)
	}
}

func TestUnresolvedCallFails(t *testing.T) {
	f := newFixture()
	b, _ := f.function("caller", ir.None)
	hl.Call(b, loc, "missing", nil, nil)
	hl.Return(b, loc)

	out, err := Lower(context.Background(), f.mod, Options{})
	var ce *rewrite.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ConversionError, got %v", err)
	}
	if out != nil {
		t.Fatalf("no IR may be returned on failure")
	}
	found := false
	for _, op := range ce.Remaining {
		found = found || op.Name == hl.CallOp
	}
	if !found {
		t.Errorf("expected hl.call among the remaining ops, got %v", ce.Remaining)
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		pred hl.Predicate
		want ll.ICmpPredicate
		ok   bool
	}{
		{hl.PredEQ, ll.ICmpEQ, true},
		{hl.PredSGT, ll.ICmpSGT, true},
		{hl.PredSLT, "", false},
		{hl.PredULT, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.pred), func(t *testing.T) {
			f := newFixture()
			b, _ := f.function("cmp", ir.I1)
			l := hl.Const(b, loc, ir.I32, 1)
			r := hl.Const(b, loc, ir.I32, 2)
			hl.Return(b, loc, hl.Cmp(b, loc, tt.pred, ir.I1, l, r))

			out, err := Lower(context.Background(), f.mod, Options{})
			if !tt.ok {
				if !errors.Is(err, rewrite.ErrConversionFailed) || out != nil {
					t.Fatalf("expected failure without output, got %v", err)
				}
				if !strings.Contains(err.Error(), hl.CmpOp) {
					t.Errorf("error should name %s: %v", hl.CmpOp, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("lowering failed: %v", err)
			}
			cmp := ir.Collect(out, ll.ICmpOp)
			if len(cmp) != 1 || ll.PredicateOf(cmp[0]) != tt.want {
				t.Fatalf("expected one icmp %s", tt.want)
			}
		})
	}
}

func TestDeclarationsAreDropped(t *testing.T) {
	f := newFixture()
	ub := ir.AtEnd(ir.Body(f.unit))
	hl.Typedef(ub, loc, "myint", ir.I32)
	hl.TypeDecl(ub, loc, "struct.point")
	e := hl.Enum(ub, loc, "color", ir.I32)
	hl.EnumConst(ir.AtEnd(ir.Body(e)), loc, "red", ir.IntegerAttr{Type: ir.I32, Value: 0})
	b, _ := f.function("f", ir.None)
	hl.LabelDecl(b, loc, "done")
	hl.Return(b, loc)

	out := lower(t, f.mod)
	assertCounts(t, out, map[string]int{
		hl.TypedefOp:   1,
		hl.TypeDeclOp:  0,
		hl.EnumOp:      0,
		hl.EnumConstOp: 0,
		hl.LabelDeclOp: 0,
	})
}

func TestPrototypeWithoutBodyFails(t *testing.T) {
	f := newFixture()
	ir.DeclareFunc(ir.AtEnd(ir.Body(f.unit)), loc, "ext", &ir.FunctionType{Results: []ir.Type{ir.I32}}, nil)

	_, err := Lower(context.Background(), f.mod, Options{})
	if !errors.Is(err, rewrite.ErrConversionFailed) {
		t.Fatalf("expected a conversion failure, got %v", err)
	}
}

func TestLowerWithStats(t *testing.T) {
	f := newFixture()
	b, _ := f.function("f", ir.I32)
	hl.Return(b, loc, hl.Const(b, loc, ir.I32, 3))

	out, stats, err := LowerWithStats(context.Background(), f.mod, Options{MaxIterations: 4})
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}
	assertNoHighIR(t, out)
	if stats.Sweeps != 1 || stats.Rewrites != 4 {
		t.Fatalf("expected 1 sweep and 4 rewrites, got %+v", stats)
	}
}

func TestUnsupportedConstructsFail(t *testing.T) {
	tests := []struct {
		name  string
		build func(f *fixture)
		stuck string
	}{
		{
			name: "variadic function",
			build: func(f *fixture) {
				b, entry := f.function("vf", ir.I32, ir.I32)
				entry.ParentOp().SetAttr(ir.VariadicAttr, ir.UnitAttr{})
				hl.Return(b, loc, hl.Const(b, loc, ir.I32, 0))
			},
			stuck: ir.FuncOpName,
		},
		{
			name: "assignment to a non-addressable value",
			build: func(f *fixture) {
				b, _ := f.function("f", ir.I32)
				dst := hl.Const(b, loc, ir.I32, 1)
				v := hl.Assign(b, loc, hl.AssignOp, hl.Const(b, loc, ir.I32, 2), dst)
				hl.Return(b, loc, v)
			},
			stuck: hl.AssignOp,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.build(f)

			out, err := Lower(context.Background(), f.mod, Options{})
			if !errors.Is(err, rewrite.ErrConversionFailed) {
				t.Fatalf("expected a conversion failure, got %v", err)
			}
			if out != nil {
				t.Errorf("no IR should be returned on failure")
			}
			var ce *rewrite.ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected a *rewrite.ConversionError, got %T", err)
			}
			found := false
			for _, op := range ce.Remaining {
				if op.Name == tt.stuck {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s among remaining ops, got %+v", tt.stuck, ce.Remaining)
			}
		})
	}
}
