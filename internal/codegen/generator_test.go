package codegen

import (
	"errors"
	"testing"

	"hilo/internal/ast"
	"hilo/internal/diag"
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/source"
	"hilo/internal/symbols"
)

func newContext() (*Context, *diag.Bag) {
	bag := diag.NewBag(100)
	return NewContext(layout.X86_64LinuxGNU(), diag.BagReporter{Bag: bag}), bag
}

func generate(t *testing.T, tu *ast.TranslationUnit) (*ir.Operation, *diag.Bag, error) {
	t.Helper()
	ctx, bag := newContext()
	mod, err := NewGenerator(ctx).Generate(tu)
	return mod, bag, err
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestGenerateParamsAndLocals(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	fn := b.Function(tu, "add", ast.Int, source.At(1, 1, 1))
	a := b.Param(fn, "a", ast.Int, source.Unknown)
	x := b.Var(fn, "x", ast.Int, ast.Lit(1, ast.Int), source.Unknown)
	fn.Body = ast.Block(
		ast.Declare(x),
		ast.Return(ast.Binary(ast.OpAdd, ast.Load(ast.Ref(a)), ast.Load(ast.Ref(x)), ast.Int)),
	)

	mod, bag, err := generate(t, tu)
	if err != nil {
		t.Fatalf("unexpected error: %v (%d diagnostics)", err, bag.Len())
	}
	if err := ir.Verify(mod); err != nil {
		t.Fatalf("generated module does not verify: %v", err)
	}

	counts := map[string]int{
		ir.FuncOpName:     1,
		hl.VarOp:          1,
		hl.RefOp:          2,
		hl.ImplicitCastOp: 2,
		hl.AddOp:          1,
		hl.ConstOp:        1,
		hl.ValueYieldOp:   1,
		hl.ReturnOp:       1,
	}
	for name, want := range counts {
		if got := len(ir.Collect(mod, name)); got != want {
			t.Errorf("expected %d %s, got %d", want, name, got)
		}
	}

	fnOp := ir.Collect(mod, ir.FuncOpName)[0]
	attrs := ir.ArgAttrs(fnOp)
	if len(attrs) != 1 {
		t.Fatalf("expected one arg attr dictionary, got %d", len(attrs))
	}
	if name, _ := attrs[0].Get(ir.ArgNameAttr); name != ir.StringAttr("a") {
		t.Errorf("expected arg name a, got %v", name)
	}

	spec, ok := mod.Attr(layout.SpecAttrName).(layout.SpecAttr)
	if !ok {
		t.Fatalf("module has no %s attribute", layout.SpecAttrName)
	}
	e, ok := spec.Lookup(ir.I32)
	if !ok || e.SizeBits != 32 || e.AlignBits != 32 {
		t.Fatalf("expected i32 = [32, 32], got %+v (found %v)", e, ok)
	}
}

func TestNestedScopeDoesNotLeak(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	fn := b.Function(tu, "f", ast.Void, source.Unknown)
	outer := b.Var(fn, "v", ast.Int, ast.Lit(1, ast.Int), source.Unknown)
	inner := b.Var(fn, "v", ast.Int, ast.Lit(2, ast.Int), source.At(1, 3, 5))
	fn.Body = ast.Block(
		ast.Declare(outer),
		ast.Block(ast.Declare(inner), ast.Eval(ast.Load(ast.Ref(inner)))),
		ast.Eval(ast.Load(ast.Ref(outer))),
		ast.Eval(ast.Load(ast.Ref(inner))),
	)

	_, bag, err := generate(t, tu)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if !hasCode(bag, diag.CGUndeclaredSymbol) {
		t.Fatalf("expected an undeclared symbol diagnostic")
	}
	if bag.Len() != 1 {
		t.Fatalf("expected only the out-of-scope use to fail, got %d diagnostics", bag.Len())
	}
}

func TestRecursiveCallResolves(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	fn := b.Function(tu, "fact", ast.Int, source.Unknown)
	n := b.Param(fn, "n", ast.Int, source.Unknown)
	fn.Body = ast.Block(ast.Return(ast.Call(fn, ast.Load(ast.Ref(n)))))

	mod, _, err := generate(t, tu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := ir.Collect(mod, hl.CallOp)
	if len(calls) != 1 || hl.Callee(calls[0]) != "fact" {
		t.Fatalf("expected one call of fact, got %v", calls)
	}
}

func TestPrototypeThenDefinitionShareOneFunction(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	proto := b.Function(tu, "g", ast.Int, source.Unknown)
	b.Param(proto, "unnamed", ast.Int, source.Unknown)
	caller := b.Function(tu, "h", ast.Int, source.Unknown)
	caller.Body = ast.Block(ast.Return(ast.Call(proto, ast.Lit(4, ast.Int))))
	def := b.Function(tu, "g", ast.Int, source.At(1, 9, 1))
	p := b.Param(def, "x", ast.Int, source.Unknown)
	def.Body = ast.Block(ast.Return(ast.Load(ast.Ref(p))))

	mod, _, err := generate(t, tu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fns := ir.Collect(mod, ir.FuncOpName)
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
	g := ir.LookupSymbol(ir.Collect(mod, hl.TranslationUnitOp)[0], "g")
	if ir.EntryBlock(g) == nil {
		t.Fatalf("definition did not attach a body to the prototype")
	}
	if name, _ := ir.ArgAttrs(g)[0].Get(ir.ArgNameAttr); name != ir.StringAttr("x") {
		t.Fatalf("expected the definition's parameter name, got %v", name)
	}
}

func TestRedefinitionReported(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	for range 2 {
		fn := b.Function(tu, "dup", ast.Void, source.Unknown)
		fn.Body = ast.Block()
	}

	_, bag, err := generate(t, tu)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if !hasCode(bag, diag.CGError) {
		t.Fatalf("expected a redefinition error")
	}
}

func TestUndeclaredFunctionReported(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	other := b.TranslationUnit(source.Unknown)
	ext := b.Function(other, "ext", ast.Int, source.Unknown)
	fn := b.Function(tu, "f", ast.Int, source.Unknown)
	fn.Body = ast.Block(ast.Return(ast.Call(ext)))

	_, bag, err := generate(t, tu)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if !hasCode(bag, diag.CGUndeclaredSymbol) {
		t.Fatalf("expected an undeclared function diagnostic")
	}
}

func TestUnknownContextIsInternal(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	ns := b.Namespace(tu, "ns", source.Unknown)
	b.Record(ns, "S", false, nil, source.Unknown)

	_, bag, err := generate(t, tu)
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, symbols.ErrUnknownContext) {
		t.Fatalf("expected an internal unknown-context error, got %v", err)
	}
	if !hasCode(bag, diag.CGInternal) {
		t.Fatalf("expected a CGInternal diagnostic")
	}
}

func TestBlueprintFlushesOnce(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	ctx, _ := newContext()
	g := NewGenerator(ctx)

	if _, err := g.Generate(tu); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	_, err := g.Generate(tu)
	if !errors.Is(err, layout.ErrAlreadyFlushed) {
		t.Fatalf("expected ErrAlreadyFlushed, got %v", err)
	}
}

func TestTypedefsAndEnums(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	td := b.Typedef(tu, "myint", ast.Int, source.Unknown)
	e := b.Enum(tu, "Color", ast.Int, source.Unknown)
	red := b.EnumConstant(e, "Red", 3, source.Unknown)
	fn := b.Function(tu, "f", &ast.TypedefType{Decl: td}, source.Unknown)
	fn.Body = ast.Block(ast.Return(ast.Ref(red)))

	mod, _, err := generate(t, tu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	typedefs := ir.Collect(mod, hl.TypedefOp)
	if len(typedefs) != 1 || hl.Name(typedefs[0]) != "myint" {
		t.Fatalf("expected typedef myint, got %v", typedefs)
	}
	enums := ir.Collect(mod, hl.EnumOp)
	if len(enums) != 1 || hl.Name(enums[0]) != "Color" {
		t.Fatalf("expected enum Color, got %v", enums)
	}
	if n := len(ir.Collect(enums[0], hl.EnumConstOp)); n != 1 {
		t.Fatalf("expected one enumerator, got %d", n)
	}
	consts := ir.Collect(mod, hl.ConstOp)
	if len(consts) != 1 {
		t.Fatalf("expected the enumerator use to become one constant, got %d", len(consts))
	}
	if v, _ := hl.ConstValue(consts[0]); v.Value != 3 {
		t.Fatalf("expected constant 3, got %d", v.Value)
	}
	ft := ir.FuncSignature(ir.Collect(mod, ir.FuncOpName)[0])
	if !ir.TypeEqual(ft.Results[0], ir.I32) {
		t.Fatalf("typedef result not stripped: %s", ft)
	}
}

func TestGlobalVariableUnsupported(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	b.Var(tu, "g", ast.Int, nil, source.Unknown)

	_, bag, err := generate(t, tu)
	if !errors.Is(err, ErrGeneration) || !hasCode(bag, diag.CGUnsupported) {
		t.Fatalf("expected an unsupported-construct error, got %v", err)
	}
}

func TestAssignmentsAndComparisons(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	fn := b.Function(tu, "f", ast.Int, source.Unknown)
	x := b.Var(fn, "x", ast.Int, nil, source.Unknown)
	u := b.Var(fn, "u", ast.UInt, nil, source.Unknown)
	fn.Body = ast.Block(
		ast.Declare(x, u),
		ast.Eval(ast.Binary(ast.OpAssign, ast.Ref(x), ast.Lit(1, ast.Int), ast.Int)),
		ast.Eval(ast.Binary(ast.OpAddAssign, ast.Ref(x), ast.Lit(2, ast.Int), ast.Int)),
		ast.Eval(ast.Binary(ast.OpLT, ast.Load(ast.Ref(u)), ast.Lit(3, ast.UInt), ast.Int)),
		ast.Return(ast.Binary(ast.OpGT, ast.Load(ast.Ref(x)), ast.Lit(0, ast.Int), ast.Int)),
		ast.Return(ast.Lit(9, ast.Int)),
	)

	mod, _, err := generate(t, tu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assign := ir.Collect(mod, hl.AssignOp)
	if len(assign) != 1 {
		t.Fatalf("expected one hl.assign, got %d", len(assign))
	}
	if !hl.IsLValue(assign[0].Operand(1).Type()) {
		t.Fatalf("assignment destination must be the second operand")
	}
	if n := len(ir.Collect(mod, hl.AddAssignOp)); n != 1 {
		t.Fatalf("expected one hl.assign.add, got %d", n)
	}

	var preds []hl.Predicate
	for _, op := range ir.Collect(mod, hl.CmpOp) {
		preds = append(preds, hl.PredicateOf(op))
	}
	if len(preds) != 2 || preds[0] != hl.PredULT || preds[1] != hl.PredSGT {
		t.Fatalf("expected [ult sgt], got %v", preds)
	}
	if n := len(ir.Collect(mod, hl.ReturnOp)); n != 1 {
		t.Fatalf("statements after a return must be dropped, got %d returns", n)
	}
}

func TestSymbolWithoutErrorIsSilent(t *testing.T) {
	ctx, bag := newContext()
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	fn := b.Function(tu, "f", ast.Void, source.Unknown)

	ctx.PushBlock()
	defer ctx.PopBlock()
	if _, ok := ctx.LookupFunction(fn, false); ok {
		t.Fatalf("lookup of an unbound function succeeded")
	}
	if bag.Len() != 0 || ctx.Errors() != 0 {
		t.Fatalf("silent lookup reported diagnostics")
	}
	if _, ok := ctx.LookupFunction(fn, true); ok {
		t.Fatalf("lookup of an unbound function succeeded")
	}
	if !hasCode(bag, diag.CGUndeclaredSymbol) || ctx.Errors() != 1 {
		t.Fatalf("expected one undeclared-symbol error")
	}
}

func TestIntegerAttrHelpers(t *testing.T) {
	ctx, _ := newContext()
	tests := []struct {
		got   ir.IntegerAttr
		width int
		value int64
	}{
		{ctx.I8(-1), 8, -1},
		{ctx.I32(7), 32, 7},
		{ctx.U16(65535), 16, 65535},
		{ctx.U64(1 << 63), 64, -1 << 63},
	}
	for _, tt := range tests {
		if !ir.TypeEqual(tt.got.Type, ir.Int(tt.width)) || tt.got.Value != tt.value {
			t.Errorf("expected %d : i%d, got %s", tt.value, tt.width, tt.got)
		}
	}
}
