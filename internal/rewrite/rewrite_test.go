package rewrite

import (
	"context"
	"errors"
	"testing"

	"hilo/internal/ir"
	"hilo/internal/source"
	"hilo/internal/trace"
)

// rename replaces a leaf op by an op named to with the same operands and
// result types.
func rename(from, to string) PatternFunc {
	return PatternFunc{Op: from, Rewrite: func(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error {
		n := rw.Create(ir.OpSpec{Name: to, Loc: op.Loc(), Operands: operands, Results: op.ResultTypes()})
		rw.ReplaceOp(op, n.Results()...)
		return nil
	}}
}

// chain builds `%0 = t.a; t.b(%0)` in a fresh module.
func chain() *ir.Operation {
	m := ir.NewModule(source.Unknown)
	b := ir.AtEnd(ir.Body(m))
	a := b.Create(ir.OpSpec{Name: "t.a", Loc: source.At(1, 1, 1), Results: []ir.Type{ir.I32}})
	b.Create(ir.OpSpec{Name: "t.b", Loc: source.At(1, 2, 1), Operands: []*ir.Value{a.Result(0)}})
	return m
}

func illegalT() *Target { return NewTarget().AddIllegalDialect("t") }

func TestConversionReachesFixedPoint(t *testing.T) {
	m := chain()
	var bDone bool
	waitForB := PatternFunc{Op: "t.a", Rewrite: func(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error {
		if !bDone {
			return Decline("t.b not converted yet")
		}
		return rename("t.a", "u.a").Rewrite(op, operands, rw)
	}}
	markB := PatternFunc{Op: "t.b", Rewrite: func(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error {
		bDone = true
		return rename("t.b", "u.b").Rewrite(op, operands, rw)
	}}

	out, stats, err := Convert(context.Background(), m, NewPatternSet(waitForB, markB), illegalT(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Sweeps != 2 || stats.Rewrites != 2 || stats.Declines != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	ub := ir.Collect(out, "u.b")
	if len(ub) != 1 || ub[0].Operand(0).DefiningOp().Name() != "u.a" {
		t.Fatalf("u.b does not use u.a:\n%s", out)
	}
	if err := ir.Verify(out); err != nil {
		t.Fatalf("output does not verify: %v", err)
	}
	if len(ir.Collect(m, "t.a")) != 1 {
		t.Fatalf("input module was modified")
	}
}

func TestNoProgressListsRemainingOps(t *testing.T) {
	m := chain()
	never := PatternFunc{Op: "t.a", Rewrite: func(*ir.Operation, []*ir.Value, *Rewriter) error {
		return Decline("never")
	}}

	out, err := ApplyPartialConversion(context.Background(), m, NewPatternSet(never, rename("t.b", "u.b")), illegalT(), Options{})
	if out != nil {
		t.Fatalf("partial output escaped")
	}
	var ce *ConversionError
	if !errors.As(err, &ce) || !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("expected a ConversionError, got %v", err)
	}
	if ce.Exhausted || len(ce.Remaining) != 1 || ce.Remaining[0].Name != "t.a" {
		t.Fatalf("unexpected remaining ops %+v", ce)
	}
}

func TestSweepLimit(t *testing.T) {
	m := chain()
	// Replacing t.a by a fresh t.a always succeeds and never legalizes.
	spin := rename("t.a", "t.a")
	spin.Label = "spin"

	_, stats, err := Convert(context.Background(), m, NewPatternSet(spin), illegalT(), Options{MaxIterations: 3})
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ConversionError, got %v", err)
	}
	if !ce.Exhausted || ce.Sweeps != 3 || stats.Sweeps != 3 {
		t.Fatalf("expected the limit of 3 sweeps to stop conversion, got %+v", ce)
	}
}

func TestDeclineAfterMutationIsInternal(t *testing.T) {
	m := chain()
	sloppy := PatternFunc{Op: "t.a", Label: "sloppy", Rewrite: func(op *ir.Operation, _ []*ir.Value, rw *Rewriter) error {
		rw.Create(ir.OpSpec{Name: "u.junk", Loc: op.Loc()})
		return Decline("changed my mind")
	}}

	out, err := ApplyPartialConversion(context.Background(), m, NewPatternSet(sloppy), illegalT(), Options{})
	if out != nil {
		t.Fatalf("output returned after an internal error")
	}
	if !errors.Is(err, ErrInternal) || errors.Is(err, ErrConversionFailed) {
		t.Fatalf("expected only ErrInternal, got %v", err)
	}
	var ie *InternalError
	if !errors.As(err, &ie) || ie.Pattern != "sloppy" {
		t.Fatalf("internal error does not name the pattern: %v", err)
	}
}

func TestSuccessWithoutChangeIsInternal(t *testing.T) {
	lazy := PatternFunc{Op: "t.a", Rewrite: func(*ir.Operation, []*ir.Value, *Rewriter) error { return nil }}
	_, err := ApplyPartialConversion(context.Background(), chain(), NewPatternSet(lazy), illegalT(), Options{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestHardPatternErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	bad := PatternFunc{Op: "t.a", Rewrite: func(*ir.Operation, []*ir.Value, *Rewriter) error { return boom }}
	_, err := ApplyPartialConversion(context.Background(), chain(), NewPatternSet(bad), illegalT(), Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the pattern error, got %v", err)
	}
}

func TestSweepVisitsInnermostFirst(t *testing.T) {
	m := ir.NewModule(source.Unknown)
	b := ir.AtEnd(ir.Body(m))
	outer := b.Create(ir.OpSpec{Name: "t.outer", Regions: 1})
	inner := ir.AtEnd(outer.Region(0).AddBlock())
	inner.Create(ir.OpSpec{Name: "t.inner"})

	var order []string
	unwrap := PatternFunc{Op: "t.outer", Rewrite: func(op *ir.Operation, _ []*ir.Value, rw *Rewriter) error {
		order = append(order, op.Name())
		rw.InlineBlockBefore(ir.Body(op), op, nil)
		rw.EraseOp(op)
		return nil
	}}
	leaf := PatternFunc{Op: "t.inner", Rewrite: func(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error {
		order = append(order, op.Name())
		return rename("t.inner", "u.inner").Rewrite(op, operands, rw)
	}}

	out, err := ApplyPartialConversion(context.Background(), m, NewPatternSet(unwrap, leaf), illegalT(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "t.inner" || order[1] != "t.outer" {
		t.Fatalf("expected inner before outer, got %v", order)
	}
	if first := ir.Body(out).First(); first == nil || first.Name() != "u.inner" {
		t.Fatalf("inner op was not inlined into the module:\n%s", out)
	}
}

func TestTargetPrecedence(t *testing.T) {
	tgt := NewTarget().AddIllegalDialect("hl").AddLegalOp("hl.typedef").AddIllegalOp("func.func")
	tgt.Default = func(op *ir.Operation) bool { return op.Name() != "x.bad" }

	tests := []struct {
		name  string
		legal bool
	}{
		{"hl.add", false},
		{"hl.typedef", true},
		{"func.func", false},
		{"ll.add", true},
		{"x.bad", false},
	}
	for _, tt := range tests {
		op := ir.NewOp(ir.OpSpec{Name: tt.name})
		if got := tgt.IsLegal(op); got != tt.legal {
			t.Errorf("%s: expected legal=%v, got %v", tt.name, tt.legal, got)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ApplyPartialConversion(ctx, chain(), NewPatternSet(), illegalT(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConversionIsTraced(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	ps := NewPatternSet(rename("t.a", "u.a"), rename("t.b", "u.b"))
	if _, err := ApplyPartialConversion(ctx, chain(), ps, illegalT(), Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[trace.Scope]int{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd {
			seen[ev.Scope]++
		}
	}
	if seen[trace.ScopePass] != 1 || seen[trace.ScopeSweep] != 1 || seen[trace.ScopePattern] != 2 {
		t.Fatalf("unexpected span counts %v", seen)
	}
}
