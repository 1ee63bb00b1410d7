package testkit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/ll"
)

// CheckLowered runs the structural checks every lowered module must pass:
// 1) ir.Verify succeeds
// 2) no High IR survives except hl.typedef, and no func.func remains
// 3) ll.load and ll.store agree with the element type of their address
// 4) every ll.func has a single block terminated by ll.return
func CheckLowered(mod *ir.Operation) error {
	if mod == nil {
		return fmt.Errorf("nil module")
	}
	if err := ir.Verify(mod); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	var errs []error
	fail := func(op *ir.Operation, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s at %s: %s", op.Name(), op.Loc(), fmt.Sprintf(format, args...)))
	}
	ir.Walk(mod, func(op *ir.Operation) bool {
		switch {
		case op.Name() == ir.FuncOpName:
			fail(op, "builtin function survived lowering")
		case op.Dialect() == hl.Dialect && op.Name() != hl.TypedefOp:
			fail(op, "high level operation survived lowering")
		case op.Name() == ll.LoadOp:
			if elem, ok := pointee(op.Operand(0)); !ok || !ir.TypeEqual(elem, op.Result(0).Type()) {
				fail(op, "loads %s through %s", op.Result(0).Type(), op.Operand(0).Type())
			}
		case op.Name() == ll.StoreOp:
			if elem, ok := pointee(op.Operand(1)); !ok || !ir.TypeEqual(elem, op.Operand(0).Type()) {
				fail(op, "stores %s through %s", op.Operand(0).Type(), op.Operand(1).Type())
			}
		case op.Name() == ll.FuncOp:
			blocks := op.Region(0).Blocks()
			if len(blocks) != 1 {
				fail(op, "expected one block, got %d", len(blocks))
				break
			}
			if last := blocks[0].Last(); last == nil || last.Name() != ll.ReturnOp {
				fail(op, "body is not terminated by %s", ll.ReturnOp)
			}
		}
		return true
	})
	return errors.Join(errs...)
}

func pointee(v *ir.Value) (ir.Type, bool) {
	p, ok := v.Type().(*ll.PointerType)
	if !ok {
		return nil, false
	}
	return p.Elem, true
}

// OpCounts returns how many operations of each name op contains, op itself
// included.
func OpCounts(op *ir.Operation) map[string]int {
	counts := make(map[string]int)
	ir.Walk(op, func(o *ir.Operation) bool {
		counts[o.Name()]++
		return true
	})
	return counts
}

// CheckCounts compares the operation counts of op against want. Names that
// are absent from want are not checked.
func CheckCounts(op *ir.Operation, want map[string]int) error {
	got := OpCounts(op)
	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)
	var diffs []string
	for _, name := range names {
		if got[name] != want[name] {
			diffs = append(diffs, fmt.Sprintf("%s: got %d, want %d", name, got[name], want[name]))
		}
	}
	if len(diffs) > 0 {
		return fmt.Errorf("operation counts differ: %s", strings.Join(diffs, "; "))
	}
	return nil
}
