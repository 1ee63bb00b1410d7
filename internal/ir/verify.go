package ir

import (
	"errors"
	"fmt"
)

// Verify checks structural invariants of op and everything nested in it:
// parent links, use-list consistency, definition-before-use inside a block,
// terminator placement and per-op registered verifiers.
func Verify(op *Operation) error {
	var errs []error
	Walk(op, func(o *Operation) bool {
		errs = append(errs, verifyOp(o)...)
		return true
	})
	return errors.Join(errs...)
}

func verifyOp(op *Operation) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s at %s: %s", op.name, op.loc, fmt.Sprintf(format, args...)))
	}
	if op.erased {
		fail("operation is erased but still reachable")
	}
	for i, o := range op.operands {
		v := o.value
		switch {
		case v == nil:
			fail("operand #%d is null", i)
			continue
		case v.def != nil && v.def.erased:
			fail("operand #%d is defined by erased %s", i, v.def.name)
			continue
		}
		if !containsUse(v, o) {
			fail("operand #%d is missing from its value's use list", i)
		}
		if !defDominates(v, op) {
			fail("operand #%d is not defined before its use", i)
		}
	}
	for ri, r := range op.regions {
		if r.parent != op {
			fail("region #%d has a wrong parent", ri)
		}
		for bi, b := range r.blocks {
			if b.region != r {
				fail("block #%d of region #%d has a wrong parent", bi, ri)
			}
			for oi, nested := range b.ops {
				if nested.block != b {
					fail("nested op #%d (%s) has a wrong parent block", oi, nested.name)
				}
				if TraitsOf(nested.name).Terminator && oi != len(b.ops)-1 {
					fail("terminator %s is not last in its block", nested.name)
				}
			}
		}
	}
	if check := TraitsOf(op.name).Verify; check != nil {
		if err := check(op); err != nil {
			fail("%v", err)
		}
	}
	return errs
}

func containsUse(v *Value, o *Operand) bool {
	for _, u := range v.uses {
		if u == o {
			return true
		}
	}
	return false
}

// defDominates is the structured-region approximation: the defining block
// must enclose the use, and inside the same block the definition comes first.
func defDominates(v *Value, user *Operation) bool {
	defBlock := v.OwnerBlock()
	if defBlock == nil {
		return false
	}
	// Walk up from the user to the op that lives directly in defBlock.
	cur := user
	for cur != nil && cur.block != defBlock {
		cur = cur.ParentOp()
	}
	if cur == nil {
		return false
	}
	if v.IsBlockArgument() {
		return true
	}
	if cur == v.def {
		return false
	}
	return defBlock.indexOf(v.def) < defBlock.indexOf(cur)
}
