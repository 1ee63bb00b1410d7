package hltoll

import (
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/ll"
	"hilo/internal/rewrite"
)

type constPattern struct{ base }

func (p constPattern) MatchAndRewrite(op *ir.Operation, _ []*ir.Value, rw *rewrite.Rewriter) error {
	attr, ok := hl.ConstValue(op)
	if !ok {
		return rewrite.Decline("constant without an integer value")
	}
	t, ok := p.converter(op).ConvertOne(op.Result(0).Type())
	if !ok {
		return rewrite.Decline("cannot convert constant type %s", op.Result(0).Type())
	}
	rw.ReplaceOp(op, ll.Constant(rw.Builder, op.Loc(), t, attr.Value))
	return nil
}

type returnPattern struct{ base }

func (returnPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	ll.Return(rw.Builder, op.Loc(), operands...)
	rw.EraseOp(op)
	return nil
}

// binaryPattern maps hl.add and hl.sub one to one.
type binaryPattern struct {
	base
	to string
}

func (p binaryPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	t, ok := p.converter(op).ConvertOne(op.Result(0).Type())
	if !ok {
		return rewrite.Decline("cannot convert result type %s", op.Result(0).Type())
	}
	rw.ReplaceOp(op, ll.Binary(rw.Builder, op.Loc(), p.to, t, operands[0], operands[1]))
	return nil
}

// assignPattern stores into the destination slot and yields the stored
// value. Compound forms load the current value first; plain assignment does
// not read the destination.
type assignPattern struct {
	base
	arith string
}

func (p assignPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	src, dst := operands[0], operands[1]
	ptr, ok := dst.Type().(*ll.PointerType)
	if !ok {
		return rewrite.Decline("assignment destination of type %s is not addressable", dst.Type())
	}
	t, ok := p.converter(op).ConvertOne(op.Result(0).Type())
	if !ok {
		return rewrite.Decline("cannot convert result type %s", op.Result(0).Type())
	}

	loc := op.Loc()
	stored := src
	if p.arith != "" {
		cur := ll.Load(rw.Builder, loc, ptr.Elem, dst)
		stored = ll.Binary(rw.Builder, loc, p.arith, t, cur, src)
	}
	ll.Store(rw.Builder, loc, stored, dst)
	rw.ReplaceOp(op, stored)
	return nil
}

// refPattern forwards the referenced value to every use.
type refPattern struct{ base }

func (refPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	if len(operands) != 1 {
		return rewrite.Decline("reference with %d operands", len(operands))
	}
	rw.ReplaceOp(op, operands[0])
	return nil
}

// castPattern implements the LValueToRValue and IntegralCast conversions.
type castPattern struct{ base }

func (p castPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	src := operands[0]
	tc := p.converter(op)
	to, ok := tc.ConvertOne(op.Result(0).Type())
	if !ok {
		return rewrite.Decline("cannot convert cast result type %s", op.Result(0).Type())
	}

	switch kind := hl.CastKindOf(op); kind {
	case hl.CastLValueToRValue:
		if !ll.IsPointer(src.Type()) {
			// Some front ends emit this cast on an already loaded value.
			return rewrite.Decline("operand of type %s is not addressable", src.Type())
		}
		rw.ReplaceOp(op, ll.Load(rw.Builder, op.Loc(), to, src))
		return nil
	case hl.CastIntegralCast:
		from, ok := tc.ConvertOne(src.Type())
		if !ok {
			return rewrite.Decline("cannot convert cast source type %s", src.Type())
		}
		if _, isInt := from.(*ir.IntegerType); !isInt {
			return rewrite.Decline("integral cast from non-integer %s", from)
		}
		dl := p.layout.AtOrAbove(op)
		fromBits, toBits := dl.TypeSizeInBits(from), dl.TypeSizeInBits(to)
		switch {
		case toBits > fromBits:
			rw.ReplaceOp(op, ll.Convert(rw.Builder, op.Loc(), ll.SExtOp, to, src))
		case toBits < fromBits:
			rw.ReplaceOp(op, ll.Convert(rw.Builder, op.Loc(), ll.TruncOp, to, src))
		default:
			rw.ReplaceOp(op, src)
		}
		return nil
	default:
		return rewrite.Decline("unsupported cast kind %s", kind)
	}
}

// callPattern resolves the callee among already lowered functions.
type callPattern struct{ base }

func (p callPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	name := hl.Callee(op)
	callee := ir.LookupNearestSymbol(op, name)
	if callee == nil {
		return rewrite.Decline("unresolved callee %q", name)
	}
	if callee.Name() != ll.FuncOp {
		return rewrite.Decline("callee %q is not lowered yet", name)
	}
	tc := p.converter(op)
	results := make([]ir.Type, op.NumResults())
	for i, t := range op.ResultTypes() {
		rt, ok := tc.ConvertOne(t)
		if !ok {
			return rewrite.Decline("cannot convert call result type %s", t)
		}
		results[i] = rt
	}
	call := ll.Call(rw.Builder, op.Loc(), name, operands, results)
	rw.ReplaceOp(op, call.Results()...)
	return nil
}

var icmpPredicates = map[hl.Predicate]ll.ICmpPredicate{
	hl.PredEQ:  ll.ICmpEQ,
	hl.PredSGT: ll.ICmpSGT,
}

type cmpPattern struct{ base }

func (p cmpPattern) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *rewrite.Rewriter) error {
	pred, ok := icmpPredicates[hl.PredicateOf(op)]
	if !ok {
		return rewrite.Decline("unmapped predicate %q", hl.PredicateOf(op))
	}
	t, ok := p.converter(op).ConvertOne(op.Result(0).Type())
	if !ok {
		return rewrite.Decline("cannot convert comparison type %s", op.Result(0).Type())
	}
	rw.ReplaceOp(op, ll.ICmp(rw.Builder, op.Loc(), pred, t, operands[0], operands[1]))
	return nil
}
