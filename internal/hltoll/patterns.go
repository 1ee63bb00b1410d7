package hltoll

import (
	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/ll"
	"hilo/internal/rewrite"
)

// lowering is the state shared by all patterns of one run.
type lowering struct {
	layout *layout.Analysis
}

func (l *lowering) converter(op *ir.Operation) *TypeConverter {
	return NewTypeConverter(l.layout.AtOrAbove(op))
}

// base names a pattern after the op kind it rewrites.
type base struct {
	*lowering
	kind string
}

func (p base) Kind() string { return p.kind }
func (p base) Name() string { return "lower " + p.kind }

// Patterns returns every hl to ll pattern.
func Patterns(analysis *layout.Analysis) *rewrite.PatternSet {
	l := &lowering{layout: analysis}
	on := func(kind string) base { return base{lowering: l, kind: kind} }
	return rewrite.NewPatternSet(
		unitPattern{on(hl.TranslationUnitOp)},
		funcPattern{on(ir.FuncOpName)},
		varPattern{on(hl.VarOp)},
		constPattern{on(hl.ConstOp)},
		returnPattern{on(hl.ReturnOp)},
		binaryPattern{on(hl.AddOp), ll.AddOp},
		binaryPattern{on(hl.SubOp), ll.SubOp},
		assignPattern{on(hl.AssignOp), ""},
		assignPattern{on(hl.AddAssignOp), ll.AddOp},
		assignPattern{on(hl.SubAssignOp), ll.SubOp},
		refPattern{on(hl.RefOp)},
		castPattern{on(hl.ImplicitCastOp)},
		callPattern{on(hl.CallOp)},
		cmpPattern{on(hl.CmpOp)},
		declPattern{on(hl.TypeDeclOp)},
		declPattern{on(hl.EnumOp)},
		declPattern{on(hl.LabelDeclOp)},
	)
}

// LegalityTarget makes the hl dialect and func.func illegal. hl.typedef
// stays as a type-only annotation.
func LegalityTarget() *rewrite.Target {
	return rewrite.NewTarget().
		AddIllegalDialect(hl.Dialect).
		AddLegalOp(hl.TypedefOp).
		AddIllegalOp(ir.FuncOpName)
}

// unitPattern splices the translation unit body into its parent.
type unitPattern struct{ base }

func (unitPattern) MatchAndRewrite(op *ir.Operation, _ []*ir.Value, rw *rewrite.Rewriter) error {
	if op.NumRegions() != 1 || len(op.Region(0).Blocks()) != 1 {
		return rewrite.Decline("translation unit must have exactly one block")
	}
	body := ir.Body(op)
	if body.NumArgs() != 0 {
		return rewrite.Decline("translation unit block has arguments")
	}
	rw.InlineBlockBefore(body, op, nil)
	rw.EraseOp(op)
	return nil
}

// funcPattern turns func.func into ll.func and gives every parameter a
// stack slot, so that parameters are addressed like locals.
type funcPattern struct{ base }

func (p funcPattern) MatchAndRewrite(op *ir.Operation, _ []*ir.Value, rw *rewrite.Rewriter) error {
	if op.HasAttr(ir.VariadicAttr) {
		return rewrite.Decline("variadic functions are not supported")
	}
	ft := ir.FuncSignature(op)
	if ft == nil {
		return rewrite.Decline("missing function type")
	}
	llft, conv, ok := p.converter(op).ConvertSignature(ft)
	if !ok {
		return rewrite.Decline("cannot convert signature %s", ft)
	}
	body := op.Region(0)
	if body.Empty() {
		return rewrite.Decline("function %q has no body", ir.SymbolName(op))
	}
	entry := body.Front()
	if entry.NumArgs() != len(ft.Inputs) {
		return rewrite.Decline("first block of %q is not its entry block", ir.SymbolName(op))
	}
	// Parameters get one stack slot each; splitting one across several ll
	// arguments is not supported.
	for i, m := range conv.Inputs {
		if m.Size != 1 {
			return rewrite.Decline("parameter %d expands to %d values", i, m.Size)
		}
	}

	loc := op.Loc()
	nf := ll.Func(rw.Builder, loc, ll.FuncSpec{
		Name:     ir.SymbolName(op),
		Type:     llft,
		ArgAttrs: remapArgAttrs(ir.ArgAttrs(op), conv),
	})
	rw.TakeBody(nf.Region(0), body)
	for i, a := range entry.Args() {
		rw.SetType(a, llft.Params[conv.Inputs[i].InputNo])
	}

	rw.SetInsertionPointToStart(entry)
	for _, a := range entry.Args() {
		slot := ll.Alloca(rw.Builder, loc, ll.Pointer(a.Type()), ll.Constant(rw.Builder, loc, ir.I64, 1))
		rw.ReplaceAllUsesWith(a, slot)
		ll.Store(rw.Builder, loc, a, slot)
	}
	rw.EraseOp(op)
	return nil
}

// remapArgAttrs moves each original argument's attributes to its converted
// position. funcPattern only accepts one-to-one parameter mappings, so every
// input lands on exactly one converted argument; arguments without
// attributes get an empty dictionary.
func remapArgAttrs(attrs []ir.DictAttr, conv *SignatureConversion) ir.ArrayAttr {
	if attrs == nil {
		return nil
	}
	out := make(ir.ArrayAttr, len(conv.Converted))
	for i := range out {
		out[i] = ir.DictAttr{}
	}
	for i, m := range conv.Inputs {
		if i < len(attrs) && attrs[i] != nil {
			out[m.InputNo] = attrs[i]
		}
	}
	return out
}

// varPattern allocates a stack slot for hl.var and stores its initializer.
// Initializer lists are unfolded into one store per element.
type varPattern struct{ base }

func (p varPattern) MatchAndRewrite(op *ir.Operation, _ []*ir.Value, rw *rewrite.Rewriter) error {
	lv, ok := op.Result(0).Type().(*hl.LValueType)
	if !ok {
		return rewrite.Decline("variable is not an lvalue")
	}
	elem, ok := p.converter(op).ConvertOne(lv.Elem)
	if !ok || ll.IsVoid(elem) {
		return rewrite.Decline("cannot convert variable type %s", lv.Elem)
	}

	var (
		init     *ir.Block
		yield    *ir.Operation
		list     *ir.Operation
		listElem ir.Type
	)
	if r := op.Region(0); !r.Empty() {
		if len(r.Blocks()) != 1 {
			return rewrite.Decline("initializer has %d blocks", len(r.Blocks()))
		}
		init = r.Front()
		yield = init.Last()
		if yield == nil || yield.Name() != hl.ValueYieldOp || yield.NumOperands() != 1 {
			return rewrite.Decline("initializer does not yield a value")
		}
		if def := yield.Operand(0).DefiningOp(); def != nil && def.Name() == hl.InitListOp {
			arr, ok := elem.(*ll.ArrayType)
			if !ok {
				return rewrite.Decline("initializer list for non-array type %s", elem)
			}
			if int64(def.NumOperands()) > arr.Len {
				return rewrite.Decline("%d initializers for %s", def.NumOperands(), elem)
			}
			for _, v := range def.Operands() {
				if d := v.DefiningOp(); d != nil && d.Name() == hl.InitListOp {
					return rewrite.Decline("nested initializer lists are not supported")
				}
			}
			list, listElem = def, arr.Elem
		}
	}

	loc := op.Loc()
	slot := ll.Alloca(rw.Builder, loc, ll.Pointer(elem), ll.Constant(rw.Builder, loc, ir.I64, 1))
	if init != nil {
		rw.InlineBlockBefore(init, op, nil)
		if list != nil {
			for i, v := range list.Operands() {
				idx := ll.Constant(rw.Builder, loc, ir.I64, int64(i))
				ll.Store(rw.Builder, loc, v, ll.GEP(rw.Builder, loc, ll.Pointer(listElem), slot, idx))
			}
		} else {
			ll.Store(rw.Builder, loc, yield.Operand(0), slot)
		}
		// The yield uses the list, so it goes first.
		rw.EraseOp(yield)
		if list != nil {
			rw.EraseOp(list)
		}
	}
	rw.ReplaceOp(op, slot)
	return nil
}

// declPattern drops declarations that only matter to the front end.
type declPattern struct{ base }

func (declPattern) MatchAndRewrite(op *ir.Operation, _ []*ir.Value, rw *rewrite.Rewriter) error {
	if op.NumResults() != 0 {
		return rewrite.Decline("declaration produces values")
	}
	rw.EraseOp(op)
	return nil
}
