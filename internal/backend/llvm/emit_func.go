package llvm

import (
	"fmt"

	llir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"hilo/internal/ir"
	"hilo/internal/ll"
)

type funcEmitter struct {
	parent  *emitter
	fn      *llir.Func
	block   *llir.Block
	values  map[*ir.Value]value.Value
}

var icmpPreds = map[ll.ICmpPredicate]enum.IPred{
	ll.ICmpEQ:  enum.IPredEQ,
	ll.ICmpSGT: enum.IPredSGT,
}

func (e *emitter) define(op *ir.Operation) error {
	body := op.Region(0)
	if body.Empty() {
		return nil
	}
	blocks := body.Blocks()
	if len(blocks) != 1 {
		return fmt.Errorf("%w: %d blocks", ErrUnsupported, len(blocks))
	}
	fe := &funcEmitter{
		parent:  e,
		fn:      e.funcs[ir.SymbolName(op)],
		values:  make(map[*ir.Value]value.Value),
	}
	entry := blocks[0]
	if entry.NumArgs() != len(fe.fn.Params) {
		return fmt.Errorf("entry block has %d arguments for %d parameters", entry.NumArgs(), len(fe.fn.Params))
	}
	for i, a := range entry.Args() {
		fe.values[a] = fe.fn.Params[i]
	}
	fe.block = fe.fn.NewBlock("entry")
	for _, inst := range entry.Ops() {
		if err := fe.emitOp(inst); err != nil {
			return err
		}
	}
	if fe.block.Term == nil {
		return fmt.Errorf("entry block is not terminated")
	}
	return nil
}

func (fe *funcEmitter) operand(op *ir.Operation, i int) (value.Value, error) {
	v, ok := fe.values[op.Operand(i)]
	if !ok {
		return nil, fmt.Errorf("%s at %s: operand #%d is not defined in this function", op.Name(), op.Loc(), i)
	}
	return v, nil
}

func (fe *funcEmitter) operands(op *ir.Operation) ([]value.Value, error) {
	out := make([]value.Value, op.NumOperands())
	for i := range out {
		v, err := fe.operand(op, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (fe *funcEmitter) emitOp(op *ir.Operation) error {
	args, err := fe.operands(op)
	if err != nil {
		return err
	}
	blk := fe.block
	var res value.Value

	switch op.Name() {
	case ll.ConstOp:
		attr, ok := ll.ConstValue(op)
		if !ok {
			return fmt.Errorf("constant at %s has no value", op.Loc())
		}
		it, err := intType(op.Result(0).Type())
		if err != nil {
			return err
		}
		res = constant.NewInt(it, attr.Value)
	case ll.AllocaOp:
		ptr, ok := op.Result(0).Type().(*ll.PointerType)
		if !ok {
			return fmt.Errorf("alloca at %s does not yield a pointer", op.Loc())
		}
		elem, err := llvmType(ptr.Elem)
		if err != nil {
			return err
		}
		inst := blk.NewAlloca(elem)
		if !isOne(op.Operand(0)) {
			inst.NElems = args[0]
		}
		res = inst
	case ll.StoreOp:
		blk.NewStore(args[0], args[1])
	case ll.LoadOp:
		t, err := llvmType(op.Result(0).Type())
		if err != nil {
			return err
		}
		res = blk.NewLoad(t, args[0])
	case ll.GEPOp:
		res, err = fe.emitGEP(op, args)
		if err != nil {
			return err
		}
	case ll.AddOp:
		res = blk.NewAdd(args[0], args[1])
	case ll.SubOp:
		res = blk.NewSub(args[0], args[1])
	case ll.SExtOp, ll.TruncOp:
		t, err := llvmType(op.Result(0).Type())
		if err != nil {
			return err
		}
		if op.Name() == ll.SExtOp {
			res = blk.NewSExt(args[0], t)
		} else {
			res = blk.NewTrunc(args[0], t)
		}
	case ll.CallOp:
		callee, ok := fe.parent.funcs[ll.Callee(op)]
		if !ok {
			return fmt.Errorf("call at %s: unknown function %q", op.Loc(), ll.Callee(op))
		}
		res = blk.NewCall(callee, args...)
	case ll.ICmpOp:
		pred, ok := icmpPreds[ll.PredicateOf(op)]
		if !ok {
			return fmt.Errorf("%w: icmp predicate %q", ErrUnsupported, ll.PredicateOf(op))
		}
		res = blk.NewICmp(pred, args[0], args[1])
	case ll.ReturnOp:
		switch len(args) {
		case 0:
			blk.NewRet(nil)
		case 1:
			blk.NewRet(args[0])
		default:
			return fmt.Errorf("%w: returning %d values", ErrUnsupported, len(args))
		}
	default:
		return fmt.Errorf("%w: %s at %s", ErrUnsupported, op.Name(), op.Loc())
	}

	switch op.NumResults() {
	case 0:
	case 1:
		if res == nil {
			return fmt.Errorf("%s at %s produced no value", op.Name(), op.Loc())
		}
		fe.values[op.Result(0)] = res
	default:
		return fmt.Errorf("%w: %s with %d results", ErrUnsupported, op.Name(), op.NumResults())
	}
	return nil
}

// emitGEP addresses an element. Array slots are indexed through a leading
// zero so that the index selects an element rather than a whole array.
func (fe *funcEmitter) emitGEP(op *ir.Operation, args []value.Value) (value.Value, error) {
	base, ok := op.Operand(0).Type().(*ll.PointerType)
	if !ok {
		return nil, fmt.Errorf("getelementptr at %s: base is not a pointer", op.Loc())
	}
	elem, err := llvmType(base.Elem)
	if err != nil {
		return nil, err
	}
	if _, isArray := elem.(*lltypes.ArrayType); isArray {
		zero := constant.NewInt(lltypes.I64, 0)
		return fe.block.NewGetElementPtr(elem, args[0], zero, args[1]), nil
	}
	return fe.block.NewGetElementPtr(elem, args[0], args[1]), nil
}

func isOne(v *ir.Value) bool {
	def := v.DefiningOp()
	if def == nil || def.Name() != ll.ConstOp {
		return false
	}
	a, ok := ll.ConstValue(def)
	return ok && a.Value == 1
}
