package rewrite

import (
	"fmt"

	"hilo/internal/ir"
)

// Rewriter is the only way patterns may change the IR. It counts every
// mutation so that the driver can check the decline contract.
type Rewriter struct {
	*ir.Builder
	mutations int
}

// NewRewriter returns a rewriter with no insertion point.
func NewRewriter() *Rewriter {
	rw := &Rewriter{Builder: ir.NewBuilder()}
	rw.Listener = rw
	return rw
}

// OperationInserted implements ir.Listener.
func (rw *Rewriter) OperationInserted(*ir.Operation) { rw.mutations++ }

// Mutations returns the number of changes made so far.
func (rw *Rewriter) Mutations() int { return rw.mutations }

// ReplaceOp redirects the results of op to vals and erases op.
func (rw *Rewriter) ReplaceOp(op *ir.Operation, vals ...*ir.Value) {
	if len(vals) != op.NumResults() {
		panic(&InternalError{Op: op.Name(), Detail: fmt.Sprintf("replaced %d result(s) with %d value(s)", op.NumResults(), len(vals))})
	}
	for i, v := range vals {
		op.Result(i).ReplaceAllUsesWith(v)
	}
	rw.EraseOp(op)
}

// EraseOp erases op, which must have no remaining uses.
func (rw *Rewriter) EraseOp(op *ir.Operation) {
	for _, r := range op.Results() {
		if r.HasUses() {
			panic(&InternalError{Op: op.Name(), Detail: fmt.Sprintf("erased while result #%d has %d use(s)", r.Index(), len(r.Uses()))})
		}
	}
	op.Erase()
	rw.mutations++
}

// ReplaceAllUsesWith redirects every use of from to to.
func (rw *Rewriter) ReplaceAllUsesWith(from, to *ir.Value) {
	from.ReplaceAllUsesWith(to)
	rw.mutations++
}

// ModifyInPlace runs fn, which changes op without replacing it.
func (rw *Rewriter) ModifyInPlace(op *ir.Operation, fn func()) {
	fn()
	rw.mutations++
}

// SetType changes the type of v.
func (rw *Rewriter) SetType(v *ir.Value, t ir.Type) {
	v.SetType(t)
	rw.mutations++
}

// MoveOpBefore moves op in front of anchor.
func (rw *Rewriter) MoveOpBefore(op, anchor *ir.Operation) {
	op.MoveBefore(anchor)
	rw.mutations++
}

// InlineBlockBefore moves every op of src in front of anchor, replacing the
// block arguments of src with args. src is left empty.
func (rw *Rewriter) InlineBlockBefore(src *ir.Block, anchor *ir.Operation, args []*ir.Value) {
	if len(args) != src.NumArgs() {
		panic(&InternalError{Op: anchor.Name(), Detail: fmt.Sprintf("inlining a block of %d argument(s) with %d value(s)", src.NumArgs(), len(args))})
	}
	for i, a := range src.Args() {
		a.ReplaceAllUsesWith(args[i])
	}
	for _, op := range src.Ops() {
		op.MoveBefore(anchor)
	}
	rw.mutations++
}

// TakeBody moves the blocks of src into dst.
func (rw *Rewriter) TakeBody(dst, src *ir.Region) {
	dst.TakeBody(src)
	rw.mutations++
}
