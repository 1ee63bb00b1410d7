package ir

// Listener observes mutations performed through a Builder.
type Listener interface {
	OperationInserted(op *Operation)
}

// InsertPoint is a saved builder position: before Before, or at the end of
// Block when Before is nil.
type InsertPoint struct {
	Block  *Block
	Before *Operation
}

// Builder creates operations at an insertion point.
type Builder struct {
	ip       InsertPoint
	Listener Listener
}

// NewBuilder returns a builder with no insertion point.
func NewBuilder() *Builder { return &Builder{} }

// AtEnd returns a builder appending to b.
func AtEnd(b *Block) *Builder {
	out := &Builder{}
	out.SetInsertionPointToEnd(b)
	return out
}

// Block returns the current insertion block.
func (b *Builder) Block() *Block { return b.ip.Block }

// Save returns the current insertion point.
func (b *Builder) Save() InsertPoint { return b.ip }

// Restore resets the insertion point.
func (b *Builder) Restore(ip InsertPoint) { b.ip = ip }

// SetInsertionPointToStart places new operations before the first one of blk.
func (b *Builder) SetInsertionPointToStart(blk *Block) {
	b.ip = InsertPoint{Block: blk, Before: blk.First()}
}

// SetInsertionPointToEnd places new operations at the end of blk.
func (b *Builder) SetInsertionPointToEnd(blk *Block) {
	b.ip = InsertPoint{Block: blk}
}

// SetInsertionPoint places new operations before op.
func (b *Builder) SetInsertionPoint(op *Operation) {
	b.ip = InsertPoint{Block: op.block, Before: op}
}

// SetInsertionPointAfter places new operations right after op.
func (b *Builder) SetInsertionPointAfter(op *Operation) {
	blk := op.block
	var next *Operation
	if i := blk.indexOf(op); i+1 < len(blk.ops) {
		next = blk.ops[i+1]
	}
	b.ip = InsertPoint{Block: blk, Before: next}
}

// Create builds an operation from spec and inserts it.
func (b *Builder) Create(spec OpSpec) *Operation {
	op := NewOp(spec)
	b.Insert(op)
	return op
}

// Insert places a detached operation at the insertion point.
func (b *Builder) Insert(op *Operation) {
	if b.ip.Block == nil {
		panic("ir: builder has no insertion point")
	}
	b.ip.Block.insertBefore(op, b.ip.Before)
	if b.Listener != nil {
		b.Listener.OperationInserted(op)
	}
}
