package ir

import "slices"

// Block is a list of operations with typed arguments.
type Block struct {
	args   []*Value
	ops    []*Operation
	region *Region
}

// Args returns the block arguments.
func (b *Block) Args() []*Value { return b.args }

// Arg returns the i-th argument.
func (b *Block) Arg(i int) *Value { return b.args[i] }

// NumArgs returns the argument count.
func (b *Block) NumArgs() int { return len(b.args) }

// AddArg appends an argument of type t.
func (b *Block) AddArg(t Type) *Value {
	v := &Value{typ: t, block: b, index: len(b.args)}
	b.args = append(b.args, v)
	return v
}

// Ops returns a snapshot of the operations in order.
func (b *Block) Ops() []*Operation { return slices.Clone(b.ops) }

// Len returns the number of operations.
func (b *Block) Len() int { return len(b.ops) }

// Empty reports whether the block holds no operation.
func (b *Block) Empty() bool { return len(b.ops) == 0 }

// First returns the first operation or nil.
func (b *Block) First() *Operation {
	if len(b.ops) == 0 {
		return nil
	}
	return b.ops[0]
}

// Last returns the last operation or nil.
func (b *Block) Last() *Operation {
	if len(b.ops) == 0 {
		return nil
	}
	return b.ops[len(b.ops)-1]
}

// Region returns the owning region.
func (b *Block) Region() *Region { return b.region }

// ParentOp returns the operation owning the block's region.
func (b *Block) ParentOp() *Operation {
	if b.region == nil {
		return nil
	}
	return b.region.parent
}

// Append adds a detached operation at the end of the block.
func (b *Block) Append(op *Operation) { b.insertBefore(op, nil) }

// IsAncestorOf reports whether b is other or encloses it.
func (b *Block) IsAncestorOf(other *Block) bool {
	for other != nil {
		if other == b {
			return true
		}
		parent := other.ParentOp()
		if parent == nil {
			return false
		}
		other = parent.block
	}
	return false
}

func (b *Block) indexOf(op *Operation) int {
	return slices.Index(b.ops, op)
}

// insertBefore inserts op before anchor, or at the end when anchor is nil.
func (b *Block) insertBefore(op *Operation, anchor *Operation) {
	if op.block != nil {
		panic("ir: inserting an operation that is still attached")
	}
	at := len(b.ops)
	if anchor != nil {
		if at = b.indexOf(anchor); at < 0 {
			panic("ir: insertion anchor is not in block")
		}
	}
	b.ops = slices.Insert(b.ops, at, op)
	op.block = b
}

func (b *Block) remove(op *Operation) {
	if i := b.indexOf(op); i >= 0 {
		b.ops = slices.Delete(b.ops, i, i+1)
	}
	op.block = nil
}

// Region is an ordered list of blocks owned by an operation.
type Region struct {
	blocks []*Block
	parent *Operation
}

// Blocks returns the blocks in order.
func (r *Region) Blocks() []*Block { return r.blocks }

// Empty reports whether the region holds no block.
func (r *Region) Empty() bool { return len(r.blocks) == 0 }

// Front returns the entry block or nil.
func (r *Region) Front() *Block {
	if len(r.blocks) == 0 {
		return nil
	}
	return r.blocks[0]
}

// ParentOp returns the owning operation.
func (r *Region) ParentOp() *Operation { return r.parent }

// AddBlock appends a new empty block.
func (r *Region) AddBlock() *Block {
	b := &Block{region: r}
	r.blocks = append(r.blocks, b)
	return b
}

// TakeBody moves every block of src to the end of r.
func (r *Region) TakeBody(src *Region) {
	for _, b := range src.blocks {
		b.region = r
	}
	r.blocks = append(r.blocks, src.blocks...)
	src.blocks = nil
}
