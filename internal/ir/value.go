package ir

import "slices"

// Value is an SSA value: either an operation result or a block argument.
type Value struct {
	typ   Type
	def   *Operation
	block *Block
	index int
	uses  []*Operand
}

// Operand is one operand slot of an operation.
type Operand struct {
	owner *Operation
	index int
	value *Value
}

// Owner returns the operation holding the slot.
func (o *Operand) Owner() *Operation { return o.owner }

// Index returns the slot position in the owner's operand list.
func (o *Operand) Index() int { return o.index }

// Value returns the value currently stored in the slot.
func (o *Operand) Value() *Value { return o.value }

func (o *Operand) set(v *Value) {
	if o.value == v {
		return
	}
	if o.value != nil {
		o.value.removeUse(o)
	}
	o.value = v
	if v != nil {
		v.uses = append(v.uses, o)
	}
}

func (v *Value) Type() Type { return v.typ }

// SetType retypes the value in place.
func (v *Value) SetType(t Type) { v.typ = t }

// DefiningOp returns the producing operation, or nil for block arguments.
func (v *Value) DefiningOp() *Operation { return v.def }

// OwnerBlock returns the block the value is defined in.
func (v *Value) OwnerBlock() *Block {
	if v.block != nil {
		return v.block
	}
	if v.def != nil {
		return v.def.block
	}
	return nil
}

// IsBlockArgument reports whether the value is a block argument.
func (v *Value) IsBlockArgument() bool { return v.block != nil }

// Index is the result number or the argument number.
func (v *Value) Index() int { return v.index }

// Uses returns a snapshot of the operand slots referring to v.
func (v *Value) Uses() []*Operand { return slices.Clone(v.uses) }

// HasUses reports whether any operand refers to v.
func (v *Value) HasUses() bool { return len(v.uses) > 0 }

// Users returns the distinct operations using v, in use order.
func (v *Value) Users() []*Operation {
	out := make([]*Operation, 0, len(v.uses))
	for _, u := range v.uses {
		if !slices.Contains(out, u.owner) {
			out = append(out, u.owner)
		}
	}
	return out
}

// ReplaceAllUsesWith redirects every use of v to nv.
func (v *Value) ReplaceAllUsesWith(nv *Value) {
	if v == nv {
		return
	}
	uses := v.uses
	v.uses = nil
	for _, u := range uses {
		u.value = nv
		if nv != nil {
			nv.uses = append(nv.uses, u)
		}
	}
}

// ReplaceUsesExcept redirects every use of v to nv except uses held by skip.
func (v *Value) ReplaceUsesExcept(nv *Value, skip *Operation) {
	for _, u := range v.Uses() {
		if u.owner != skip {
			u.set(nv)
		}
	}
}

func (v *Value) removeUse(o *Operand) {
	if i := slices.Index(v.uses, o); i >= 0 {
		v.uses = slices.Delete(v.uses, i, i+1)
	}
}
