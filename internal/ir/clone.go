package ir

import "slices"

// Mapping translates values of a source tree to values of its clone.
type Mapping map[*Value]*Value

func (m Mapping) lookup(v *Value) *Value {
	if nv, ok := m[v]; ok {
		return nv
	}
	return v
}

// Clone deep-copies op with all regions. Operands defined outside op keep
// referring to the original values.
func Clone(op *Operation) *Operation {
	return CloneWith(op, Mapping{})
}

// CloneWith deep-copies op, recording every value correspondence in m.
func CloneWith(op *Operation, m Mapping) *Operation {
	operands := make([]*Value, len(op.operands))
	for i, o := range op.operands {
		operands[i] = m.lookup(o.value)
	}
	out := NewOp(OpSpec{
		Name:     op.name,
		Loc:      op.loc,
		Operands: operands,
		Results:  op.ResultTypes(),
		Attrs:    slices.Clone(op.attrs),
	})
	for i, r := range op.results {
		m[r] = out.results[i]
	}
	for _, r := range op.regions {
		nr := out.AddRegion()
		blocks := make([]*Block, len(r.blocks))
		for i, b := range r.blocks {
			nb := nr.AddBlock()
			for _, a := range b.args {
				m[a] = nb.AddArg(a.typ)
			}
			blocks[i] = nb
		}
		for i, b := range r.blocks {
			for _, nested := range b.ops {
				blocks[i].Append(CloneWith(nested, m))
			}
		}
	}
	return out
}
