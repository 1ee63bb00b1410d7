package layout

import (
	"fortio.org/safecast"

	"hilo/internal/hl"
	"hilo/internal/ir"
	"hilo/internal/ll"
)

// DataLayout answers size queries for IR types under one dl_spec.
type DataLayout struct {
	spec   SpecAttr
	target Target
}

// Analysis resolves the data layout in effect at an operation.
type Analysis struct {
	Target Target

	cache map[*ir.Operation]*DataLayout
}

// NewAnalysis returns an analysis falling back to target defaults.
func NewAnalysis(target Target) *Analysis {
	return &Analysis{Target: target, cache: make(map[*ir.Operation]*DataLayout)}
}

// AtOrAbove returns the layout of the closest operation enclosing (or equal
// to) op that carries a dl_spec. Without one, target defaults apply.
func (a *Analysis) AtOrAbove(op *ir.Operation) *DataLayout {
	var holder *ir.Operation
	for p := op; p != nil; p = p.ParentOp() {
		if _, ok := p.Attr(SpecAttrName).(SpecAttr); ok {
			holder = p
			break
		}
	}
	if dl, ok := a.cache[holder]; ok {
		return dl
	}
	dl := &DataLayout{target: a.Target}
	if holder != nil {
		dl.spec = holder.Attr(SpecAttrName).(SpecAttr)
	}
	a.cache[holder] = dl
	return dl
}

// Invalidate drops cached layouts, e.g. after the spec attribute changed.
func (a *Analysis) Invalidate() {
	clear(a.cache)
}

// TypeSizeInBits returns the size of t. Spec entries override the natural
// size; integers default to their width, index to the target index width.
func (dl *DataLayout) TypeSizeInBits(t ir.Type) uint64 {
	if e, ok := dl.spec.Lookup(t); ok {
		return e.SizeBits
	}
	switch t := t.(type) {
	case *ir.IntegerType:
		return bits(t.Width)
	case *ir.IndexType:
		return bits(dl.IndexBits())
	case *ll.ArrayType:
		n, err := safecast.Conv[uint64](t.Len)
		if err != nil {
			return 0
		}
		return n * dl.TypeSizeInBits(t.Elem)
	case *hl.ArrayType:
		shape, elem := t.Flatten()
		total := dl.TypeSizeInBits(elem)
		for _, d := range shape {
			n, err := safecast.Conv[uint64](d)
			if err != nil {
				return 0
			}
			total *= n
		}
		return total
	case *hl.LValueType:
		return dl.TypeSizeInBits(t.Elem)
	}
	// Pointers, functions and anything opaque are pointer sized.
	return bits(dl.target.PointerBits())
}

func bits(n int) uint64 {
	v, err := safecast.Conv[uint64](n)
	if err != nil {
		return 0
	}
	return v
}

// ABIAlignBits returns the ABI alignment of t.
func (dl *DataLayout) ABIAlignBits(t ir.Type) uint64 {
	if e, ok := dl.spec.Lookup(t); ok {
		return e.AlignBits
	}
	size := dl.TypeSizeInBits(t)
	align := uint64(8)
	for align < size && align < 64 {
		align *= 2
	}
	return align
}

// IndexBits returns the width of the index type.
func (dl *DataLayout) IndexBits() int {
	if e, ok := dl.spec.Lookup(ir.Index); ok {
		if n, err := safecast.Conv[int](e.SizeBits); err == nil {
			return n
		}
	}
	return dl.target.IndexWidth()
}

// Spec returns the underlying specification.
func (dl *DataLayout) Spec() SpecAttr { return dl.spec }
