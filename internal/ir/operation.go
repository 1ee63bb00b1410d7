package ir

import (
	"fmt"
	"slices"
	"strings"

	"hilo/internal/source"
)

// OpSpec describes an operation to create.
type OpSpec struct {
	Name     string
	Loc      source.Span
	Operands []*Value
	Results  []Type
	Attrs    []NamedAttr
	// Regions is the number of empty regions to attach.
	Regions int
}

// Operation is a generic IR operation.
type Operation struct {
	name     string
	loc      source.Span
	operands []*Operand
	results  []*Value
	regions  []*Region
	attrs    []NamedAttr
	block    *Block
	erased   bool
}

// NewOp creates a detached operation.
func NewOp(spec OpSpec) *Operation {
	op := &Operation{
		name:  spec.Name,
		loc:   spec.Loc,
		attrs: slices.Clone(spec.Attrs),
	}
	op.SetOperands(spec.Operands)
	op.results = make([]*Value, len(spec.Results))
	for i, t := range spec.Results {
		op.results[i] = &Value{typ: t, def: op, index: i}
	}
	for range spec.Regions {
		op.AddRegion()
	}
	return op
}

func (op *Operation) Name() string { return op.name }

// Dialect returns the name prefix before the first dot.
func (op *Operation) Dialect() string {
	if i := strings.IndexByte(op.name, '.'); i >= 0 {
		return op.name[:i]
	}
	return ""
}

func (op *Operation) Loc() source.Span { return op.loc }

// SetLoc replaces the location.
func (op *Operation) SetLoc(loc source.Span) { op.loc = loc }

// IsErased reports whether the operation was erased.
func (op *Operation) IsErased() bool { return op.erased }

// Block returns the containing block, or nil for detached operations.
func (op *Operation) Block() *Block { return op.block }

// ParentOp returns the operation owning the containing region.
func (op *Operation) ParentOp() *Operation {
	if op.block == nil {
		return nil
	}
	return op.block.ParentOp()
}

// IsProperAncestor reports whether op encloses other.
func (op *Operation) IsProperAncestor(other *Operation) bool {
	for p := other.ParentOp(); p != nil; p = p.ParentOp() {
		if p == op {
			return true
		}
	}
	return false
}

// NumOperands returns the operand count.
func (op *Operation) NumOperands() int { return len(op.operands) }

// Operand returns the i-th operand value.
func (op *Operation) Operand(i int) *Value { return op.operands[i].value }

// Operands returns a snapshot of the operand values.
func (op *Operation) Operands() []*Value {
	out := make([]*Value, len(op.operands))
	for i, o := range op.operands {
		out[i] = o.value
	}
	return out
}

// SetOperand replaces the i-th operand and keeps use lists in sync.
func (op *Operation) SetOperand(i int, v *Value) { op.operands[i].set(v) }

// SetOperands replaces the whole operand list.
func (op *Operation) SetOperands(vs []*Value) {
	op.dropOperands()
	op.operands = make([]*Operand, len(vs))
	for i, v := range vs {
		slot := &Operand{owner: op, index: i}
		slot.set(v)
		op.operands[i] = slot
	}
}

func (op *Operation) dropOperands() {
	for _, o := range op.operands {
		o.set(nil)
	}
}

// NumResults returns the result count.
func (op *Operation) NumResults() int { return len(op.results) }

// Result returns the i-th result.
func (op *Operation) Result(i int) *Value { return op.results[i] }

// Results returns a snapshot of the results.
func (op *Operation) Results() []*Value { return slices.Clone(op.results) }

// ResultTypes returns the result types.
func (op *Operation) ResultTypes() []Type {
	out := make([]Type, len(op.results))
	for i, r := range op.results {
		out[i] = r.typ
	}
	return out
}

// NumRegions returns the region count.
func (op *Operation) NumRegions() int { return len(op.regions) }

// Region returns the i-th region.
func (op *Operation) Region(i int) *Region { return op.regions[i] }

// Regions returns the attached regions.
func (op *Operation) Regions() []*Region { return op.regions }

// AddRegion attaches a new empty region.
func (op *Operation) AddRegion() *Region {
	r := &Region{parent: op}
	op.regions = append(op.regions, r)
	return r
}

// Attr returns the attribute stored under name, or nil.
func (op *Operation) Attr(name string) Attribute {
	for _, na := range op.attrs {
		if na.Name == name {
			return na.Value
		}
	}
	return nil
}

// HasAttr reports whether an attribute is stored under name.
func (op *Operation) HasAttr(name string) bool { return op.Attr(name) != nil }

// Attrs returns a snapshot of the attribute list.
func (op *Operation) Attrs() []NamedAttr { return slices.Clone(op.attrs) }

// SetAttr stores or replaces an attribute, keeping first-insertion order.
func (op *Operation) SetAttr(name string, a Attribute) {
	for i := range op.attrs {
		if op.attrs[i].Name == name {
			op.attrs[i].Value = a
			return
		}
	}
	op.attrs = append(op.attrs, NamedAttr{Name: name, Value: a})
}

// RemoveAttr drops an attribute if present.
func (op *Operation) RemoveAttr(name string) {
	op.attrs = slices.DeleteFunc(op.attrs, func(na NamedAttr) bool { return na.Name == name })
}

// StringAttr returns a string attribute or "".
func (op *Operation) StringAttr(name string) string {
	if s, ok := op.Attr(name).(StringAttr); ok {
		return string(s)
	}
	return ""
}

// TypeAttr returns a type attribute or nil.
func (op *Operation) TypeAttr(name string) Type {
	if t, ok := op.Attr(name).(TypeAttr); ok {
		return t.Type
	}
	return nil
}

// Remove detaches the operation from its block without erasing it.
func (op *Operation) Remove() {
	if op.block != nil {
		op.block.remove(op)
	}
}

// MoveBefore detaches the operation and inserts it before other.
func (op *Operation) MoveBefore(other *Operation) {
	op.Remove()
	other.block.insertBefore(op, other)
}

// Erase removes the operation and everything nested in it. The results must
// not have uses left.
func (op *Operation) Erase() {
	if op.erased {
		return
	}
	for _, r := range op.results {
		if r.HasUses() {
			panic(fmt.Sprintf("ir: erasing %s whose result #%d still has %d use(s)", op.name, r.index, len(r.uses)))
		}
	}
	op.Remove()
	op.eraseTree()
}

func (op *Operation) eraseTree() {
	op.dropOperands()
	for _, r := range op.regions {
		for _, b := range r.blocks {
			for _, nested := range b.ops {
				nested.eraseTree()
				nested.block = nil
			}
			b.ops = nil
		}
	}
	op.erased = true
}

func (op *Operation) String() string {
	var sb strings.Builder
	p := newPrinter(&sb)
	p.op(op, 0)
	return strings.TrimRight(sb.String(), "\n")
}
