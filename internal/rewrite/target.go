package rewrite

import "hilo/internal/ir"

// Target decides operation legality. Explicit op entries win over dialect
// entries, which win over the default.
type Target struct {
	legalOps        map[string]bool
	illegalOps      map[string]bool
	legalDialects   map[string]bool
	illegalDialects map[string]bool
	// Default decides ops not covered by any entry. A nil Default treats
	// them as legal.
	Default func(op *ir.Operation) bool
}

// NewTarget returns a target under which everything is legal.
func NewTarget() *Target {
	return &Target{
		legalOps:        make(map[string]bool),
		illegalOps:      make(map[string]bool),
		legalDialects:   make(map[string]bool),
		illegalDialects: make(map[string]bool),
	}
}

// AddLegalOp marks op names legal.
func (t *Target) AddLegalOp(names ...string) *Target {
	for _, n := range names {
		t.legalOps[n] = true
		delete(t.illegalOps, n)
	}
	return t
}

// AddIllegalOp marks op names illegal.
func (t *Target) AddIllegalOp(names ...string) *Target {
	for _, n := range names {
		t.illegalOps[n] = true
		delete(t.legalOps, n)
	}
	return t
}

// AddLegalDialect marks whole dialects legal.
func (t *Target) AddLegalDialect(names ...string) *Target {
	for _, n := range names {
		t.legalDialects[n] = true
		delete(t.illegalDialects, n)
	}
	return t
}

// AddIllegalDialect marks whole dialects illegal.
func (t *Target) AddIllegalDialect(names ...string) *Target {
	for _, n := range names {
		t.illegalDialects[n] = true
		delete(t.legalDialects, n)
	}
	return t
}

// IsLegal reports whether op may remain in the converted IR.
func (t *Target) IsLegal(op *ir.Operation) bool {
	name := op.Name()
	switch {
	case t.legalOps[name]:
		return true
	case t.illegalOps[name]:
		return false
	case t.legalDialects[op.Dialect()]:
		return true
	case t.illegalDialects[op.Dialect()]:
		return false
	case t.Default != nil:
		return t.Default(op)
	}
	return true
}

// Illegal returns the illegal operations nested in root, in post-order.
func (t *Target) Illegal(root *ir.Operation) []*ir.Operation {
	var out []*ir.Operation
	for _, op := range ir.PostOrder(root) {
		if !t.IsLegal(op) {
			out = append(out, op)
		}
	}
	return out
}
