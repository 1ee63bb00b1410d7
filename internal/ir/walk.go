package ir

// Walk visits op and every nested operation in pre-order. When fn returns
// false the regions of that operation are skipped.
func Walk(op *Operation, fn func(*Operation) bool) {
	if !fn(op) {
		return
	}
	for _, r := range op.regions {
		for _, b := range r.blocks {
			for _, nested := range b.Ops() {
				Walk(nested, fn)
			}
		}
	}
}

// PostOrder returns op and every nested operation, innermost first, with op
// itself last. The result is a snapshot: mutating the IR does not change it.
func PostOrder(op *Operation) []*Operation {
	var out []*Operation
	var visit func(*Operation)
	visit = func(o *Operation) {
		for _, r := range o.regions {
			for _, b := range r.blocks {
				for _, nested := range b.ops {
					visit(nested)
				}
			}
		}
		out = append(out, o)
	}
	visit(op)
	return out
}

// Collect returns every nested operation (op included) named name, in
// pre-order.
func Collect(op *Operation, name string) []*Operation {
	var out []*Operation
	Walk(op, func(o *Operation) bool {
		if o.name == name {
			out = append(out, o)
		}
		return true
	})
	return out
}
