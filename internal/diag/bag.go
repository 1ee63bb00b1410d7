package diag

import (
	"cmp"
	"slices"
)

// Bag accumulates the diagnostics of one file. Add stops at the limit
// given to NewBag; Force ignores it.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag returns a bag holding at most limit diagnostics. A limit of zero
// or less means no limit.
func NewBag(limit int) *Bag {
	if limit <= 0 {
		limit = int(^uint(0) >> 1)
	}
	return &Bag{limit: limit}
}

// Add appends d and reports whether it was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force appends d even when the bag is full.
func (b *Bag) Force(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the diagnostics in report order. The slice aliases the bag.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sorted returns a copy ordered by file and position. Ties keep report
// order after placing higher severities first.
func (b *Bag) Sorted() []Diagnostic {
	out := slices.Clone(b.items)
	slices.SortStableFunc(out, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			comparePos(x.Primary.Start, y.Primary.Start),
			comparePos(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
		)
	})
	return out
}
