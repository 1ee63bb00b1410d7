package rewrite

import (
	"fmt"

	"hilo/internal/ir"
)

// Pattern rewrites one kind of operation.
//
// MatchAndRewrite returns nil after rewriting op, or an error wrapping
// ErrNoMatch to decline. A declining pattern must leave the IR untouched, so
// every precondition has to be checked before anything is built.
type Pattern interface {
	// Kind is the operation name the pattern matches.
	Kind() string
	MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error
}

// Named patterns report Name in traces and internal errors.
type Named interface {
	Name() string
}

// PatternName returns a printable name for p.
func PatternName(p Pattern) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

// PatternSet groups patterns by Kind, keeping insertion order.
type PatternSet struct {
	byKind map[string][]Pattern
	n      int
}

// NewPatternSet returns a set holding ps.
func NewPatternSet(ps ...Pattern) *PatternSet {
	s := &PatternSet{byKind: make(map[string][]Pattern)}
	s.Add(ps...)
	return s
}

// Add appends patterns.
func (s *PatternSet) Add(ps ...Pattern) {
	for _, p := range ps {
		s.byKind[p.Kind()] = append(s.byKind[p.Kind()], p)
		s.n++
	}
}

// For returns the patterns matching name, in insertion order.
func (s *PatternSet) For(name string) []Pattern { return s.byKind[name] }

// Len returns the number of patterns.
func (s *PatternSet) Len() int { return s.n }

// PatternFunc adapts a function to Pattern.
type PatternFunc struct {
	Op      string
	Label   string
	Rewrite func(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error
}

func (p PatternFunc) Kind() string { return p.Op }

func (p PatternFunc) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Op
}

func (p PatternFunc) MatchAndRewrite(op *ir.Operation, operands []*ir.Value, rw *Rewriter) error {
	return p.Rewrite(op, operands, rw)
}
