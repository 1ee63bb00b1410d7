package ir

import "hilo/internal/source"

const (
	ModuleOpName = "builtin.module"

	// SymNameAttr holds the symbol name of symbol-defining operations.
	SymNameAttr = "sym_name"
)

func init() {
	Register(ModuleOpName, Traits{SymbolTable: true})
}

// NewModule creates a detached module with one empty block.
func NewModule(loc source.Span) *Operation {
	m := NewOp(OpSpec{Name: ModuleOpName, Loc: loc, Regions: 1})
	m.Region(0).AddBlock()
	return m
}

// Body returns the entry block of op's first region, or nil.
func Body(op *Operation) *Block {
	if op == nil || op.NumRegions() == 0 {
		return nil
	}
	return op.Region(0).Front()
}

// SymbolName returns the sym_name attribute of op.
func SymbolName(op *Operation) string {
	return op.StringAttr(SymNameAttr)
}

// LookupSymbol finds a direct child of table whose sym_name is name.
func LookupSymbol(table *Operation, name string) *Operation {
	for _, r := range table.regions {
		for _, b := range r.blocks {
			for _, op := range b.ops {
				if SymbolName(op) == name {
					return op
				}
			}
		}
	}
	return nil
}

// LookupNearestSymbol searches the symbol tables enclosing from, innermost
// first.
func LookupNearestSymbol(from *Operation, name string) *Operation {
	for p := from.ParentOp(); p != nil; p = p.ParentOp() {
		if !TraitsOf(p.Name()).SymbolTable {
			continue
		}
		if found := LookupSymbol(p, name); found != nil {
			return found
		}
	}
	return nil
}

// Root returns the outermost operation enclosing op.
func Root(op *Operation) *Operation {
	for p := op.ParentOp(); p != nil; p = p.ParentOp() {
		op = p
	}
	return op
}
