package ir

// Traits are static properties of an operation name.
type Traits struct {
	// SymbolTable ops own a namespace of sym_name children.
	SymbolTable bool
	// Terminator ops must end their block.
	Terminator bool
	// Verify checks op-specific invariants.
	Verify func(op *Operation) error
}

var registry = map[string]Traits{}

// Register records traits for an operation name. It must only be called from
// package init functions.
func Register(name string, t Traits) {
	registry[name] = t
}

// TraitsOf returns the registered traits, or the zero value.
func TraitsOf(name string) Traits {
	return registry[name]
}

// IsRegistered reports whether name has registered traits.
func IsRegistered(name string) bool {
	_, ok := registry[name]
	return ok
}

// IsTerminated reports whether b ends in a terminator.
func IsTerminated(b *Block) bool {
	last := b.Last()
	return last != nil && TraitsOf(last.Name()).Terminator
}
