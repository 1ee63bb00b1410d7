package symbols

import "fmt"

type frame[K comparable, V any] struct {
	entries map[K]V
	// order logs binds; a key rebound in the same frame appears twice.
	order []K
}

// ScopedTable maps keys to values under lexical scoping.
type ScopedTable[K comparable, V any] struct {
	name   string
	frames []frame[K, V]
}

// NewScopedTable creates a table with no open scope. The name only appears in
// internal-error messages.
func NewScopedTable[K comparable, V any](name string) *ScopedTable[K, V] {
	return &ScopedTable[K, V]{name: name}
}

// Name returns the table's name.
func (t *ScopedTable[K, V]) Name() string { return t.name }

// Depth returns the number of open scopes.
func (t *ScopedTable[K, V]) Depth() int { return len(t.frames) }

// Push opens a new innermost scope.
func (t *ScopedTable[K, V]) Push() {
	t.frames = append(t.frames, frame[K, V]{entries: make(map[K]V)})
}

// Pop closes the innermost scope and drops its bindings.
func (t *ScopedTable[K, V]) Pop() {
	if len(t.frames) == 0 {
		panic(&InternalError{Op: "pop", Detail: t.name, Err: ErrScopeUnderflow})
	}
	t.frames[len(t.frames)-1] = frame[K, V]{}
	t.frames = t.frames[:len(t.frames)-1]
}

// Scoped runs fn inside a fresh scope. The scope is popped even if fn
// panics.
func (t *ScopedTable[K, V]) Scoped(fn func()) {
	t.Push()
	depth := len(t.frames)
	defer func() {
		if len(t.frames) == depth {
			t.Pop()
		}
	}()
	fn()
}

// Bind inserts k into the innermost scope, shadowing outer bindings and any
// earlier binding of k in the same scope.
func (t *ScopedTable[K, V]) Bind(k K, v V) {
	f := t.innermost("bind")
	f.entries[k] = v
	f.order = append(f.order, k)
}

// Lookup searches from the innermost scope outwards.
func (t *ScopedTable[K, V]) Lookup(k K) (V, bool) {
	t.innermost("lookup")
	for i := len(t.frames) - 1; i >= 0; i-- {
		if v, ok := t.frames[i].entries[k]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// LookupLocal searches the innermost scope only.
func (t *ScopedTable[K, V]) LookupLocal(k K) (V, bool) {
	v, ok := t.innermost("lookup").entries[k]
	return v, ok
}

// Len returns the number of visible bindings, counting shadowed keys once.
func (t *ScopedTable[K, V]) Len() int {
	seen := make(map[K]struct{})
	for _, f := range t.frames {
		for k := range f.entries {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

func (t *ScopedTable[K, V]) innermost(op string) *frame[K, V] {
	if len(t.frames) == 0 {
		panic(&InternalError{Op: op, Detail: t.name, Err: ErrNoScope})
	}
	return &t.frames[len(t.frames)-1]
}

// Validate checks that every frame's log agrees with its entries.
func (t *ScopedTable[K, V]) Validate() error {
	for i, f := range t.frames {
		if f.entries == nil {
			return fmt.Errorf("%s: frame %d has no entry map", t.name, i)
		}
		logged := make(map[K]struct{}, len(f.order))
		for _, k := range f.order {
			if _, ok := f.entries[k]; !ok {
				return fmt.Errorf("%s: frame %d logs %v without an entry", t.name, i, k)
			}
			logged[k] = struct{}{}
		}
		if len(logged) != len(f.entries) {
			return fmt.Errorf("%s: frame %d has %d entries but logs %d keys", t.name, i, len(f.entries), len(logged))
		}
	}
	return nil
}
