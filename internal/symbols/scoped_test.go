package symbols

import (
	"errors"
	"testing"
)

func TestScopeLeak(t *testing.T) {
	tab := NewScopedTable[string, int]("vars")
	tab.Push()
	tab.Push()
	tab.Bind("x", 1)
	tab.Pop()

	if _, ok := tab.Lookup("x"); ok {
		t.Fatalf("binding leaked out of popped scope")
	}
	if err := tab.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestShadowing(t *testing.T) {
	tab := NewScopedTable[string, int]("vars")
	tab.Push()
	tab.Bind("x", 1)
	tab.Push()
	tab.Bind("x", 2)

	if v, _ := tab.Lookup("x"); v != 2 {
		t.Fatalf("expected inner binding 2, got %d", v)
	}
	tab.Pop()
	if v, _ := tab.Lookup("x"); v != 1 {
		t.Fatalf("expected outer binding 1 after pop, got %d", v)
	}
}

func TestRebindSameScopeShadowsSilently(t *testing.T) {
	tab := NewScopedTable[string, int]("vars")
	tab.Push()
	tab.Bind("x", 1)
	tab.Bind("x", 3)

	if v, _ := tab.LookupLocal("x"); v != 3 {
		t.Fatalf("expected rebinding to win, got %d", v)
	}
	if tab.Len() != 1 {
		t.Fatalf("expected one visible binding, got %d", tab.Len())
	}
	if err := tab.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestPopUnderflowPanics(t *testing.T) {
	tab := NewScopedTable[string, int]("labels")
	tab.Push()
	tab.Pop()

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrScopeUnderflow) {
			t.Fatalf("expected scope underflow panic, got %v", r)
		}
	}()
	tab.Pop()
}

func TestBindWithoutScopePanics(t *testing.T) {
	tab := NewScopedTable[string, int]("vars")
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoScope) {
			t.Fatalf("expected no-scope panic, got %v", r)
		}
	}()
	tab.Bind("x", 1)
}

func TestScopedPopsOnPanic(t *testing.T) {
	tab := NewScopedTable[string, int]("vars")
	tab.Push()
	func() {
		defer func() { _ = recover() }()
		tab.Scoped(func() {
			tab.Bind("y", 1)
			panic("boom")
		})
	}()
	if tab.Depth() != 1 {
		t.Fatalf("expected depth 1 after panic, got %d", tab.Depth())
	}
	if _, ok := tab.Lookup("y"); ok {
		t.Fatalf("binding survived the scoped call")
	}
}

func TestRecoverConvertsInternalErrors(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		NewScopedTable[int, int]("enums").Pop()
		return nil
	}
	err := run()
	var ie *InternalError
	if !errors.As(err, &ie) || ie.Op != "pop" {
		t.Fatalf("expected recovered internal error, got %v", err)
	}
}
