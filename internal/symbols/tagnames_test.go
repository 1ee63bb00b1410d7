package symbols

import (
	"errors"
	"fmt"
	"testing"

	"hilo/internal/ast"
	"hilo/internal/source"
)

func TestTagNameNested(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	outer := b.Record(tu, "Outer", false, nil, source.Unknown)
	inner := b.Record(outer, "Inner", false, nil, source.Unknown)
	e := b.Enum(inner, "Kind", nil, source.Unknown)

	names := NewTagNames()
	tests := []struct {
		tag  ast.TagDecl
		want string
	}{
		{outer, "Outer"},
		{inner, "Outer::Inner"},
		{e, "Outer::Inner::Kind"},
	}
	for _, tt := range tests {
		if got := names.Name(tt.tag); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestTagNameSkipsFunctionContext(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	fn := b.Function(tu, "f", ast.Void, source.Unknown)
	local := b.Record(fn, "Local", false, nil, source.Unknown)

	if got := NewTagNames().Name(local); got != "Local" {
		t.Fatalf("expected Local, got %q", got)
	}
}

func TestTagNameIdempotentAndCounted(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	rec := b.Record(tu, "S", false, nil, source.Unknown)

	names := NewTagNames()
	first := names.Name(rec)
	second := names.Name(rec)
	if first != second {
		t.Fatalf("names differ: %q vs %q", first, second)
	}
	if hits, misses := names.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}

func TestAnonymousNamesAreDistinct(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	a := b.Record(tu, "", false, nil, source.Unknown)
	c := b.Record(tu, "", true, nil, source.Unknown)
	inner := b.Record(a, "In", false, nil, source.Unknown)

	names := NewTagNames()
	na, nc := names.Name(a), names.Name(c)
	if na == nc {
		t.Fatalf("anonymous records share name %q", na)
	}
	if na != fmt.Sprintf("anonymous[%d]", a.ID()) {
		t.Fatalf("unexpected anonymous name %q", na)
	}
	if got := names.Name(inner); got != na+"::In" {
		t.Fatalf("expected %q, got %q", na+"::In", got)
	}
}

func TestTagNameNormalizesIdentifiers(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	decomposed := b.Record(tu, "Cafe\u0301", false, nil, source.Unknown)

	if got := NewTagNames().Name(decomposed); got != "Caf\u00e9" {
		t.Fatalf("expected NFC name, got %q", got)
	}
}

func TestTagNameUnknownContextPanics(t *testing.T) {
	b := ast.NewBuilder()
	tu := b.TranslationUnit(source.Unknown)
	ns := b.Namespace(tu, "n", source.Unknown)
	rec := b.Record(ns, "S", false, nil, source.Unknown)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnknownContext) {
			t.Fatalf("expected unknown-context panic, got %v", r)
		}
	}()
	NewTagNames().Name(rec)
}
