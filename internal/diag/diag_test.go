package diag

import (
	"testing"

	"hilo/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	r.Report(New(SevInfo, CGInfo, source.Unknown, "a"))
	if bag.HasErrors() {
		t.Fatalf("info counted as error")
	}
	r.Report(NewError(CGUndeclaredSymbol, source.Unknown, "b"))
	r.Report(NewError(CGError, source.Unknown, "c"))

	if bag.Len() != 2 || !bag.HasErrors() {
		t.Fatalf("expected the bag to stop at two with an error, got %d", bag.Len())
	}
	bag.Force(New(SevInfo, IOInfo, source.Unknown, "timings"))
	if bag.Len() != 3 {
		t.Fatalf("Force should ignore the limit")
	}
	if NewBag(0).Add(New(SevInfo, CGInfo, source.Unknown, "x")) != true {
		t.Fatalf("a zero limit means unlimited")
	}
}

func TestBagSorted(t *testing.T) {
	bag := NewBag(10)
	late := source.At(1, 5, 1)
	early := source.At(1, 2, 1)
	bag.Add(NewError(CGError, late, "late"))
	bag.Add(New(SevWarning, CGUnsupported, early, "early warning"))
	bag.Add(NewError(CGError, early, "early error"))

	items := bag.Sorted()
	got := []string{items[0].Message, items[1].Message, items[2].Message}
	want := []string{"early error", "early warning", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %q, want %q", got, want)
		}
	}
	if bag.Items()[0].Message != "late" {
		t.Errorf("Sorted must not reorder the bag")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, CGUndeclaredSymbol, source.At(1, 1, 1), "undeclared function 'g'").Emit()
	}
	ReportError(r, CGUndeclaredSymbol, source.At(1, 2, 1), "undeclared function 'g'").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected two diagnostics, got %d", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, LowerFailed, source.Unknown, "boom").
		WithNote(source.At(1, 1, 1), "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("unexpected bag contents %+v", bag.Items())
	}
	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(source.Unknown, "ignored").Emit()
}

func TestWithNoteCopies(t *testing.T) {
	base := NewError(CGError, source.Unknown, "x").WithNote(source.Unknown, "first")
	a := base.WithNote(source.Unknown, "a")
	b := base.WithNote(source.Unknown, "b")
	if a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" || len(base.Notes) != 1 {
		t.Fatalf("notes are shared between copies: %+v %+v", a.Notes, b.Notes)
	}
}

func TestFormat(t *testing.T) {
	d := NewError(LowerFailed, source.At(2, 3, 4), "failed\nto lower").WithNote(source.Unknown, "see here")
	want := "error LOW5002 loc(2:3:4) failed to lower\n  note loc(unknown) see here"
	if got := Format([]Diagnostic{d}); got != want {
		t.Fatalf("unexpected rendering:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		CGUndeclaredSymbol: "CG4001",
		LowerInternal:      "LOW5001",
		IOSnapshotVersion:  "IO6004",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
	if SevWarning.String() != "WARNING" || Severity(9).String() != "UNKNOWN" {
		t.Errorf("unexpected severity names")
	}
}
