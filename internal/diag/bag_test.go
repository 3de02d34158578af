package diag

import (
	"strings"
	"testing"

	"tccl/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := bag.Add(NewError(SemaTypeMismatch, source.At(1, 1), "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
	if !bag.HasErrors() || bag.ErrorCount() != 2 {
		t.Fatalf("expected two errors, got %d", bag.ErrorCount())
	}
}

func TestBagNegativeLimitKeepsNothing(t *testing.T) {
	bag := NewBag(-1)
	if bag.Add(NewError(SemaError, source.Span{}, "x")) {
		t.Fatalf("bag with negative limit must reject diagnostics")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SemaTypeMismatch, source.At(5, 1), "late"))
	bag.Add(New(SevWarning, SemaInfo, source.At(1, 1), "warn"))
	bag.Add(NewError(SemaUndeclaredVariable, source.At(1, 1), "early"))
	bag.Add(NewError(SemaTypeMismatch, source.At(5, 1), "late"))

	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("expected dedup to drop one item, got %d", bag.Len())
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Message != "early" || items[1].Message != "warn" || items[2].Message != "late" {
		t.Fatalf("unexpected order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for i := 0; i < 3; i++ {
		ReportError(r, SemaArityMismatch, source.At(2, 3), "Missing parameter for argument").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if r.Suppressed() != 2 {
		t.Fatalf("expected 2 suppressed repeats, got %d", r.Suppressed())
	}
	ReportError(r, SemaArityMismatch, source.At(2, 4), "Missing parameter for argument").Emit()
	if bag.Len() != 2 {
		t.Fatalf("a different position must be forwarded, got %d", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	d := NewError(SemaUndeclaredVariable, source.At(3, 4), "Accessing undeclared\nvariable x").
		WithNote(source.At(1, 1), "declared here")
	out := FormatShort([]Diagnostic{d}, true)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if lines[0] != "3:4: ERROR SEM3002: Accessing undeclared variable x" {
		t.Fatalf("unexpected line %q", lines[0])
	}
	if lines[1] != "  note 1:1: declared here" {
		t.Fatalf("unexpected note %q", lines[1])
	}
}

func TestCodeID(t *testing.T) {
	if got := GenUnsupportedOperator.ID(); got != "GEN5001" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := Code(12).ID(); got != "E0000" {
		t.Fatalf("unexpected id for unknown code %q", got)
	}
}
