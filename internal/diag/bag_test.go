package diag

import (
	"testing"

	"constlit/internal/source"
)

func TestBagSortKeepsDiscoveryOrderAtSameLocation(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaIllegalCapture, source.Span{File: 1, Start: 40, End: 45}, "late"))
	bag.Add(NewError(SemaIllegalCapture, source.Span{File: 1, Start: 10, End: 12}, "first"))
	bag.Add(NewError(SemaUnresolvedSymbol, source.Span{File: 1, Start: 10, End: 12}, "second"))
	bag.Add(NewError(SemaIllegalCapture, source.Span{File: 0, Start: 99, End: 100}, "other file"))

	bag.Sort()

	want := []string{"other file", "first", "second", "late"}
	for i, d := range bag.Items() {
		if d.Message != want[i] {
			t.Fatalf("position %d: want %q, got %q", i, want[i], d.Message)
		}
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewError(SemaError, source.Span{}, "a")) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(NewError(SemaError, source.Span{}, "b")) {
		t.Fatalf("second add must hit the limit")
	}

	other := NewBag(0)
	other.Add(NewError(SemaError, source.Span{}, "c"))
	other.Add(New(SevWarning, SemaError, source.Span{}, "d"))
	bag.Merge(other)
	if bag.Len() != 3 {
		t.Fatalf("expected merge to grow the bag to 3, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	bag.Truncate(2)
	if bag.Len() != 2 {
		t.Fatalf("expected truncate to 2, got %d", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{File: 2, Start: 1, End: 3}
	ReportError(r, SemaIllegalCapture, span, "capture").Emit()
	ReportError(r, SemaIllegalCapture, span, "capture").Emit()
	ReportError(r, SemaIllegalCapture, span, "other").Emit()
	if bag.Len() != 2 || r.Suppressed() != 1 {
		t.Fatalf("expected 2 unique diagnostics and 1 repeat, got %d/%d", bag.Len(), r.Suppressed())
	}
}

func TestSeverityNames(t *testing.T) {
	if SevError.String() != "ERROR" || SevWarning.Label() != "warning" || Severity(9).String() != "UNKNOWN" {
		t.Fatalf("unexpected severity names")
	}
}

func TestCodeCategory(t *testing.T) {
	cases := map[Code]Category{
		SemaUnresolvedSymbol:     CategoryUnresolvedIdentifier,
		SemaUseBeforeDeclaration: CategoryUnresolvedIdentifier,
		SemaIllegalCapture:       CategoryIllegalCapture,
		SynMalformedLiteral:      CategoryMalformedLiteral,
		SemaDuplicateSymbol:      CategoryOther,
	}
	for code, want := range cases {
		if got := code.Category(); got != want {
			t.Fatalf("%s: want %s, got %s", code.ID(), want, got)
		}
	}
	if SemaIllegalCapture.ID() != "SEM3010" {
		t.Fatalf("unexpected ID %s", SemaIllegalCapture.ID())
	}
}
