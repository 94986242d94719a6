package ranklist

import (
	"reflect"
	"testing"
)

func TestMapIdentifiers(t *testing.T) {
	pairs := []IdentifierPair{
		{Source: "A", Target: "x"},
		{Source: "A", Target: "y"},
		{Source: "B", Target: "z"},
	}

	m := MapIdentifiers(pairs, KeepFirst)
	if m.Len() != 2 {
		t.Fatalf("Len: got %d, expected 2", m.Len())
	}
	if target, ok := m.Target("A"); !ok || target != "x" {
		t.Fatalf("A: got %q, %v; expected first occurrence x", target, ok)
	}
	if target, ok := m.Target("B"); !ok || target != "z" {
		t.Fatalf("B: got %q, %v", target, ok)
	}
	if got := m.Sources(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("Sources order: got %v", got)
	}

	m = MapIdentifiers(pairs, KeepLast)
	if target, _ := m.Target("A"); target != "y" {
		t.Fatalf("A under KeepLast: got %q, expected y", target)
	}
}

func TestMapIdentifiersOmitsNothingSilently(t *testing.T) {
	m := MapIdentifiers(nil, KeepFirst)
	if m.Len() != 0 {
		t.Fatalf("empty lookup output should produce an empty mapping, got %d entries", m.Len())
	}
	if _, ok := m.Target("A"); ok {
		t.Fatal("unmapped source reported as mapped")
	}
}

func TestBuildSecondaryRankedSeries(t *testing.T) {
	records := []GeneRecord{rec("TP53", 2.0), rec("XYZ", 1.0), rec("BRCA1", -1.0)}
	mapping := MapIdentifiers([]IdentifierPair{
		{Source: "TP53", Target: "7157"},
		{Source: "BRCA1", Target: "672"},
	}, KeepFirst)

	s, err := BuildSecondaryRankedSeries(records, mapping, KeepLast)
	if err != nil {
		t.Fatal(err)
	}

	// XYZ has no mapping and is dropped without error.
	if got, expected := s.IDs(), []string{"7157", "672"}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("IDs: got %v, expected %v", got, expected)
	}
	if got, expected := s.Scores(), []float64{2.0, -1.0}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("scores: got %v, expected %v", got, expected)
	}
}

func TestBuildSecondaryRankedSeriesErrors(t *testing.T) {
	mapping := MapIdentifiers([]IdentifierPair{{Source: "A", Target: "x"}}, KeepFirst)

	if _, err := BuildSecondaryRankedSeries(nil, mapping, KeepLast); err != ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}

	disjoint := []GeneRecord{rec("M", 1.0), rec("N", 2.0)}
	if _, err := BuildSecondaryRankedSeries(disjoint, mapping, KeepLast); err != ErrNoMappedIdentifiers {
		t.Fatalf("expected ErrNoMappedIdentifiers, got %v", err)
	}

	allNull := []GeneRecord{nullRec("A")}
	if _, err := BuildSecondaryRankedSeries(allNull, mapping, KeepLast); err != ErrAllScoresMissing {
		t.Fatalf("expected ErrAllScoresMissing, got %v", err)
	}
}

func TestSecondarySeriesMergesSharedTargets(t *testing.T) {
	// Two symbols mapping to the same target collapse under the duplicate
	// policy after re-keying.
	records := []GeneRecord{rec("A", 1.0), rec("B", 5.0)}
	mapping := MapIdentifiers([]IdentifierPair{
		{Source: "A", Target: "100"},
		{Source: "B", Target: "100"},
	}, KeepFirst)

	s, err := BuildSecondaryRankedSeries(records, mapping, KeepLast)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry after collapse, got %d", s.Len())
	}
	if v, _ := s.Score("100"); v != 5.0 {
		t.Fatalf("KeepLast should retain B's score, got %v", v)
	}
}
