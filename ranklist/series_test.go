package ranklist

import (
	"math"
	"reflect"
	"testing"

	"gopkg.in/guregu/null.v3"
)

func rec(symbol string, score float64) GeneRecord {
	return GeneRecord{Symbol: symbol, Log2FoldChange: null.FloatFrom(score)}
}

func nullRec(symbol string) GeneRecord {
	return GeneRecord{Symbol: symbol}
}

func TestBuildPrimaryRankedSeries(t *testing.T) {
	for _, v := range []struct {
		name    string
		records []GeneRecord
		policy  DuplicatePolicy
		ids     []string
		scores  []float64
	}{
		{
			name:    "LaterDuplicateWins",
			records: []GeneRecord{rec("A", 1.0), rec("B", 3.0), rec("A", 2.0)},
			policy:  KeepLast,
			ids:     []string{"B", "A"},
			scores:  []float64{3.0, 2.0},
		},
		{
			name:    "FirstDuplicateWins",
			records: []GeneRecord{rec("A", 1.0), rec("B", 3.0), rec("A", 2.0)},
			policy:  KeepFirst,
			ids:     []string{"B", "A"},
			scores:  []float64{3.0, 1.0},
		},
		{
			name:    "TiesKeepInputOrder",
			records: []GeneRecord{rec("A", 1.0), rec("B", 2.0), rec("C", 1.0)},
			policy:  KeepLast,
			ids:     []string{"B", "A", "C"},
			scores:  []float64{2.0, 1.0, 1.0},
		},
		{
			name:    "NullScoresDropped",
			records: []GeneRecord{nullRec("A"), rec("B", 1.0)},
			policy:  KeepLast,
			ids:     []string{"B"},
			scores:  []float64{1.0},
		},
		{
			name:    "LateNullOverwritesUnderKeepLast",
			records: []GeneRecord{rec("A", 1.0), rec("B", 2.0), nullRec("A")},
			policy:  KeepLast,
			ids:     []string{"B"},
			scores:  []float64{2.0},
		},
		{
			name:    "LateNullIgnoredUnderKeepFirst",
			records: []GeneRecord{rec("A", 1.0), rec("B", 2.0), nullRec("A")},
			policy:  KeepFirst,
			ids:     []string{"B", "A"},
			scores:  []float64{2.0, 1.0},
		},
	} {
		s, err := BuildPrimaryRankedSeries(v.records, v.policy)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", v.name, err)
		}
		if got := s.IDs(); !reflect.DeepEqual(got, v.ids) {
			t.Fatalf("%s: IDs mismatch\ngot: %v\nexpected: %v", v.name, got, v.ids)
		}
		if got := s.Scores(); !reflect.DeepEqual(got, v.scores) {
			t.Fatalf("%s: scores mismatch\ngot: %v\nexpected: %v", v.name, got, v.scores)
		}
	}
}

func TestBuildPrimaryRankedSeriesErrors(t *testing.T) {
	if _, err := BuildPrimaryRankedSeries(nil, KeepLast); err != ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := BuildPrimaryRankedSeries([]GeneRecord{nullRec("A"), nullRec("B")}, KeepLast); err != ErrAllScoresMissing {
		t.Fatalf("expected ErrAllScoresMissing, got %v", err)
	}
}

func TestRankedSeriesInvariants(t *testing.T) {
	records := []GeneRecord{
		rec("G1", -0.5), rec("G2", 2.5), nullRec("G3"), rec("G4", 2.5),
		rec("G2", 1.5), rec("G5", 0.0), rec("G6", -3.25), rec("G7", 1.5),
	}

	s, err := BuildPrimaryRankedSeries(records, KeepLast)
	if err != nil {
		t.Fatal(err)
	}

	ids := s.IDs()
	scores := s.Scores()
	seen := make(map[string]struct{})
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate key %q in ranked output", id)
		}
		seen[id] = struct{}{}

		if i > 0 && scores[i] > scores[i-1] {
			t.Fatalf("scores not descending at rank %d: %v > %v", i, scores[i], scores[i-1])
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	records := []GeneRecord{rec("A", 1.0), rec("B", 3.0), nullRec("C"), rec("A", 2.0)}

	first, err := BuildPrimaryRankedSeries(records, KeepLast)
	if err != nil {
		t.Fatal(err)
	}
	second, err := BuildPrimaryRankedSeries(records, KeepLast)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.IDs(), second.IDs()) || !reflect.DeepEqual(first.Scores(), second.Scores()) {
		t.Fatal("two builds over identical input diverged")
	}
}

func TestSeriesAccessors(t *testing.T) {
	s, err := BuildPrimaryRankedSeries([]GeneRecord{rec("A", 1.0), rec("B", 3.0)}, KeepLast)
	if err != nil {
		t.Fatal(err)
	}

	if n := s.Len(); n != 2 {
		t.Fatalf("Len: got %d, expected 2", n)
	}
	if v, ok := s.Score("B"); !ok || v != 3.0 {
		t.Fatalf("Score(B): got %v, %v", v, ok)
	}
	if _, ok := s.Score("missing"); ok {
		t.Fatal("Score reported a key that was never added")
	}
	if r, ok := s.Rank("A"); !ok || r != 1 {
		t.Fatalf("Rank(A): got %v, %v", r, ok)
	}
}

func TestSeriesSummary(t *testing.T) {
	s, err := BuildPrimaryRankedSeries([]GeneRecord{
		rec("A", 4), rec("B", 3), rec("C", 2), rec("D", 1),
	}, KeepLast)
	if err != nil {
		t.Fatal(err)
	}

	sum, err := s.Summary()
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		name     string
		got, exp float64
	}{
		{"Min", sum.Min, 1},
		{"Max", sum.Max, 4},
		// stats.Percentile returns the element at the rank when the rank is
		// whole, rather than interpolating.
		{"Q1", sum.Q1, 1},
		{"Median", sum.Median, 2.5},
		{"Q3", sum.Q3, 3},
	} {
		if math.Abs(v.got-v.exp) > 1e-9 {
			t.Fatalf("%s: got %v, expected %v", v.name, v.got, v.exp)
		}
	}
	if sum.N != 4 || sum.PositiveN != 4 || sum.NegativeN != 0 {
		t.Fatalf("counts mismatch: %+v", sum)
	}
}
