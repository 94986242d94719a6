package ranklist

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// RankedSeries is an immutable series of unique identifiers ordered by
// descending score, ties broken by the original input order of the surviving
// entries. It is the input shape expected by rank-based enrichment.
type RankedSeries struct {
	ids    []string
	scores []float64
	index  map[string]int
}

// Len returns the number of ranked entries.
func (s *RankedSeries) Len() int {
	return len(s.ids)
}

// IDs returns the identifiers in rank order. The returned slice is a copy.
func (s *RankedSeries) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)

	return out
}

// Scores returns the scores in rank order. The returned slice is a copy.
func (s *RankedSeries) Scores() []float64 {
	out := make([]float64, len(s.scores))
	copy(out, s.scores)

	return out
}

// Score returns the score for id and whether id is present in the series.
func (s *RankedSeries) Score(id string) (float64, bool) {
	i, ok := s.index[id]
	if !ok {
		return 0, false
	}

	return s.scores[i], true
}

// Rank returns the 0-based rank of id and whether id is present.
func (s *RankedSeries) Rank(id string) (int, bool) {
	i, ok := s.index[id]

	return i, ok
}

// SeriesSummary describes the distribution of scores in a ranked series.
type SeriesSummary struct {
	N                    int
	Min, Max             float64
	Q1, Median, Q3       float64
	PositiveN, NegativeN int
}

// Summary computes distribution statistics over the series scores.
func (s *RankedSeries) Summary() (SeriesSummary, error) {
	out := SeriesSummary{N: len(s.scores)}

	var err error
	if out.Min, err = stats.Min(s.scores); err != nil {
		return out, err
	}
	if out.Max, err = stats.Max(s.scores); err != nil {
		return out, err
	}
	if out.Q1, err = stats.Percentile(s.scores, 25); err != nil {
		return out, err
	}
	if out.Median, err = stats.Median(s.scores); err != nil {
		return out, err
	}
	if out.Q3, err = stats.Percentile(s.scores, 75); err != nil {
		return out, err
	}

	for _, v := range s.scores {
		if v > 0 {
			out.PositiveN++
		} else if v < 0 {
			out.NegativeN++
		}
	}

	return out, nil
}

// BuildPrimaryRankedSeries builds a ranked series keyed by the records' own
// symbols. Records sharing a symbol are collapsed according to policy,
// records with null scores are dropped, and the survivors are sorted by
// descending score with ties left in surviving-entry order.
func BuildPrimaryRankedSeries(records []GeneRecord, policy DuplicatePolicy) (*RankedSeries, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	return buildSeries(records, policy)
}

// BuildSecondaryRankedSeries re-keys records into the target namespace of
// mapping and builds a ranked series from the re-keyed survivors. Records
// whose symbol has no entry in mapping are dropped without error; that loss
// is expected because identifier namespaces do not cover the same gene sets.
func BuildSecondaryRankedSeries(records []GeneRecord, mapping *IdentifierMapping, policy DuplicatePolicy) (*RankedSeries, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	mapped := make([]GeneRecord, 0, len(records))
	for _, rec := range records {
		target, ok := mapping.Target(rec.Symbol)
		if !ok {
			continue
		}

		mapped = append(mapped, GeneRecord{Symbol: target, Log2FoldChange: rec.Log2FoldChange})
	}

	if len(mapped) == 0 {
		return nil, ErrNoMappedIdentifiers
	}

	return buildSeries(mapped, policy)
}

func buildSeries(records []GeneRecord, policy DuplicatePolicy) (*RankedSeries, error) {
	// Collapse duplicate keys first, nulls included: under KeepLast a null
	// score legitimately overwrites an earlier real one and takes the key
	// out of the ranking when nulls are dropped below. A key keeps the
	// position of its first occurrence.
	seenAt := make(map[string]int, len(records))
	collapsed := make([]GeneRecord, 0, len(records))
	for _, rec := range records {
		if at, seen := seenAt[rec.Symbol]; seen {
			if policy == KeepLast {
				collapsed[at].Log2FoldChange = rec.Log2FoldChange
			}
			continue
		}

		seenAt[rec.Symbol] = len(collapsed)
		collapsed = append(collapsed, rec)
	}

	ids := make([]string, 0, len(collapsed))
	scores := make([]float64, 0, len(collapsed))
	for _, rec := range collapsed {
		if !rec.Log2FoldChange.Valid {
			continue
		}
		ids = append(ids, rec.Symbol)
		scores = append(scores, rec.Log2FoldChange.Float64)
	}

	if len(ids) == 0 {
		return nil, ErrAllScoresMissing
	}

	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	out := &RankedSeries{
		ids:    make([]string, len(ids)),
		scores: make([]float64, len(ids)),
		index:  make(map[string]int, len(ids)),
	}
	for rank, src := range order {
		out.ids[rank] = ids[src]
		out.scores[rank] = scores[src]
		out.index[ids[src]] = rank
	}

	return out, nil
}
