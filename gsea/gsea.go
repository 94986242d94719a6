// Package gsea implements rank-based gene set enrichment analysis: the
// weighted Kolmogorov-Smirnov running-sum statistic of Subramanian et al.
// (PNAS 2005) with a gene-set permutation null, plus a Fisher exact
// over-representation mode for plain gene lists.
package gsea

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/enrichseq/enrichseq/genesets"
	"github.com/enrichseq/enrichseq/ranklist"
)

// Options control an enrichment run.
type Options struct {
	// MinSetSize and MaxSetSize bound the number of set members present in
	// the ranked universe; sets outside the bounds are not tested. A
	// MaxSetSize of 0 means unbounded.
	MinSetSize int
	MaxSetSize int

	// PValueCutoff is applied to both the raw and the adjusted p-value;
	// results above it are dropped from the output.
	PValueCutoff float64

	// PAdjustMethod is one of AdjustBH or AdjustBonferroni.
	PAdjustMethod string

	// Permutations is the size of the gene-set permutation null.
	Permutations int

	// Weight is the exponent applied to scores in the running sum. 1 is the
	// standard weighted statistic; 0 recovers the classic unweighted KS.
	Weight float64

	// Seed makes permutation results reproducible.
	Seed int64
}

// DefaultOptions mirror the defaults of the widely used enrichment tooling
// this package replaces.
func DefaultOptions() Options {
	return Options{
		MinSetSize:    10,
		MaxSetSize:    500,
		PValueCutoff:  0.05,
		PAdjustMethod: AdjustBH,
		Permutations:  1000,
		Weight:        1,
	}
}

func (o Options) validate() error {
	if o.Permutations < 1 {
		return errors.New("gsea: at least one permutation is required")
	}
	if o.Weight < 0 {
		return fmt.Errorf("gsea: negative weight %v", o.Weight)
	}
	if o.PValueCutoff <= 0 || o.PValueCutoff > 1 {
		return fmt.Errorf("gsea: p-value cutoff %v outside (0, 1]", o.PValueCutoff)
	}

	return checkAdjustMethod(o.PAdjustMethod)
}

// Result is one tested gene set. Field tags lay out the results table
// written by the command line tools.
type Result struct {
	Set         string  `csv:"gene_set"`
	Description string  `csv:"description"`
	SetSize     int     `csv:"set_size"`
	ES          float64 `csv:"enrichment_score"`
	NES         float64 `csv:"normalized_enrichment_score"`
	PValue      float64 `csv:"p_value"`
	AdjustedP   float64 `csv:"adjusted_p_value"`
	PeakRank    int     `csv:"peak_rank"`
	LeadingEdge string  `csv:"leading_edge"`
}

// LeadingEdgeGenes splits the /-joined leading edge back into identifiers.
func (r Result) LeadingEdgeGenes() []string {
	if r.LeadingEdge == "" {
		return nil
	}

	return strings.Split(r.LeadingEdge, "/")
}

// Analyze tests every eligible set against the ranked series and returns
// the sets passing the p-value cutoff, most significant first. The series
// is read but never mutated. Runs are deterministic for a given seed.
func Analyze(series *ranklist.RankedSeries, sets []genesets.Set, opt Options) ([]Result, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if series == nil || series.Len() == 0 {
		return nil, ranklist.ErrEmptyInput
	}

	scores := series.Scores()
	ids := series.IDs()
	n := len(scores)

	rng := rand.New(rand.NewSource(opt.Seed))

	results := make([]Result, 0, len(sets))
	for _, set := range sets {
		ranks := memberRanks(series, set.Genes)
		size := len(ranks)
		if size < opt.MinSetSize || size == 0 {
			continue
		}
		if opt.MaxSetSize > 0 && size > opt.MaxSetSize {
			continue
		}
		if size >= n {
			// A set spanning the whole universe has no complement to walk
			// against and cannot be assessed.
			continue
		}

		es, peak, _ := runningSum(scores, ranks, opt.Weight)

		null := make([]float64, opt.Permutations)
		for b := range null {
			permES, _, _ := runningSum(scores, rng.Perm(n)[:size], opt.Weight)
			null[b] = permES
		}

		p, nes := permutationStats(es, null)

		results = append(results, Result{
			Set:         set.Name,
			Description: set.Description,
			SetSize:     size,
			ES:          es,
			NES:         nes,
			PValue:      p,
			PeakRank:    peak,
			LeadingEdge: strings.Join(leadingEdge(ids, ranks, es, peak), "/"),
		})
	}

	raw := make([]float64, len(results))
	for i, r := range results {
		raw[i] = r.PValue
	}
	adjusted, err := AdjustPValues(raw, opt.PAdjustMethod)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].AdjustedP = adjusted[i]
	}

	kept := results[:0]
	for _, r := range results {
		if r.PValue <= opt.PValueCutoff && r.AdjustedP <= opt.PValueCutoff {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].PValue != kept[j].PValue {
			return kept[i].PValue < kept[j].PValue
		}
		if ai, aj := math.Abs(kept[i].NES), math.Abs(kept[j].NES); ai != aj {
			return ai > aj
		}

		return kept[i].Set < kept[j].Set
	})

	return kept, nil
}

// memberRanks resolves set members to their 0-based ranks in the series,
// deduplicated and sorted ascending. Members outside the ranked universe
// are ignored.
func memberRanks(series *ranklist.RankedSeries, genes []string) []int {
	seen := make(map[int]struct{}, len(genes))
	ranks := make([]int, 0, len(genes))
	for _, g := range genes {
		at, ok := series.Rank(g)
		if !ok {
			continue
		}
		if _, dup := seen[at]; dup {
			continue
		}
		seen[at] = struct{}{}
		ranks = append(ranks, at)
	}
	sort.Ints(ranks)

	return ranks
}

// permutationStats derives the permutation p-value and normalized ES from
// the observed ES and its null. Both use only the same-signed part of the
// null, the convention of the reference implementation; the p-value carries
// +1 smoothing so it can never be exactly zero.
func permutationStats(es float64, null []float64) (p, nes float64) {
	sameSign := make([]float64, 0, len(null))
	moreExtreme := 0
	for _, e := range null {
		if (es >= 0) != (e >= 0) {
			continue
		}
		abs := math.Abs(e)
		sameSign = append(sameSign, abs)
		if abs >= math.Abs(es) {
			moreExtreme++
		}
	}

	p = float64(moreExtreme+1) / float64(len(sameSign)+1)

	mean := stat.Mean(sameSign, nil)
	if len(sameSign) == 0 || mean == 0 {
		// Degenerate null; report the raw ES unscaled.
		return p, es
	}

	return p, es / mean
}
