package gsea

import (
	"fmt"
	"math"
	"sort"

	"github.com/enrichseq/enrichseq/ranklist"
)

// RunningProfile computes the running statistic of one gene set against a
// ranked series, primarily so callers can plot the profile behind a Result.
func RunningProfile(series *ranklist.RankedSeries, genes []string, weight float64) (es float64, peak int, running []float64, err error) {
	ranks := memberRanks(series, genes)
	if len(ranks) == 0 {
		return 0, 0, nil, fmt.Errorf("gsea: no set members present in the ranked series")
	}
	if len(ranks) >= series.Len() {
		return 0, 0, nil, fmt.Errorf("gsea: set spans the entire ranked series")
	}

	es, peak, running = runningSum(series.Scores(), ranks, weight)

	return es, peak, running, nil
}

// runningSum walks the ranked score vector computing the weighted
// Kolmogorov-Smirnov running statistic for the member ranks given. Hits
// increment by |score|^weight normalized over the set; misses decrement
// uniformly over the complement. It returns the enrichment score (the
// largest excursion from zero, signed), the 0-based rank at which that
// excursion peaks, and the full running profile for plotting.
//
// memberRanks need not be sorted or deduplicated beforehand by callers
// inside this package, but must only contain valid ranks.
func runningSum(scores []float64, memberRanks []int, weight float64) (es float64, peak int, running []float64) {
	n := len(scores)

	member := make(map[int]struct{}, len(memberRanks))
	ranks := make([]int, 0, len(memberRanks))
	for _, r := range memberRanks {
		if _, dup := member[r]; dup {
			continue
		}
		member[r] = struct{}{}
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	// Sum the normalizer in rank order. Float addition is not associative,
	// so an unordered walk would round identical inputs differently between
	// calls.
	var nr float64
	for _, r := range ranks {
		nr += math.Pow(math.Abs(scores[r]), weight)
	}

	missDecrement := 1 / float64(n-len(member))

	running = make([]float64, n)
	var sum, maxAbs float64
	for i := 0; i < n; i++ {
		if _, hit := member[i]; hit {
			if nr == 0 {
				// All member scores are zero; fall back to uniform steps.
				sum += 1 / float64(len(member))
			} else {
				sum += math.Pow(math.Abs(scores[i]), weight) / nr
			}
		} else {
			sum -= missDecrement
		}

		running[i] = sum
		if abs := math.Abs(sum); abs > maxAbs {
			maxAbs = abs
			es = sum
			peak = i
		}
	}

	return es, peak, running
}

// leadingEdge returns the member identifiers driving the enrichment signal:
// for a positive ES the members at or before the running-sum peak, for a
// negative ES the members at or after it, in rank order.
func leadingEdge(ids []string, memberRanks []int, es float64, peak int) []string {
	ranks := make([]int, len(memberRanks))
	copy(ranks, memberRanks)
	sort.Ints(ranks)

	edge := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if es >= 0 && r <= peak {
			edge = append(edge, ids[r])
		} else if es < 0 && r >= peak {
			edge = append(edge, ids[r])
		}
	}

	return edge
}
