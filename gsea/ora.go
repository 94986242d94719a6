package gsea

import (
	"sort"
	"strings"

	fet "github.com/glycerine/golang-fisher-exact"

	"github.com/enrichseq/enrichseq/genesets"
	"github.com/enrichseq/enrichseq/ranklist"
)

// ORAResult is one gene set tested for over-representation.
type ORAResult struct {
	Set          string  `csv:"gene_set"`
	Description  string  `csv:"description"`
	SetSize      int     `csv:"set_size"`
	Overlap      int     `csv:"overlap"`
	Expected     float64 `csv:"expected_overlap"`
	PValue       float64 `csv:"p_value"`
	AdjustedP    float64 `csv:"adjusted_p_value"`
	OverlapGenes string  `csv:"overlap_genes"`
}

// OverRepresentation tests whether the selected genes land in each set more
// often than chance would predict, given the universe of genes that could
// have been selected. p-values come from the one-sided Fisher exact test on
// the 2x2 overlap table. Selected genes outside the universe are ignored.
func OverRepresentation(selected, universe []string, sets []genesets.Set, opt Options) ([]ORAResult, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if len(universe) == 0 {
		return nil, ranklist.ErrEmptyInput
	}

	inUniverse := make(map[string]struct{}, len(universe))
	for _, g := range universe {
		inUniverse[g] = struct{}{}
	}

	chosen := make(map[string]struct{}, len(selected))
	for _, g := range selected {
		if _, ok := inUniverse[g]; ok {
			chosen[g] = struct{}{}
		}
	}

	n := len(inUniverse)
	k := len(chosen)

	results := make([]ORAResult, 0, len(sets))
	for _, set := range sets {
		members := make(map[string]struct{}, len(set.Genes))
		overlap := make([]string, 0, len(set.Genes))
		for _, g := range set.Genes {
			if _, ok := inUniverse[g]; !ok {
				continue
			}
			if _, dup := members[g]; dup {
				continue
			}
			members[g] = struct{}{}
			if _, ok := chosen[g]; ok {
				overlap = append(overlap, g)
			}
		}

		size := len(members)
		if size < opt.MinSetSize {
			continue
		}
		if opt.MaxSetSize > 0 && size > opt.MaxSetSize {
			continue
		}

		x := len(overlap)
		_, _, rightp, _ := fet.FisherExactTest(x, k-x, size-x, n-k-size+x)

		sort.Strings(overlap)
		results = append(results, ORAResult{
			Set:          set.Name,
			Description:  set.Description,
			SetSize:      size,
			Overlap:      x,
			Expected:     float64(k) * float64(size) / float64(n),
			PValue:       rightp,
			OverlapGenes: strings.Join(overlap, "/"),
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
		if kept[i].Overlap != kept[j].Overlap {
			return kept[i].Overlap > kept[j].Overlap
		}

		return kept[i].Set < kept[j].Set
	})

	return kept, nil
}
