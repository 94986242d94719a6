package enrichplot

import (
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/enrichseq/enrichseq/gsea"
	"github.com/enrichseq/enrichseq/ranklist"
)

// PlotScoreDistributions draws, for each of the top enriched sets, the
// sorted fold changes of its leading-edge genes as a quantile curve. It is
// the flat stand-in for a ridge plot: one curve per set over a shared fold
// change axis, so shifted distributions are visible at a glance.
func PlotScoreDistributions(filename string, series *ranklist.RankedSeries, results []gsea.Result, top int) error {
	if len(results) == 0 {
		return fmt.Errorf("enrichplot: no results to plot")
	}
	if top > 0 && len(results) > top {
		results = results[:top]
	}

	chartSeries := make([]chart.Series, 0, len(results))
	for i, r := range results {
		scores := make([]float64, 0, r.SetSize)
		for _, g := range r.LeadingEdgeGenes() {
			if v, ok := series.Score(g); ok {
				scores = append(scores, v)
			}
		}
		if len(scores) < 2 {
			continue
		}
		sort.Float64s(scores)

		// x runs over quantiles 0..1 so sets of different sizes share an
		// axis.
		xs := make([]float64, len(scores))
		for j := range xs {
			xs[j] = float64(j) / float64(len(scores)-1)
		}

		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    r.Set,
			XValues: xs,
			YValues: scores,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
	}

	if len(chartSeries) == 0 {
		return fmt.Errorf("enrichplot: no leading-edge scores to plot")
	}

	graph := chart.Chart{
		Title:  "Leading-edge fold change distributions",
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Name: "quantile",
		},
		YAxis: chart.YAxis{
			Name: "log2 fold change",
		},
		Series: chartSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(filename, graph)
}
