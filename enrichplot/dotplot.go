package enrichplot

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/enrichseq/enrichseq/gsea"
)

// PlotDot draws the top enriched sets as a dot plot: normalized enrichment
// score on the x axis, one row per set, dot size scaled by set size. Results
// are expected in significance order; only the first top sets are drawn.
func PlotDot(filename string, results []gsea.Result, top int) error {
	if len(results) == 0 {
		return fmt.Errorf("enrichplot: no results to plot")
	}
	if top > 0 && len(results) > top {
		results = results[:top]
	}

	maxSize := 1
	minNES, maxNES := results[0].NES, results[0].NES
	for _, r := range results {
		if r.SetSize > maxSize {
			maxSize = r.SetSize
		}
		if r.NES < minNES {
			minNES = r.NES
		}
		if r.NES > maxNES {
			maxNES = r.NES
		}
	}

	series := make([]chart.Series, 0, len(results)+1)
	labels := make([]chart.Value2, 0, len(results))
	for i, r := range results {
		// Rows are drawn top-down so the most significant set sits on top.
		y := float64(len(results) - i)

		series = append(series, chart.ContinuousSeries{
			XValues: []float64{r.NES},
			YValues: []float64{y},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4 + 8*float64(r.SetSize)/float64(maxSize),
				DotColor:    chart.GetDefaultColor(i),
			},
		})
		labels = append(labels, chart.Value2{
			XValue: r.NES,
			YValue: y,
			Label:  fmt.Sprintf("%s (padj=%.2g)", r.Set, r.AdjustedP),
		})
	}
	series = append(series, chart.AnnotationSeries{Annotations: labels})

	graph := chart.Chart{
		Title:  "Enriched gene sets",
		Width:  1024,
		Height: 96 + 48*len(results),
		XAxis: chart.XAxis{
			Name: "normalized enrichment score",
			// An explicit padded range keeps rendering sane when a single
			// result would otherwise produce a zero-width domain.
			Range: &chart.ContinuousRange{Min: minNES - 1, Max: maxNES + 1},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(results) + 1)},
		},
		Series: series,
	}

	return renderPNG(filename, graph)
}
