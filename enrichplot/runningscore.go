package enrichplot

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// PlotRunningScore draws the running enrichment statistic across the ranked
// list for one gene set, marking the peak where the enrichment score is
// attained.
func PlotRunningScore(filename, setName string, running []float64, peak int, es float64) error {
	if len(running) == 0 {
		return fmt.Errorf("enrichplot: empty running profile for %q", setName)
	}

	xs := rankSeq(len(running))

	graph := chart.Chart{
		Title:  setName,
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Name: "rank in ordered gene list",
		},
		YAxis: chart.YAxis{
			Name: "running enrichment score",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "running score",
				XValues: xs,
				YValues: running,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{XValue: float64(peak), YValue: es, Label: fmt.Sprintf("ES=%.3f", es)},
				},
			},
		},
	}

	return renderPNG(filename, graph)
}
