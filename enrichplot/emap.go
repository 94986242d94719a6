package enrichplot

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/enrichseq/enrichseq/gsea"
)

// PlotEnrichmentMap draws the top enriched sets as a network: one node per
// set, an edge wherever two sets share leading-edge genes beyond the
// Jaccard threshold. Node positions come from a force-directed layout, so
// clusters of related sets land near each other.
func PlotEnrichmentMap(filename string, results []gsea.Result, top int, minJaccard float64) error {
	if len(results) == 0 {
		return fmt.Errorf("enrichplot: no results to plot")
	}
	if top > 0 && len(results) > top {
		results = results[:top]
	}

	edges := overlapEdges(results, minJaccard)

	g := simple.NewUndirectedGraph()
	for i := range results {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		g.SetEdge(simple.Edge{F: simple.Node(e.from), T: simple.Node(e.to)})
	}

	eades := layout.EadesR2{Repulsion: 1, Rate: 0.05, Updates: 30, Theta: 0.2}
	optimizer := layout.NewOptimizerR2(g, eades.Update)
	for optimizer.Update() {
	}

	xs := make([]float64, len(results))
	ys := make([]float64, len(results))
	for i := range results {
		v := optimizer.Coord2(int64(i))
		xs[i] = v.X
		ys[i] = v.Y
	}

	series := make([]chart.Series, 0, len(edges)+len(results)+1)
	for _, e := range edges {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xs[e.from], xs[e.to]},
			YValues: []float64{ys[e.from], ys[e.to]},
			Style: chart.Style{
				StrokeColor: chart.ColorLightGray,
				StrokeWidth: 1 + 4*e.jaccard,
			},
		})
	}

	labels := make([]chart.Value2, 0, len(results))
	for i, r := range results {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xs[i]},
			YValues: []float64{ys[i]},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    8,
				DotColor:    chart.GetDefaultColor(i),
			},
		})
		labels = append(labels, chart.Value2{XValue: xs[i], YValue: ys[i], Label: r.Set})
	}
	series = append(series, chart.AnnotationSeries{Annotations: labels})

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	graph := chart.Chart{
		Title:  "Enrichment map",
		Width:  1024,
		Height: 1024,
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: minX - 1, Max: maxX + 1},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1},
		},
		Series: series,
	}

	return renderPNG(filename, graph)
}

type setEdge struct {
	from, to int
	jaccard  float64
}

// overlapEdges computes pairwise Jaccard similarity of leading edges and
// keeps pairs at or above the threshold.
func overlapEdges(results []gsea.Result, minJaccard float64) []setEdge {
	members := make([]map[string]struct{}, len(results))
	for i, r := range results {
		members[i] = make(map[string]struct{})
		for _, g := range r.LeadingEdgeGenes() {
			members[i][g] = struct{}{}
		}
	}

	edges := make([]setEdge, 0)
	for i := range results {
		for j := i + 1; j < len(results); j++ {
			var intersection int
			for g := range members[i] {
				if _, ok := members[j][g]; ok {
					intersection++
				}
			}
			union := len(members[i]) + len(members[j]) - intersection
			if union == 0 {
				continue
			}
			if jac := float64(intersection) / float64(union); jac >= minJaccard {
				edges = append(edges, setEdge{from: i, to: j, jaccard: jac})
			}
		}
	}

	return edges
}

func bounds(vs []float64) (min, max float64) {
	min, max = vs[0], vs[0]
	for _, v := range vs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return min, max
}
