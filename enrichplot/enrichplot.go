// Package enrichplot renders the standard companion plots of an enrichment
// run (running-score profile, dot plot of top sets, score distribution
// summary) as PNG files.
package enrichplot

import (
	"bytes"
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

// rankSeq returns 0..n-1 as float64 x-values for per-rank series.
func rankSeq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}

	return out
}

func renderPNG(filename string, graph chart.Chart) error {
	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := buffer.WriteTo(outFile); err != nil {
		outFile.Close()
		return err
	}

	return outFile.Close()
}
