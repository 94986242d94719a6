package enrichplot

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/enrichseq/enrichseq/gsea"
	"github.com/enrichseq/enrichseq/ranklist"
)

func tempDir(t *testing.T) string {
	t.Helper()

	dir, err := ioutil.TempDir("", "enrichplot")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	return dir
}

func checkPNG(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s rendered empty", path)
	}
}

func TestPlotRunningScore(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "runscore.png")

	running := []float64{0.6, 0.27, -0.07, -0.4, 0}
	if err := PlotRunningScore(path, "hsa04110", running, 0, 0.6); err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)

	if err := PlotRunningScore(filepath.Join(dir, "empty.png"), "empty", nil, 0, 0); err == nil {
		t.Fatal("expected an error for an empty profile")
	}
}

func TestPlotDot(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "dot.png")

	results := []gsea.Result{
		{Set: "pathway_a", SetSize: 40, NES: 2.1, AdjustedP: 0.001},
		{Set: "pathway_b", SetSize: 15, NES: -1.4, AdjustedP: 0.02},
	}
	if err := PlotDot(path, results, 10); err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)

	if err := PlotDot(filepath.Join(dir, "none.png"), nil, 10); err == nil {
		t.Fatal("expected an error with no results")
	}
}

func TestPlotScoreDistributions(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "dist.png")

	records := []ranklist.GeneRecord{
		{Symbol: "A", Log2FoldChange: null.FloatFrom(3)},
		{Symbol: "B", Log2FoldChange: null.FloatFrom(2)},
		{Symbol: "C", Log2FoldChange: null.FloatFrom(1)},
		{Symbol: "D", Log2FoldChange: null.FloatFrom(-1)},
	}
	series, err := ranklist.BuildPrimaryRankedSeries(records, ranklist.KeepLast)
	if err != nil {
		t.Fatal(err)
	}

	results := []gsea.Result{{Set: "up_block", SetSize: 3, LeadingEdge: "A/B/C"}}
	if err := PlotScoreDistributions(path, series, results, 5); err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)
}

func TestOverlapEdges(t *testing.T) {
	results := []gsea.Result{
		{Set: "a", LeadingEdge: "G1/G2/G3/G4"},
		{Set: "b", LeadingEdge: "G3/G4/G5/G6"},
		{Set: "c", LeadingEdge: "G7/G8"},
	}

	edges := overlapEdges(results, 0.2)
	if len(edges) != 1 {
		t.Fatalf("expected one edge above the threshold, got %+v", edges)
	}
	e := edges[0]
	if e.from != 0 || e.to != 1 {
		t.Fatalf("edge joins the wrong sets: %+v", e)
	}
	// |{G3,G4}| over |{G1..G6}|.
	if expected := 2.0 / 6.0; e.jaccard != expected {
		t.Fatalf("jaccard: got %v, expected %v", e.jaccard, expected)
	}
}

func TestPlotEnrichmentMap(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "emap.png")

	results := []gsea.Result{
		{Set: "a", NES: 2.0, LeadingEdge: "G1/G2/G3/G4"},
		{Set: "b", NES: 1.5, LeadingEdge: "G3/G4/G5/G6"},
		{Set: "c", NES: -1.2, LeadingEdge: "G7/G8"},
	}
	if err := PlotEnrichmentMap(path, results, 10, 0.2); err != nil {
		t.Fatal(err)
	}
	checkPNG(t, path)
}
