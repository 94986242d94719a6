// enrichseq runs gene set enrichment analysis over a differential
// expression table. It builds a ranked gene list from the table's log2 fold
// changes, tests it against a Gene Ontology GMT collection under gene
// symbols, maps symbols to Entrez gene IDs, tests the re-keyed list against
// a KEGG pathway GMT collection, and writes results tables and plots to the
// results directory.
//
// The input table is a delimited file with a header row. The first column is
// taken as the gene symbol regardless of its header; the score is read from
// the column named log2fc. Input files may be gzip compressed.
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/enrichseq/enrichseq"
	"github.com/enrichseq/enrichseq/compileinfo"
	"github.com/enrichseq/enrichseq/enrichplot"
	"github.com/enrichseq/enrichseq/genesets"
	"github.com/enrichseq/enrichseq/gsea"
	"github.com/enrichseq/enrichseq/idmap"
	"github.com/enrichseq/enrichseq/ranklist"
)

func init() {
	// Results tables are tab-delimited.
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})
}

func main() {
	compileinfo.PrintToStdErr()

	var (
		input        string
		resultsDir   string
		goGMT        string
		keggGMT      string
		mappingFile  string
		organism     string
		delimiter    string
		dupPolicy    string
		mapPolicy    string
		permutations int
		minSetSize   int
		maxSetSize   int
		pCutoff      float64
		pAdjust      string
		weight       float64
		seed         int64
		oraCutoff    float64
		topPlots     int
	)
	flag.StringVar(&input, "input", "", "Local path to the differential expression table (first column: gene symbol; required column: log2fc)")
	flag.StringVar(&resultsDir, "results", "results", "Directory where results tables and plots are written (created if absent)")
	flag.StringVar(&goGMT, "go-gmt", "", "Path to the Gene Ontology gene set collection in GMT format, keyed by gene symbol")
	flag.StringVar(&keggGMT, "kegg-gmt", "", "Path to the KEGG pathway gene set collection in GMT format, keyed by Entrez gene ID")
	flag.StringVar(&mappingFile, "map", "", "Optional path to a symbol/entrez mapping TSV. If empty, the compiled-in human table is used.")
	flag.StringVar(&organism, "organism", "hsa", "KEGG organism code; pathway sets without this prefix are skipped")
	flag.StringVar(&delimiter, "delimiter", "", "Input field delimiter. If empty, it is auto-detected.")
	flag.StringVar(&dupPolicy, "duplicates", "last", "Which score survives when a gene appears twice in the input (last, first)")
	flag.StringVar(&mapPolicy, "map-duplicates", "first", "Which target survives when the identifier lookup is many-to-many (first, last)")
	flag.IntVar(&permutations, "permutations", 1000, "Number of gene-set permutations behind each p-value")
	flag.IntVar(&minSetSize, "min-set", 10, "Smallest testable gene set size after restriction to the ranked list")
	flag.IntVar(&maxSetSize, "max-set", 500, "Largest testable gene set size after restriction to the ranked list (0 for unbounded)")
	flag.Float64Var(&pCutoff, "pcutoff", 0.05, "Report only sets with raw and adjusted p-values at or below this")
	flag.StringVar(&pAdjust, "padjust", gsea.AdjustBH, "Multiple testing correction (BH, bonferroni)")
	flag.Float64Var(&weight, "weight", 1, "Exponent applied to scores in the running statistic")
	flag.Int64Var(&seed, "seed", 0, "Permutation seed; runs with the same seed are reproducible")
	flag.Float64Var(&oraCutoff, "ora-log2fc", 1, "Absolute log2fc at or above which a gene counts as differential in the over-representation test (0 disables the test)")
	flag.IntVar(&topPlots, "top-plots", 10, "How many of the top sets to draw in each plot")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --input")
	}
	if goGMT == "" && keggGMT == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --go-gmt, --kegg-gmt, or both")
	}

	dup, err := ranklist.ParseDuplicatePolicy(dupPolicy)
	if err != nil {
		log.Fatalln(err)
	}
	mapDup, err := ranklist.ParseDuplicatePolicy(mapPolicy)
	if err != nil {
		log.Fatalln(err)
	}

	opt := gsea.Options{
		MinSetSize:    minSetSize,
		MaxSetSize:    maxSetSize,
		PValueCutoff:  pCutoff,
		PAdjustMethod: pAdjust,
		Permutations:  permutations,
		Weight:        weight,
		Seed:          seed,
	}

	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		log.Fatalln(err)
	}
	if err := writeProvenance(resultsDir); err != nil {
		log.Fatalln(err)
	}

	log.Println("[loading differential expression table]")
	records, delim, err := loadRecords(input, delimiter)
	if err != nil {
		log.Fatalf("failed to load %s: %v", input, err)
	}
	log.Printf("Read %d records (delimiter %q)", len(records), string(delim))

	log.Println("[building primary ranked series]")
	primary, err := ranklist.BuildPrimaryRankedSeries(records, dup)
	if err != nil {
		log.Fatalln(err)
	}
	logSeriesSummary("primary", primary)

	if goGMT != "" {
		log.Println("[running GO enrichment on the symbol-keyed series]")
		sets, err := loadGMT(goGMT)
		if err != nil {
			log.Fatalln(err)
		}

		results, err := gsea.Analyze(primary, sets, opt)
		if err != nil {
			log.Fatalln(err)
		}
		log.Printf("%d GO sets pass the %.3g cutoff", len(results), pCutoff)

		if err := writeOutputs(resultsDir, "go", primary, sets, results, opt, topPlots); err != nil {
			log.Fatalln(err)
		}

		if oraCutoff > 0 {
			log.Println("[running GO over-representation on differential genes]")
			if err := runORA(resultsDir, primary, sets, opt, oraCutoff); err != nil {
				log.Fatalln(err)
			}
		}
	}

	if keggGMT != "" {
		log.Println("[mapping gene symbols to Entrez IDs]")
		secondary, err := buildSecondary(records, mappingFile, dup, mapDup)
		if err != nil {
			log.Fatalln(err)
		}
		logSeriesSummary("secondary", secondary)

		log.Println("[running KEGG enrichment on the Entrez-keyed series]")
		sets, err := loadGMT(keggGMT)
		if err != nil {
			log.Fatalln(err)
		}
		sets = genesets.FilterByPrefix(sets, organism)
		if len(sets) == 0 {
			log.Fatalf("no pathway sets with organism prefix %q in %s", organism, keggGMT)
		}

		results, err := gsea.Analyze(secondary, sets, opt)
		if err != nil {
			log.Fatalln(err)
		}
		log.Printf("%d KEGG pathways pass the %.3g cutoff", len(results), pCutoff)

		if err := writeOutputs(resultsDir, "kegg", secondary, sets, results, opt, topPlots); err != nil {
			log.Fatalln(err)
		}
	}

	log.Println("[done]")
}

// loadRecords reads the expression table, decompressing and detecting the
// delimiter as needed.
func loadRecords(path, delimiter string) ([]ranklist.GeneRecord, rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r, err := enrichseq.MaybeDecompress(f)
	if err != nil {
		return nil, 0, err
	}

	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}

	delim := '\t'
	if delimiter != "" {
		delim = []rune(delimiter)[0]
	} else {
		delim = enrichseq.DetermineDelimiter(bytes.NewReader(raw))
	}

	records, err := ranklist.ReadGeneRecords(bytes.NewReader(raw), delim)

	return records, delim, err
}

func loadGMT(path string) ([]genesets.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := enrichseq.MaybeDecompress(f)
	if err != nil {
		return nil, err
	}

	return genesets.ReadGMT(r)
}

// buildSecondary maps the distinct input symbols to Entrez IDs and builds
// the re-keyed ranked series. Symbols the lookup does not cover are dropped,
// which is expected between namespaces; the count is logged so silent loss
// is at least visible loss.
func buildSecondary(records []ranklist.GeneRecord, mappingFile string, dup, mapDup ranklist.DuplicatePolicy) (*ranklist.RankedSeries, error) {
	var lookup idmap.Lookup
	var err error
	if mappingFile != "" {
		lookup, err = idmap.NewTSVLookup(mappingFile)
	} else {
		lookup, err = idmap.NewEmbeddedHuman()
	}
	if err != nil {
		return nil, err
	}

	symbols := distinctSymbols(records)
	pairs, err := lookup.Map(idmap.NamespaceSymbol, idmap.NamespaceEntrez, symbols)
	if err != nil {
		return nil, err
	}

	mapping := ranklist.MapIdentifiers(pairs, mapDup)
	log.Printf("Mapped %d of %d distinct symbols; %d dropped as unmapped", mapping.Len(), len(symbols), len(symbols)-mapping.Len())

	return ranklist.BuildSecondaryRankedSeries(records, mapping, dup)
}

func distinctSymbols(records []ranklist.GeneRecord) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Symbol]; ok {
			continue
		}
		seen[rec.Symbol] = struct{}{}
		out = append(out, rec.Symbol)
	}

	return out
}

func logSeriesSummary(name string, series *ranklist.RankedSeries) {
	s, err := series.Summary()
	if err != nil {
		log.Println(err)
		return
	}
	log.Printf("%s series: %d genes (%d up, %d down), log2fc range [%.3f, %.3f], median %.3f",
		name, s.N, s.PositiveN, s.NegativeN, s.Min, s.Max, s.Median)
}

// writeOutputs writes the results table and the plots for one collection.
func writeOutputs(resultsDir, prefix string, series *ranklist.RankedSeries, sets []genesets.Set, results []gsea.Result, opt gsea.Options, topPlots int) error {
	if err := writeResultsTable(filepath.Join(resultsDir, prefix+"_gsea.tsv"), &results); err != nil {
		return err
	}

	if len(results) == 0 {
		log.Printf("No significant %s sets; skipping plots", prefix)
		return nil
	}

	if err := enrichplot.PlotDot(filepath.Join(resultsDir, prefix+"_dotplot.png"), results, topPlots); err != nil {
		return err
	}
	if err := enrichplot.PlotScoreDistributions(filepath.Join(resultsDir, prefix+"_distributions.png"), series, results, topPlots); err != nil {
		log.Println(err)
	}
	if len(results) > 1 {
		if err := enrichplot.PlotEnrichmentMap(filepath.Join(resultsDir, prefix+"_emap.png"), results, topPlots, 0.2); err != nil {
			log.Println(err)
		}
	}

	genesByName := make(map[string][]string, len(sets))
	for _, s := range sets {
		genesByName[s.Name] = s.Genes
	}
	n := topPlots
	if n <= 0 || n > len(results) {
		n = len(results)
	}
	for _, r := range results[:n] {
		es, peak, running, err := gsea.RunningProfile(series, genesByName[r.Set], opt.Weight)
		if err != nil {
			log.Println(err)
			continue
		}
		name := fmt.Sprintf("%s_runscore_%s.png", prefix, sanitizeFilename(r.Set))
		if err := enrichplot.PlotRunningScore(filepath.Join(resultsDir, name), r.Set, running, peak, es); err != nil {
			return err
		}
	}

	return nil
}

func runORA(resultsDir string, series *ranklist.RankedSeries, sets []genesets.Set, opt gsea.Options, cutoff float64) error {
	universe := series.IDs()
	selected := make([]string, 0, len(universe))
	for _, id := range universe {
		if v, ok := series.Score(id); ok && (v >= cutoff || v <= -cutoff) {
			selected = append(selected, id)
		}
	}
	log.Printf("%d of %d genes pass |log2fc| >= %.3g", len(selected), len(universe), cutoff)

	results, err := gsea.OverRepresentation(selected, universe, sets, opt)
	if err != nil {
		return err
	}
	log.Printf("%d sets over-represented at the %.3g cutoff", len(results), opt.PValueCutoff)

	return writeResultsTable(filepath.Join(resultsDir, "go_ora.tsv"), &results)
}

func writeProvenance(resultsDir string) error {
	f, err := os.Create(filepath.Join(resultsDir, "provenance.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	return compileinfo.WriteProvenance(f, os.Args)
}

func writeResultsTable(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(rows, f)
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}

	return string(out)
}
