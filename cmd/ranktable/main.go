// ranktable prints the ranked gene list built from a differential
// expression table as a two-column TSV on stdout, most upregulated gene
// first. With --entrez the list is re-keyed to Entrez gene IDs through the
// identifier mapping before ranking, which is the form consumed by pathway
// level enrichment. A distribution summary is logged to stderr.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/enrichseq/enrichseq"
	"github.com/enrichseq/enrichseq/idmap"
	"github.com/enrichseq/enrichseq/ranklist"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var (
		input       string
		delimiter   string
		dupPolicy   string
		mapPolicy   string
		mappingFile string
		entrez      bool
	)
	flag.StringVar(&input, "input", "", "Local path to the differential expression table (first column: gene symbol; required column: log2fc)")
	flag.StringVar(&delimiter, "delimiter", "", "Input field delimiter. If empty, it is auto-detected.")
	flag.StringVar(&dupPolicy, "duplicates", "last", "Which score survives when a gene appears twice in the input (last, first)")
	flag.StringVar(&mapPolicy, "map-duplicates", "first", "Which target survives when the identifier lookup is many-to-many (first, last)")
	flag.StringVar(&mappingFile, "map", "", "Optional path to a symbol/entrez mapping TSV. If empty, the compiled-in human table is used.")
	flag.BoolVar(&entrez, "entrez", false, "Re-key the list to Entrez gene IDs before ranking")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --input")
	}

	dup, err := ranklist.ParseDuplicatePolicy(dupPolicy)
	if err != nil {
		log.Fatalln(err)
	}

	records, err := loadRecords(input, delimiter)
	if err != nil {
		log.Fatalf("failed to load %s: %v", input, err)
	}

	var series *ranklist.RankedSeries
	if entrez {
		mapDup, err := ranklist.ParseDuplicatePolicy(mapPolicy)
		if err != nil {
			log.Fatalln(err)
		}
		series, err = buildEntrezSeries(records, mappingFile, dup, mapDup)
		if err != nil {
			log.Fatalln(err)
		}
	} else {
		series, err = ranklist.BuildPrimaryRankedSeries(records, dup)
		if err != nil {
			log.Fatalln(err)
		}
	}

	if s, err := series.Summary(); err == nil {
		log.Printf("%d genes (%d up, %d down); log2fc quartiles %.3f / %.3f / %.3f over [%.3f, %.3f]",
			s.N, s.PositiveN, s.NegativeN, s.Q1, s.Median, s.Q3, s.Min, s.Max)
	}

	ids := series.IDs()
	scores := series.Scores()
	fmt.Fprintf(STDOUT, "gene\tlog2fc\n")
	for i := range ids {
		fmt.Fprintf(STDOUT, "%s\t%v\n", ids[i], scores[i])
	}
}

func loadRecords(path, delimiter string) ([]ranklist.GeneRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := enrichseq.MaybeDecompress(f)
	if err != nil {
		return nil, err
	}

	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	delim := '\t'
	if delimiter != "" {
		delim = []rune(delimiter)[0]
	} else {
		delim = enrichseq.DetermineDelimiter(bytes.NewReader(raw))
	}

	return ranklist.ReadGeneRecords(bytes.NewReader(raw), delim)
}

func buildEntrezSeries(records []ranklist.GeneRecord, mappingFile string, dup, mapDup ranklist.DuplicatePolicy) (*ranklist.RankedSeries, error) {
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

	seen := make(map[string]struct{}, len(records))
	symbols := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Symbol]; ok {
			continue
		}
		seen[rec.Symbol] = struct{}{}
		symbols = append(symbols, rec.Symbol)
	}

	pairs, err := lookup.Map(idmap.NamespaceSymbol, idmap.NamespaceEntrez, symbols)
	if err != nil {
		return nil, err
	}

	mapping := ranklist.MapIdentifiers(pairs, mapDup)
	log.Printf("Mapped %d of %d distinct symbols; %d dropped as unmapped", mapping.Len(), len(symbols), len(symbols)-mapping.Len())

	return ranklist.BuildSecondaryRankedSeries(records, mapping, dup)
}
