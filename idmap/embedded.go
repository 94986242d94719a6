package idmap

import (
	"embed"
	"encoding/csv"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/enrichseq/enrichseq/ranklist"
)

//go:embed lookups/*
var embeddedLookups embed.FS

const humanSymbolEntrezFile = "lookups/human_symbol_entrez.tsv"

type mappingRow struct {
	Symbol string `csv:"symbol"`
	Entrez string `csv:"entrez"`
}

// EmbeddedHuman is a Lookup backed by a compiled-in human symbol to Entrez
// gene ID table derived from an Ensembl BioMart export. Symbols that have
// been reused for distinct genes appear in multiple rows, so callers must
// expect many-to-many output.
type EmbeddedHuman struct {
	rows []mappingRow
}

// NewEmbeddedHuman loads the compiled-in mapping table.
func NewEmbeddedHuman() (*EmbeddedHuman, error) {
	fileBytes, err := embeddedLookups.ReadFile(humanSymbolEntrezFile)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rows, err := parseMappingRows(fileBytes)
	if err != nil {
		return nil, err
	}

	return &EmbeddedHuman{rows: rows}, nil
}

// Map implements Lookup. Pairs are returned in requested-identifier order,
// each identifier's targets in table order, which keeps downstream
// keep-first deduplication deterministic.
func (e *EmbeddedHuman) Map(sourceNamespace, targetNamespace string, ids []string) ([]ranklist.IdentifierPair, error) {
	if err := checkNamespaces(sourceNamespace, targetNamespace); err != nil {
		return nil, err
	}

	return mapAgainstRows(e.rows, ids), nil
}

func parseMappingRows(fileBytes []byte) ([]mappingRow, error) {
	// Tell gocsv to use tab as the delimiter
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		return r
	})

	rows := []mappingRow{}
	if err := gocsv.UnmarshalBytes(fileBytes, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

func mapAgainstRows(rows []mappingRow, ids []string) []ranklist.IdentifierPair {
	bySymbol := make(map[string][]string, len(rows))
	for _, row := range rows {
		if row.Symbol == "" || row.Entrez == "" {
			continue
		}
		bySymbol[row.Symbol] = append(bySymbol[row.Symbol], row.Entrez)
	}

	pairs := make([]ranklist.IdentifierPair, 0, len(ids))
	for _, id := range ids {
		for _, target := range bySymbol[id] {
			pairs = append(pairs, ranklist.IdentifierPair{Source: id, Target: target})
		}
	}

	return pairs
}
