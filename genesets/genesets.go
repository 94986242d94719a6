// Package genesets reads gene set collections in GMT format, the
// tab-delimited layout used to distribute Gene Ontology and KEGG pathway
// collections: one set per line as name, description, then member genes.
package genesets

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// Set is one named gene set.
type Set struct {
	Name        string
	Description string
	Genes       []string
}

// ReadGMT parses a GMT stream. Blank lines are skipped; a line with fewer
// than three fields cannot describe a set and is an error.
func ReadGMT(r io.Reader) ([]Set, error) {
	sets := make([]Set, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("genesets: line %d: expected at least 3 tab-delimited fields, got %d", line, len(fields))
		}

		genes := make([]string, 0, len(fields)-2)
		for _, g := range fields[2:] {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genes = append(genes, g)
		}

		sets = append(sets, Set{
			Name:        fields[0],
			Description: fields[1],
			Genes:       genes,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return sets, nil
}

// FilterBySize retains only sets whose member count lies within [min, max].
// A max of 0 means no upper bound.
func FilterBySize(sets []Set, min, max int) []Set {
	out := make([]Set, 0, len(sets))
	for _, s := range sets {
		if len(s.Genes) < min {
			continue
		}
		if max > 0 && len(s.Genes) > max {
			continue
		}
		out = append(out, s)
	}

	return out
}

// FilterByPrefix retains only sets whose name carries the given prefix.
// KEGG collections bundle several organisms into one file with
// organism-coded set names (hsa04110, mmu04110); the prefix selects one.
func FilterByPrefix(sets []Set, prefix string) []Set {
	if prefix == "" {
		return sets
	}

	out := make([]Set, 0, len(sets))
	for _, s := range sets {
		if strings.HasPrefix(s.Name, prefix) {
			out = append(out, s)
		}
	}

	return out
}
