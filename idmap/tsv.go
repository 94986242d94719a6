package idmap

import (
	"io/ioutil"
	"os"

	"github.com/carbocation/pfx"

	"github.com/enrichseq/enrichseq/ranklist"
)

// TSVLookup is a Lookup backed by a user-supplied tab-delimited file with a
// header row naming the columns symbol and entrez, the layout produced by a
// BioMart export. Use it when the compiled-in table does not cover your
// genes or assembly.
type TSVLookup struct {
	rows []mappingRow
}

// NewTSVLookup reads the mapping table at path.
func NewTSVLookup(path string) (*TSVLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	fileBytes, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rows, err := parseMappingRows(fileBytes)
	if err != nil {
		return nil, err
	}

	return &TSVLookup{rows: rows}, nil
}

// Map implements Lookup with the same ordering contract as EmbeddedHuman.
func (l *TSVLookup) Map(sourceNamespace, targetNamespace string, ids []string) ([]ranklist.IdentifierPair, error) {
	if err := checkNamespaces(sourceNamespace, targetNamespace); err != nil {
		return nil, err
	}

	return mapAgainstRows(l.rows, ids), nil
}
