package ranklist

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// ScoreColumn is the header name of the required score column. Matching is
// case-insensitive and log2FoldChange is accepted as an alias, covering the
// two common export spellings.
const ScoreColumn = "log2fc"

const scoreColumnAlias = "log2foldchange"

// ReadGeneRecords parses a delimited differential expression table. A header
// row is required. The first column holds the gene identifier regardless of
// what its header says; the score is taken from the column named log2fc.
// Empty, NA, and NaN score cells become null scores rather than errors. A
// missing score column or an unparseable non-null score cell fails with a
// MalformedRowError carrying the physical line number of the offense.
func ReadGeneRecords(r io.Reader, delimiter rune) ([]GeneRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	} else if err != nil {
		return nil, pfx.Err(err)
	}
	headerLine, _ := cr.FieldPos(0)

	scoreCol := -1
	for i, name := range header {
		if i == 0 {
			// First column is the identifier no matter its label.
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ScoreColumn, scoreColumnAlias:
			scoreCol = i
		}
	}
	if scoreCol == -1 {
		return nil, MalformedRowError{Line: headerLine, Column: ScoreColumn, Message: "required score column not found in header"}
	}

	records := make([]GeneRecord, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		// Physical file line, so errors stay findable past skipped
		// comment lines.
		line, _ := cr.FieldPos(0)

		if len(row) <= scoreCol {
			return nil, MalformedRowError{Line: line, Column: ScoreColumn, Message: "row has too few columns"}
		}

		score, err := parseScore(row[scoreCol])
		if err != nil {
			return nil, MalformedRowError{Line: line, Column: ScoreColumn, Message: err.Error()}
		}

		records = append(records, GeneRecord{
			Symbol:         strings.TrimSpace(row[0]),
			Log2FoldChange: score,
		})
	}

	return records, nil
}

func parseScore(cell string) (null.Float, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null":
		return null.Float{}, nil
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return null.Float{}, err
	}
	if math.IsNaN(v) {
		return null.Float{}, nil
	}

	return null.FloatFrom(v), nil
}
