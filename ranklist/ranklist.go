// Package ranklist turns raw differential expression tables into the
// cleaned, uniquely-keyed, descending-sorted score series consumed by
// rank-based enrichment methods.
package ranklist

import (
	"errors"
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// GeneRecord is one row of a differential expression table: a gene
// identifier and its log2 fold change. The fold change is nullable because
// upstream tools emit NA for genes that were filtered before testing.
type GeneRecord struct {
	Symbol         string
	Log2FoldChange null.Float
}

// IdentifierPair is one raw result row from an identifier-lookup service
// translating between gene identifier namespaces. A single source may appear
// in several pairs; namespaces do not map 1:1.
type IdentifierPair struct {
	Source string
	Target string
}

// DuplicatePolicy selects which entry survives when the same key appears
// more than once. The policy is explicit because the choice changes results
// and callers must not rely on incidental ordering.
type DuplicatePolicy int

const (
	// KeepLast retains the value of the last occurrence of a key. This is
	// the default when building a series from an expression table, matching
	// the overwrite semantics of keyed assignment.
	KeepLast DuplicatePolicy = iota

	// KeepFirst retains the value of the first occurrence of a key. This is
	// the default when deduplicating identifier-lookup output.
	KeepFirst
)

func (p DuplicatePolicy) String() string {
	switch p {
	case KeepLast:
		return "last"
	case KeepFirst:
		return "first"
	}

	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// ParseDuplicatePolicy maps the command line spelling of a duplicate policy
// to its value.
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	switch name {
	case "last":
		return KeepLast, nil
	case "first":
		return KeepFirst, nil
	}

	return 0, fmt.Errorf("unknown duplicate policy %q (valid: last, first)", name)
}

var (
	// ErrEmptyInput indicates that the input collection held no records at
	// all.
	ErrEmptyInput = errors.New("ranklist: empty input")

	// ErrAllScoresMissing indicates that every input record carried a null
	// score, leaving nothing to rank.
	ErrAllScoresMissing = errors.New("ranklist: all scores missing")

	// ErrNoMappedIdentifiers indicates that no input record survived the
	// identifier mapping step.
	ErrNoMappedIdentifiers = errors.New("ranklist: no records with mapped identifiers")
)

// MalformedRowError reports an input row that cannot satisfy the fixed-field
// record contract, with enough context to find the offending line.
type MalformedRowError struct {
	Line    int
	Column  string
	Message string
}

func (e MalformedRowError) Error() string {
	return fmt.Sprintf("Line: %d, Column: %s, Message: %s", e.Line, e.Column, e.Message)
}
