// Package idmap provides identifier-lookup services translating gene
// identifiers between namespaces. Lookups return raw (source, target)
// pairs: possibly many-to-many, possibly missing inputs entirely. Collapsing
// that output to a usable one-to-one mapping is the caller's business (see
// ranklist.MapIdentifiers).
package idmap

import (
	"fmt"

	"github.com/enrichseq/enrichseq/ranklist"
)

// Namespace tags understood by the lookups in this package.
const (
	NamespaceSymbol = "symbol"
	NamespaceEntrez = "entrez"
)

// Lookup translates identifiers from one namespace to another. Inputs with
// no translation are omitted from the result; a single input may yield
// several pairs.
type Lookup interface {
	Map(sourceNamespace, targetNamespace string, ids []string) ([]ranklist.IdentifierPair, error)
}

func checkNamespaces(source, target string) error {
	if source != NamespaceSymbol || target != NamespaceEntrez {
		return fmt.Errorf("idmap: unsupported namespace pair %q -> %q (supported: %q -> %q)",
			source, target, NamespaceSymbol, NamespaceEntrez)
	}

	return nil
}
