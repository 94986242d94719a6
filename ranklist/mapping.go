package ranklist

// IdentifierMapping is a one-to-one mapping from source-namespace
// identifiers to target-namespace identifiers, produced by deduplicating the
// raw many-to-many output of an identifier-lookup service.
type IdentifierMapping struct {
	targets map[string]string
	sources []string
}

// Len returns the number of mapped source identifiers.
func (m *IdentifierMapping) Len() int {
	return len(m.sources)
}

// Target returns the target identifier for source and whether source is
// mapped at all.
func (m *IdentifierMapping) Target(source string) (string, bool) {
	t, ok := m.targets[source]

	return t, ok
}

// Sources returns the mapped source identifiers in the order their first
// pair appeared in the lookup output. The returned slice is a copy.
func (m *IdentifierMapping) Sources() []string {
	out := make([]string, len(m.sources))
	copy(out, m.sources)

	return out
}

// MapIdentifiers deduplicates raw lookup output to a one-to-one mapping.
// Under KeepFirst each source retains the first target encountered in pair
// order; under KeepLast, the final one. Sources absent from pairs are simply
// absent from the result: partial coverage is the normal state of affairs
// between identifier namespaces, not an error.
func MapIdentifiers(pairs []IdentifierPair, policy DuplicatePolicy) *IdentifierMapping {
	out := &IdentifierMapping{
		targets: make(map[string]string, len(pairs)),
		sources: make([]string, 0, len(pairs)),
	}

	for _, p := range pairs {
		if _, seen := out.targets[p.Source]; seen {
			if policy == KeepLast {
				out.targets[p.Source] = p.Target
			}
			continue
		}

		out.targets[p.Source] = p.Target
		out.sources = append(out.sources, p.Source)
	}

	return out
}
