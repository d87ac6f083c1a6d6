// ABOUTME: Aggregator folds raw per-source results into the canonical catalog
// ABOUTME: Merge appends supplement catalogs without removing or reordering existing candidates

package aggregate

import (
	"channel-catalog/core/domain"
)

// FoldIn builds the catalog for a run. It starts from the template keys and
// seeds, then appends each source's candidates for every template channel in
// the order the sources were processed. Channel names a source returns that the
// template does not declare are ignored, since they have no category.
// Duplicate URLs within a channel keep their first occurrence.
func FoldIn(template domain.Template, results domain.SourceResults) domain.Catalog {
	catalog := template.Catalog()
	keys := template.Keys()

	for _, record := range results.Records {
		if len(record.Result) == 0 {
			continue
		}
		for _, key := range keys {
			candidates, ok := record.Result[key.Name]
			if !ok {
				continue
			}
			catalog.AppendUnique(key, tagged(candidates, record.SourceID)...)
		}
	}

	return catalog
}

// Merge returns a new catalog holding main plus, for every key in supplement,
// the supplement's candidates appended after main's. Keys missing from main
// are created. Main's candidates are never removed or reordered.
func Merge(main, supplement domain.Catalog) domain.Catalog {
	merged := main.Clone()
	if merged == nil {
		merged = domain.NewCatalog()
	}
	for _, key := range supplement.Keys() {
		candidates, _ := supplement.Get(key)
		merged.AppendUnique(key, candidates...)
	}
	return merged
}

// Count returns the flattened number of candidates in catalog
func Count(catalog domain.Catalog) int {
	return catalog.Count()
}

// tagged fills in the source id on candidates that arrived without one
func tagged(candidates []domain.CandidateURL, sourceID string) []domain.CandidateURL {
	out := make([]domain.CandidateURL, len(candidates))
	for i, candidate := range candidates {
		if candidate.SourceID == "" {
			candidate.SourceID = sourceID
		}
		out[i] = candidate
	}
	return out
}
