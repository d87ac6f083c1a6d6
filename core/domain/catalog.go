// ABOUTME: Catalog domain model maps categories to channels to ordered candidate endpoints
// ABOUTME: Provides copy, count and key helpers used by every pipeline phase

package domain

import (
	"sort"
)

// MinResults is the candidate count below which a ranked channel is considered under-served
const MinResults = 3

// TemplateSourceID tags candidates that were seeded from the channel template
const TemplateSourceID = "template"

// CandidateURL is one discovered endpoint for a channel
type CandidateURL struct {
	// URL is the endpoint address; candidates are equal when their URL strings are equal
	URL string `json:"url"`

	// SourceID names the discovery source that surfaced the URL
	SourceID string `json:"source_id"`

	// QualityScore is set by the ranker; nil means the candidate was never probed
	QualityScore *float64 `json:"quality_score,omitempty"`
}

// WithScore returns a copy of the candidate carrying the given quality score
func (c CandidateURL) WithScore(score float64) CandidateURL {
	c.QualityScore = &score
	return c
}

// Score returns the quality score or 0 when the candidate is unprobed
func (c CandidateURL) Score() float64 {
	if c.QualityScore == nil {
		return 0
	}
	return *c.QualityScore
}

// ChannelKey identifies one channel inside a catalog
type ChannelKey struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Catalog maps Category -> ChannelName -> ordered candidates (best first after ranking)
type Catalog map[string]map[string][]CandidateURL

// NewCatalog returns an empty catalog
func NewCatalog() Catalog {
	return make(Catalog)
}

// Ensure creates the (category, name) key with an empty candidate list when absent
func (c Catalog) Ensure(category, name string) {
	channels, ok := c[category]
	if !ok {
		channels = make(map[string][]CandidateURL)
		c[category] = channels
	}
	if _, ok := channels[name]; !ok {
		channels[name] = []CandidateURL{}
	}
}

// Get returns the candidates for a key and whether the key exists
func (c Catalog) Get(key ChannelKey) ([]CandidateURL, bool) {
	channels, ok := c[key.Category]
	if !ok {
		return nil, false
	}
	candidates, ok := channels[key.Name]
	return candidates, ok
}

// Set replaces the candidate list for a key, creating the key when needed
func (c Catalog) Set(key ChannelKey, candidates []CandidateURL) {
	c.Ensure(key.Category, key.Name)
	c[key.Category][key.Name] = candidates
}

// Count returns the flattened number of candidates in the catalog
func (c Catalog) Count() int {
	total := 0
	for _, channels := range c {
		for _, candidates := range channels {
			total += len(candidates)
		}
	}
	return total
}

// Keys returns every channel key sorted by category, then name
func (c Catalog) Keys() []ChannelKey {
	keys := make([]ChannelKey, 0)
	for category, channels := range c {
		for name := range channels {
			keys = append(keys, ChannelKey{Category: category, Name: name})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// Clone returns a deep copy so phases can work on their own catalog
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for category, channels := range c {
		copied := make(map[string][]CandidateURL, len(channels))
		for name, candidates := range channels {
			list := make([]CandidateURL, len(candidates))
			copy(list, candidates)
			copied[name] = list
		}
		out[category] = copied
	}
	return out
}

// URLs returns every candidate URL in key order
func (c Catalog) URLs() []string {
	urls := make([]string, 0, c.Count())
	for _, key := range c.Keys() {
		candidates, _ := c.Get(key)
		for _, candidate := range candidates {
			urls = append(urls, candidate.URL)
		}
	}
	return urls
}

// AppendUnique appends candidates to the key, skipping URLs already present for that key
func (c Catalog) AppendUnique(key ChannelKey, candidates ...CandidateURL) int {
	c.Ensure(key.Category, key.Name)
	existing := c[key.Category][key.Name]
	seen := make(map[string]struct{}, len(existing))
	for _, candidate := range existing {
		seen[candidate.URL] = struct{}{}
	}
	added := 0
	for _, candidate := range candidates {
		if candidate.URL == "" {
			continue
		}
		if _, dup := seen[candidate.URL]; dup {
			continue
		}
		seen[candidate.URL] = struct{}{}
		existing = append(existing, candidate)
		added++
	}
	c[key.Category][key.Name] = existing
	return added
}
