// Package concept implements query expansion and pairwise term similarity
// over a static relatedness table. The table is built once at startup and is
// read-only afterwards, so concurrent lookups need no locking.
package concept

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nishantgupta83/mindful-living-search/internal/search/tokenizer"
)

// RelatednessThreshold is the minimum similarity at which two distinct terms
// count as related.
const RelatednessThreshold = 0.5

// Graph maps a term to its weighted related terms. Weights are in (0, 1].
type Graph struct {
	table map[string]map[string]float64
}

// New builds a Graph from the given table. Entries are copied; the input map
// is not retained.
func New(table map[string]map[string]float64) *Graph {
	g := &Graph{table: make(map[string]map[string]float64, len(table))}
	for term, related := range table {
		entry := make(map[string]float64, len(related))
		for rel, weight := range related {
			if rel == term || weight <= 0 {
				continue
			}
			if weight > 1 {
				weight = 1
			}
			entry[rel] = weight
		}
		if len(entry) > 0 {
			g.table[term] = entry
		}
	}
	return g
}

// Default returns the built-in wellness relatedness table.
func Default() *Graph {
	return New(defaultTable)
}

// LoadFile reads a YAML relatedness table and merges it over the built-in
// one. File entries win on conflict.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading concept table %s: %w", path, err)
	}
	var loaded map[string]map[string]float64
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing concept table %s: %w", path, err)
	}

	merged := make(map[string]map[string]float64, len(defaultTable)+len(loaded))
	for term, related := range defaultTable {
		entry := make(map[string]float64, len(related))
		for rel, w := range related {
			entry[rel] = w
		}
		merged[term] = entry
	}
	for term, related := range loaded {
		entry, ok := merged[term]
		if !ok {
			entry = make(map[string]float64, len(related))
			merged[term] = entry
		}
		for rel, w := range related {
			entry[rel] = w
		}
	}
	return New(merged), nil
}

// ExpandQuery tokenizes text and unions the tokens with every related term
// from the table. Original tokens are always present, even when unknown to
// the table. The result is sorted for determinism.
func (g *Graph) ExpandQuery(text string) []string {
	terms := tokenizer.Tokenize(text)
	if len(terms) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(terms)*2)
	for _, term := range terms {
		seen[term] = struct{}{}
		for rel := range g.table[term] {
			seen[rel] = struct{}{}
		}
	}
	expanded := make([]string, 0, len(seen))
	for term := range seen {
		expanded = append(expanded, term)
	}
	sort.Strings(expanded)
	return expanded
}

// Similarity estimates how related two terms are, in [0, 1]. Identical terms
// score 1. A direct table edge in either direction returns its weight.
// Otherwise the Jaccard overlap of the two related-term sets is used, which
// is 0 when neither term has an entry.
func (g *Graph) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if w, ok := g.table[a][b]; ok {
		return w
	}
	if w, ok := g.table[b][a]; ok {
		return w
	}

	relA := g.table[a]
	relB := g.table[b]
	if len(relA) == 0 || len(relB) == 0 {
		return 0
	}
	intersection := 0
	for term := range relA {
		if _, ok := relB[term]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return 0
	}
	union := len(relA) + len(relB) - intersection
	return float64(intersection) / float64(union)
}

// Related reports whether two terms are the same or similar beyond the
// relatedness threshold.
func (g *Graph) Related(a, b string) bool {
	if a == b {
		return true
	}
	return g.Similarity(a, b) >= RelatednessThreshold
}

// RelatedTerms returns the direct table entry for term, sorted by descending
// weight then term. Returns nil for unknown terms.
func (g *Graph) RelatedTerms(term string) []WeightedTerm {
	entry, ok := g.table[term]
	if !ok {
		return nil
	}
	related := make([]WeightedTerm, 0, len(entry))
	for rel, weight := range entry {
		related = append(related, WeightedTerm{Term: rel, Weight: weight})
	}
	sort.Slice(related, func(i, j int) bool {
		if related[i].Weight != related[j].Weight {
			return related[i].Weight > related[j].Weight
		}
		return related[i].Term < related[j].Term
	})
	return related
}

// Size returns the number of terms with table entries.
func (g *Graph) Size() int {
	return len(g.table)
}

// WeightedTerm pairs a related term with its relatedness weight.
type WeightedTerm struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight"`
}
