// Package index builds and queries the in-memory inverted index. An Index is
// immutable once built; the engine swaps whole generations atomically, so
// lookups never need locking.
package index

import (
	"sort"

	"github.com/nishantgupta83/mindful-living-search/internal/search/tokenizer"
)

// Field weights applied multiplicatively when counting term occurrences.
// Title and area are boosted so matches there outrank body matches.
const (
	weightTitle       = 3.0
	weightArea        = 2.0
	weightTags        = 2.0
	weightDescription = 1.0
	weightApproach    = 1.0
	weightSteps       = 1.0
	weightInsights    = 1.0
)

// Posting associates a document with a normalised term frequency.
type Posting struct {
	DocID string
	TF    float64
}

// Index is an immutable inverted index over one corpus snapshot.
type Index struct {
	postings map[string][]Posting
	docCount int
	// total weighted tokens per document, kept for stats
	totalTerms float64
}

// Build constructs an Index from the given documents. It is a pure function
// of its input: the same documents produce the same index regardless of
// order. The zero-document case yields a valid empty index.
func Build(docs []Document) *Index {
	idx := &Index{
		postings: make(map[string][]Posting),
	}

	type docTerms struct {
		id    string
		freqs map[string]float64
	}
	perDoc := make([]docTerms, 0, len(docs))

	for _, doc := range docs {
		freqs := make(map[string]float64)
		var total float64

		count := func(text string, weight float64) {
			for _, term := range tokenizer.Tokenize(text) {
				freqs[term] += weight
				total += weight
			}
		}
		count(doc.Title, weightTitle)
		count(doc.Description, weightDescription)
		count(doc.Approach, weightApproach)
		for _, step := range doc.Steps {
			count(step, weightSteps)
		}
		for _, insight := range doc.Insights {
			count(insight, weightInsights)
		}
		count(doc.Area, weightArea)
		for _, tag := range doc.Tags {
			count(tag, weightTags)
		}

		if total == 0 {
			continue
		}
		// normalise so a document's term frequencies sum to 1
		for term := range freqs {
			freqs[term] /= total
		}
		perDoc = append(perDoc, docTerms{id: doc.ID, freqs: freqs})
		idx.docCount++
		idx.totalTerms += float64(len(freqs))
	}

	// sort by id so postings order is independent of input order
	sort.Slice(perDoc, func(i, j int) bool { return perDoc[i].id < perDoc[j].id })
	for _, dt := range perDoc {
		for term, tf := range dt.freqs {
			idx.postings[term] = append(idx.postings[term], Posting{DocID: dt.id, TF: tf})
		}
	}
	return idx
}

// Lookup returns the postings for term, or nil for unseen terms. The returned
// slice is shared and must not be mutated.
func (idx *Index) Lookup(term string) []Posting {
	return idx.postings[term]
}

// DocumentFrequency returns the number of distinct documents containing term.
func (idx *Index) DocumentFrequency(term string) int {
	return len(idx.postings[term])
}

// TermCount returns the number of unique terms in the index.
func (idx *Index) TermCount() int {
	return len(idx.postings)
}

// DocumentCount returns the number of indexed documents.
func (idx *Index) DocumentCount() int {
	return idx.docCount
}

// Terms returns all indexed terms in sorted order.
func (idx *Index) Terms() []string {
	terms := make([]string, 0, len(idx.postings))
	for term := range idx.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// AvgTermsPerDocument returns the mean number of unique terms per document.
func (idx *Index) AvgTermsPerDocument() float64 {
	if idx.docCount == 0 {
		return 0
	}
	return idx.totalTerms / float64(idx.docCount)
}
