// Package ranker produces the final ranked result list for a query. It
// combines exact and fuzzy keyword matching with concept-expansion scoring
// over TF-IDF weights.
package ranker

import (
	"math"
	"sort"

	"github.com/nishantgupta83/mindful-living-search/internal/search/concept"
	"github.com/nishantgupta83/mindful-living-search/internal/search/fuzzy"
	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
	"github.com/nishantgupta83/mindful-living-search/internal/search/tokenizer"
)

const (
	// exact index hits count double against fuzzy ones
	exactMatchBoost = 2.0

	keywordWeight  = 0.6
	semanticWeight = 0.4
)

// Result is one ranked hit for a query. Ephemeral: produced per query, never
// persisted.
type Result struct {
	DocID        string   `json:"doc_id"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
}

// Rank scores every candidate document for the query and returns results
// sorted by descending score, ties broken by ascending document id. An empty
// or stop-word-only query yields an empty list. A limit <= 0 means no limit.
func Rank(query string, idx *index.Index, graph *concept.Graph, limit int) []Result {
	queryTerms := tokenizer.Tokenize(query)
	if len(queryTerms) == 0 {
		return []Result{}
	}

	querySet := make(map[string]struct{}, len(queryTerms))
	for _, term := range queryTerms {
		querySet[term] = struct{}{}
	}

	// expansion terms that were not in the query itself
	var semanticTerms []string
	for _, term := range graph.ExpandQuery(query) {
		if _, isQueryTerm := querySet[term]; !isQueryTerm {
			semanticTerms = append(semanticTerms, term)
		}
	}

	vocab := idx.Terms()
	keyword := make(map[string]float64)
	semantic := make(map[string]float64)
	matched := make(map[string]map[string]struct{})

	note := func(docID, term string) {
		set, ok := matched[docID]
		if !ok {
			set = make(map[string]struct{})
			matched[docID] = set
		}
		set[term] = struct{}{}
	}

	for term := range querySet {
		// exact hits, double weight
		if idf := idfOf(idx, term); idf > 0 {
			for _, p := range idx.Lookup(term) {
				keyword[p.DocID] += p.TF * idf * exactMatchBoost
				note(p.DocID, term)
			}
		}
		// fuzzy hits from nearby vocabulary terms
		for _, m := range fuzzy.SimilarTerms(term, vocab, true) {
			idf := idfOf(idx, m.Term)
			if idf <= 0 {
				continue
			}
			for _, p := range idx.Lookup(m.Term) {
				keyword[p.DocID] += p.TF * idf * m.Similarity
				note(p.DocID, m.Term)
			}
		}
	}

	// expansion terms score on exact index hits only; the expansion itself
	// already provides the controlled recall
	for _, term := range semanticTerms {
		idf := idfOf(idx, term)
		if idf <= 0 {
			continue
		}
		for _, p := range idx.Lookup(term) {
			semantic[p.DocID] += p.TF * idf
			note(p.DocID, term)
		}
	}

	results := make([]Result, 0, len(keyword)+len(semantic))
	seen := make(map[string]struct{}, len(keyword)+len(semantic))
	collect := func(docID string) {
		if _, dup := seen[docID]; dup {
			return
		}
		seen[docID] = struct{}{}
		score := keywordWeight*keyword[docID] + semanticWeight*semantic[docID]
		if score <= 0 {
			return
		}
		results = append(results, Result{
			DocID:        docID,
			Score:        score,
			MatchedTerms: sortedTerms(matched[docID]),
		})
	}
	for docID := range keyword {
		collect(docID)
	}
	for docID := range semantic {
		collect(docID)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// idfOf returns ln(N/df), or 0 when the term is absent from the index so a
// missing term contributes nothing rather than dividing by zero.
func idfOf(idx *index.Index, term string) float64 {
	df := idx.DocumentFrequency(term)
	if df == 0 {
		return 0
	}
	total := idx.DocumentCount()
	if total == 0 {
		return 0
	}
	return math.Log(float64(total) / float64(df))
}

func sortedTerms(set map[string]struct{}) []string {
	terms := make([]string, 0, len(set))
	for term := range set {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
