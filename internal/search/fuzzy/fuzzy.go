// Package fuzzy provides edit-distance based approximate term matching,
// used when a query term has no exact hit in the index vocabulary.
package fuzzy

import (
	"sort"
	"strings"
)

// Match pairs an index term with its similarity to the query term.
type Match struct {
	Term       string
	Similarity float64
}

// maxEditDistance returns the edit-distance budget for a term of the given
// length: short terms tolerate one edit, longer terms two.
func maxEditDistance(length int) int {
	if length <= 4 {
		return 1
	}
	return 2
}

// Levenshtein computes the classic unit-cost edit distance between a and b
// using the two-row dynamic-programming formulation.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Similarity returns 1 - dist/maxLen, in [0, 1]. Two empty strings are
// identical.
func Similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}

// SimilarTerms scans indexTerms for approximate matches of queryTerm. A
// candidate qualifies when one term contains the other (if substringOK) or
// its edit distance fits the length-scaled budget. Results are sorted by
// descending similarity, then term, and never include queryTerm itself.
func SimilarTerms(queryTerm string, indexTerms []string, substringOK bool) []Match {
	if queryTerm == "" {
		return nil
	}
	var matches []Match
	for _, term := range indexTerms {
		if term == queryTerm {
			continue
		}
		if substringOK && (strings.Contains(term, queryTerm) || strings.Contains(queryTerm, term)) {
			matches = append(matches, Match{Term: term, Similarity: Similarity(queryTerm, term)})
			continue
		}
		// cheap length filter before the O(n*m) distance
		budget := maxEditDistance(len(queryTerm))
		if diff := len(term) - len(queryTerm); diff > budget || -diff > budget {
			continue
		}
		if dist := Levenshtein(queryTerm, term); dist <= budget {
			matches = append(matches, Match{Term: term, Similarity: Similarity(queryTerm, term)})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Term < matches[j].Term
	})
	return matches
}
