// Package tokenizer normalises free text into index terms. It lower-cases
// input, treats every rune outside [a-z0-9] as a separator, and drops short
// tokens and common English stop words.
package tokenizer

import (
	"strings"
)

// MinTermLength is the shortest surface form accepted as a term.
const MinTermLength = 3

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "his": {}, "how": {},
	"its": {}, "may": {}, "who": {}, "did": {}, "get": {}, "him": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "they": {},
	"have": {}, "what": {}, "when": {}, "your": {}, "will": {},
}

// Tokenize splits text into normalised terms. It is pure and deterministic;
// empty or whitespace-only input yields an empty slice.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < MinTermLength {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

// IsStopWord reports whether the already-lowercased word is in the stop set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
