// Package textutil holds the shared, pure text-processing utilities every
// topic's signal extractor builds on: tokenizer, entity normalizer,
// number parser, comparator parser, and date parser (spec.md §4.2).
package textutil

import (
	"regexp"
	"strings"
)

// stopWords are dropped by Tokenize; kept deliberately small and generic
// per spec.md §4.2 ("the, a, will, on, in, of, for, to, is, be, ...").
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "will": true, "on": true, "in": true,
	"of": true, "for": true, "to": true, "is": true, "be": true, "at": true,
	"by": true, "and": true, "or": true, "as": true, "it": true, "its": true,
	"this": true, "that": true, "with": true, "from": true, "than": true,
	"are": true, "was": true, "were": true, "has": true, "have": true,
	"does": true, "do": true, "did": true, "not": true, "no": true,
}

var reWord = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)*`)

// Tokenize lowercases, strips punctuation (keeping intra-word hyphens),
// collapses whitespace, drops stop words, and drops tokens shorter than
// two characters. Output preserves input order.
func Tokenize(title string) []string {
	lower := strings.ToLower(title)
	words := reWord.FindAllString(lower, -1)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if stopWords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// TokenSet builds a deduplicated set from a token slice, for Jaccard-style
// comparisons (spec.md §4.4 text score).
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if len(t) < 2 {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// JaccardSimilarity computes |A∩B| / |A∪B| over two token sets. Two
// titles with no tokens at all carry no textual signal either way, so
// that case is neutral rather than a zero-overlap penalty.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.5
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// RecallSimilarity computes |A∩B| / |A|, used where asymmetric recall
// (how much of the left title's vocabulary is covered by the right) is
// a better signal than symmetric Jaccard.
func RecallSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a))
}
