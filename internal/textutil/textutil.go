// Package textutil holds the deterministic natural-language heuristics shared
// by the normalizer, story parser, and matcher. Everything here is pure.
package textutil

import (
	"math"
	"regexp"
	"strings"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "to": {}, "of": {},
	"in": {}, "for": {}, "on": {}, "with": {}, "by": {}, "at": {}, "from": {},
	"that": {}, "this": {}, "it": {}, "is": {}, "are": {}, "be": {}, "as": {},
	"so": {}, "we": {}, "i": {}, "can": {}, "will": {}, "our": {}, "their": {},
	"not": {}, "into": {}, "about": {}, "when": {}, "then": {}, "if": {},
	"but": {}, "because": {}, "due": {}, "has": {}, "have": {}, "had": {},
}

var (
	tokenPattern  = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9\-']+`)
	spacePattern  = regexp.MustCompile(`\s+`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

const (
	minKeyphraseLen  = 3
	maxKeyphraseTerm = 7
)

// Normalize lowercases text and collapses runs of whitespace.
func Normalize(text string) string {
	return spacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// SplitSentences breaks text on terminal punctuation, dropping empty fragments.
func SplitSentences(text string) []string {
	fragments := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// Tokens returns the lowercase tokens of text in order, stopwords included.
func Tokens(text string) []string {
	matches := tokenPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, match := range matches {
		tokens = append(tokens, strings.ToLower(match))
	}
	return tokens
}

// KeywordSet returns the stopword-filtered lowercase token set of text.
func KeywordSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, token := range Tokens(text) {
		if _, stop := stopwords[token]; stop {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// KeyphraseCandidates extracts up to seven ordered keyphrases: lowercase
// tokens of at least three characters that are not stopwords.
func KeyphraseCandidates(text string) []string {
	var filtered []string
	for _, token := range Tokens(text) {
		if _, stop := stopwords[token]; stop {
			continue
		}
		if len(token) < minKeyphraseLen {
			continue
		}
		filtered = append(filtered, token)
		if len(filtered) == maxKeyphraseTerm {
			break
		}
	}
	return filtered
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Jaccard computes set similarity |A∩B|/|A∪B|. Two empty sets are defined as
// identical (1.0); a single empty set yields 0.0. Callers that need a
// different degenerate case must guard emptiness themselves.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := IntersectionSize(a, b)
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// CosineOverlap computes |A∩B|/sqrt(|A|*|B|) over binary term vectors.
// Either set empty yields 0.0.
func CosineOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := IntersectionSize(a, b)
	return float64(intersection) / math.Sqrt(float64(len(a))*float64(len(b)))
}

// IntersectionSize counts terms present in both sets.
func IntersectionSize(a, b map[string]struct{}) int {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	count := 0
	for term := range small {
		if _, ok := large[term]; ok {
			count++
		}
	}
	return count
}

// Intersects reports whether the two sets share at least one term.
func Intersects(a, b map[string]struct{}) bool {
	return IntersectionSize(a, b) > 0
}
