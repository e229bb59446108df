package canon

import (
	"strings"
	"unicode"
)

// Sentinel tokens used when the heuristic produces nothing usable.
const (
	SentinelType      = "Thing"
	SentinelPredicate = "relatedTo"
)

// stopWords are dropped before building a predicate token.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "in": true,
	"on": true, "at": true, "for": true, "with": true, "and": true,
	"or": true, "but": true,
}

// maxPredicateWords bounds how many significant words feed the token.
const maxPredicateWords = 3

// HeuristicType converts a raw type label to a PascalCase token.
// Pure function: same label always yields the same token.
func HeuristicType(label string) string {
	var b strings.Builder
	for _, word := range strings.Fields(label) {
		b.WriteString(capitalize(word))
	}
	token := stripNonAlnum(b.String())
	if token == "" {
		return SentinelType
	}
	return token
}

// HeuristicPredicate converts a raw relationship description to a
// camelCase token from its first few significant words.
func HeuristicPredicate(desc string) string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(desc)) {
		if stopWords[w] || len(w) <= 2 {
			continue
		}
		words = append(words, w)
		if len(words) == maxPredicateWords {
			break
		}
	}
	if len(words) == 0 {
		return SentinelPredicate
	}

	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	token := stripNonAlnum(b.String())
	if token == "" {
		return SentinelPredicate
	}
	return token
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	runes := []rune(w)
	if len(runes) == 0 {
		return w
	}
	out := make([]rune, len(runes))
	out[0] = unicode.ToUpper(runes[0])
	for i, r := range runes[1:] {
		out[i+1] = unicode.ToLower(r)
	}
	return string(out)
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
