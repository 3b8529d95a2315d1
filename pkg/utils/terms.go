package utils

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "me": {}, "my": {}, "of": {}, "on": {}, "or": {},
	"so": {}, "that": {}, "the": {}, "their": {}, "then": {}, "there": {}, "these": {}, "this": {},
	"to": {}, "was": {}, "we": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// Words lowercases text and splits it on anything that is not a letter or digit.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Terms returns the distinct non-stopword words of text in first-seen order.
// Output only contains letters and digits, so it is safe to splice into a tsquery.
func Terms(text string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, w := range Words(text) {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

// TermFrequencies counts every word of text, stopwords included.
func TermFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range Words(text) {
		freq[w]++
	}
	return freq
}
