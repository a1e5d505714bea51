// Package tokenizer turns raw text fields into the cleaned token
// sequences the positional indexes are built from.
package tokenizer

import (
	"strings"
)

// punctuationCutset is the fixed set of punctuation characters trimmed
// from token edges. Interior punctuation is kept, so "don't" survives
// while "shoes," becomes "shoes".
const punctuationCutset = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize converts a raw text field into its cleaned token sequence:
// split on whitespace, lowercase, trim edge punctuation, drop tokens
// that end up empty, drop stopwords. The indices 0..n-1 of the returned
// slice are the positions recorded by the positional indexes.
//
// Normalize is idempotent: re-normalizing its own (space-joined) output
// yields the same sequence. No stemming is performed; token identity is
// exact string equality.
func Normalize(text string) []string {
	tokens := make([]string, 0) // empty slice, not nil

	for _, raw := range strings.Fields(text) {
		token := strings.ToLower(raw)
		token = strings.Trim(token, punctuationCutset)
		if token == "" {
			continue
		}
		if IsStopword(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
