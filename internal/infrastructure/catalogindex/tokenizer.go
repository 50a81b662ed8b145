package catalogindex

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes characters and drops combining marks, so that
// "Kádár" and "kadar" produce the same token
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold lower-cases s and strips diacritics
func Fold(s string) string {
	folded, _, err := transform.String(foldChain(), s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokenize splits folded text on anything that is not a letter or digit
func Tokenize(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// UniqueTokens tokenizes s and drops duplicates, keeping first-seen order
func UniqueTokens(s string) []string {
	tokens := Tokenize(s)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
