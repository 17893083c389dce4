// Package matching implements the catalog reconciliation heuristics:
// text normalization, token-overlap candidate scoring, and the exact
// pair/name lookup indexes used for batch matching. Everything here is
// pure and store-agnostic.
package matching

import "strings"

// Normalize lower-cases, trims, and collapses internal whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// NormalizeKey lower-cases and trims text for use as an index key.
// Unlike Normalize it leaves internal whitespace untouched, mirroring how
// lookup keys are built on both the catalog and the supplier side.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize splits free text into comparable word tokens: the text is
// lower-cased, hyphens become spaces, the result is split on whitespace,
// and tokens of length <= 1 are dropped. If nothing survives, the whole
// trimmed phrase is returned as a single token so a search never
// degenerates to an empty predicate.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	for _, w := range strings.Fields(strings.ReplaceAll(text, "-", " ")) {
		if len(w) > 1 {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			tokens = []string{trimmed}
		}
	}
	return tokens
}

// OverlapScore counts how many distinct tokens appear as substrings of the
// haystack. Each token contributes at most 1 regardless of how often it
// occurs. Matching is case-insensitive on the token side; callers pass a
// pre-lowered haystack.
func OverlapScore(haystack string, tokens []string) int {
	score := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, strings.ToLower(tok)) {
			score++
		}
	}
	return score
}

// Haystack joins the match-relevant fields of a record into the single
// lower-cased string that OverlapScore searches.
func Haystack(fields ...string) string {
	return strings.ToLower(strings.Join(fields, " "))
}
