// Package intent implements the Intent Profiler (C1): turning a raw free-text
// legal fact scenario into an IntentProfile. Every operation here is pure.
package intent

import (
	"strings"

	"casesearch/pkg/lexicon"
)

// MinQueryLength is the shortest cleaned query the profiler will accept; shorter
// queries are rejected upstream at the HTTP boundary (spec.md §4.1 Failure, §6).
const MinQueryLength = 12

// CleanQuery strips conversational noise (an enumerated regex set) and normalizes
// whitespace.
func CleanQuery(raw string, lex *lexicon.Compiled) string {
	cleaned := raw
	for _, re := range lex.NoiseRE {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}
	cleaned = lexicon.NormalizeWhitespace(cleaned)
	return strings.TrimSpace(cleaned)
}
