package variant

import (
	"regexp"
	"strings"

	"casesearch/pkg/models"
)

var (
	operatorRE  = regexp.MustCompile(`(?i)\b(doctypes?|sortby|courttype|fromdate|todate)\s*:\s*\S*`)
	punctRE     = regexp.MustCompile(`[^a-z0-9\s]+`)
	courtWordRE = regexp.MustCompile(`(?i)\b(supreme court|high court|hon'?ble|tribunal|bench)\b`)
)

// Normalize applies step 7: lowercase, strip query operators, remove court
// words and structural punctuation, collapse whitespace, then token-limit.
// ok is false when the result has fewer than 2 tokens, or (for primary and
// fallback phases) carries no legal signal token.
func Normalize(phrase string, phase models.Phase, legalSignalVocab []string, cfg Config) (normalized string, tokens []string, ok bool) {
	s := strings.ToLower(phrase)
	s = operatorRE.ReplaceAllString(s, " ")
	s = courtWordRE.ReplaceAllString(s, " ")
	s = punctRE.ReplaceAllString(s, " ")
	tokens = strings.Fields(s)

	limit := cfg.TokenLimitOther
	if phase == models.PhasePrimary {
		limit = cfg.TokenLimitPrimary
	}
	if len(tokens) > limit {
		tokens = tokens[:limit]
	}

	normalized = strings.Join(tokens, " ")
	if len(tokens) < 2 {
		return normalized, tokens, false
	}
	if (phase == models.PhasePrimary || phase == models.PhaseFallback) && !hasLegalSignal(normalized, legalSignalVocab) {
		return normalized, tokens, false
	}
	return normalized, tokens, true
}

func hasLegalSignal(normalized string, vocab []string) bool {
	if len(vocab) == 0 {
		return true
	}
	for _, v := range vocab {
		if v != "" && strings.Contains(normalized, strings.ToLower(v)) {
			return true
		}
	}
	return false
}
