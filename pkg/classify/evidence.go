package classify

import (
	"regexp"
	"strings"
)

const evidenceWindowChars = 220
const maxEvidenceWindows = 16
const maxBodyExcerptSentences = 40

var sentenceSplitRE = regexp.MustCompile(`(?s)[.!?\n]+\s*`)

// ratioSignalTerms mark sentences likely to carry the holding/disposition
// language the proposition gate's relation and chain checks look for —
// "ratio-like" in the sense of stating the ratio decidendi, not a numeric
// ratio.
var ratioSignalTerms = []string{
	"held", "allowed", "dismissed", "quashed", "condoned", "refused",
	"rejected", "granted", "set aside", "upheld", "affirmed", "remanded",
	"convicted", "acquitted", "sanction", "cognizance", "maintainable",
	"time-barred", "time barred", "limitation",
}

// splitSentences breaks body text into trimmed, non-empty sentences.
func splitSentences(body string) []string {
	parts := sentenceSplitRE.Split(body, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// evidenceWindows picks sentences carrying disposition language, each
// capped at evidenceWindowChars, capped overall at maxEvidenceWindows.
func evidenceWindows(sentences []string) []string {
	var out []string
	for _, s := range sentences {
		lower := strings.ToLower(s)
		if !containsAnySignal(lower) {
			continue
		}
		out = append(out, truncate(s, evidenceWindowChars))
		if len(out) >= maxEvidenceWindows {
			break
		}
	}
	return out
}

func containsAnySignal(lower string) bool {
	for _, t := range ratioSignalTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func truncate(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	return strings.TrimSpace(s[:maxChars])
}

func bodyExcerpt(sentences []string) []string {
	if len(sentences) > maxBodyExcerptSentences {
		return sentences[:maxBodyExcerptSentences]
	}
	return sentences
}
