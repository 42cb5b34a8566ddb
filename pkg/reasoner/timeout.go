package reasoner

import (
	"strings"

	"casesearch/pkg/models"
)

// AdaptiveTimeout computes the bumped timeout for a reasoner call: a base
// budget plus 0/400/800ms steps for query complexity signals, capped at max.
func AdaptiveTimeout(baseMs int, cleanedQuery string, ctx models.ContextProfile, pass models.ReasonerPass, maxMs int) (timeoutMs int, applied bool) {
	bump := 0
	if len(ctx.Statutes) >= 2 {
		bump += 400
	}
	lower := strings.ToLower(cleanedQuery)
	if strings.Contains(lower, "read with") || strings.Contains(lower, "interplay") {
		bump += 400
	}
	if len(ctx.Procedures) >= 2 {
		bump += 400
	}
	if len(cleanedQuery) > 180 {
		bump += 400
	}
	if pass == models.ReasonerPassTwo {
		bump += 800
	}

	total := baseMs + bump
	if total > maxMs {
		total = maxMs
	}
	return total, bump > 0
}
