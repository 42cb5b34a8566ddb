package pipeline

import "casesearch/pkg/models"

// syntheticAdvisory builds the single advisory row emitted when every other
// recourse (live retrieval, stale-cache recall) came back empty (spec.md
// §4.8 step 9, scenario S6). It always carries the truthful underlying
// status via syntheticFallbackStatus rather than pretending the search
// actually found something.
func (e *Engine) syntheticAdvisory(intent models.IntentProfile) models.ScoredCase {
	return models.ScoredCase{
		Candidate: models.CaseCandidate{
			URL:     e.upstreamBaseURL + "?q=" + intent.CleanedQuery,
			Title:   "No direct citation found for this proposition",
			Snippet: "Retrieval completed without locating a case matching every required element; refine the query or broaden the court/date scope.",
		},
		Score:           0,
		RankingScore:    0,
		ConfidenceScore: 0,
		ConfidenceBand:  models.BandLow,
		RetrievalTier:   models.TierExploratory,
		FallbackReason:  "synthetic_advisory",
	}
}

// syntheticFallbackStatus preserves the request's truthful underlying state
// under a synthetic advisory row (spec.md §8 property 10): a blocked run
// stays blocked, everything else becomes no_match.
func syntheticFallbackStatus(underlying models.ResponseStatus) models.ResponseStatus {
	if underlying == models.StatusBlocked {
		return models.StatusBlocked
	}
	return models.StatusNoMatch
}
