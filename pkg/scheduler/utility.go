package scheduler

import (
	"casesearch/pkg/models"
	"casesearch/pkg/provider"
)

// attemptSignal summarizes one provider call into the components the
// utility formula blends.
type attemptSignal struct {
	parsedSignal     float64
	caseLikeRatio    float64
	statuteLikeRatio float64
	challengePenalty float64
	timeoutPenalty   float64
}

// utilityScore blends an attempt's yield and noise into a single adaptive
// reordering signal (spec.md §4.4 step 6).
func utilityScore(s attemptSignal) float64 {
	return s.parsedSignal*0.40 + s.caseLikeRatio*0.45 - s.statuteLikeRatio*0.18 - s.challengePenalty - s.timeoutPenalty
}

// classifyResult buckets a provider's cases with the injected classifier
// to derive the case-like/statute-like ratios the utility formula needs.
func classifyResult(cases []models.CaseCandidate, classify ClassifyFunc) (caseLikeRatio, statuteLikeRatio float64) {
	if len(cases) == 0 {
		return 0, 0
	}
	var caseLike, statuteLike int
	for _, c := range cases {
		switch classify(c) {
		case models.KindCase:
			caseLike++
		case models.KindStatute:
			statuteLike++
		}
	}
	n := float64(len(cases))
	return float64(caseLike) / n, float64(statuteLike) / n
}

// buildAttemptSignal derives the utility components from one provider call.
func buildAttemptSignal(debug provider.SearchDebug, cases []models.CaseCandidate, classify ClassifyFunc) attemptSignal {
	caseLikeRatio, statuteLikeRatio := classifyResult(cases, classify)

	parsedSignal := 0.0
	if debug.ParsedCount > 0 {
		parsedSignal = 1.0
		if debug.ParsedCount < 3 {
			parsedSignal = float64(debug.ParsedCount) / 3.0
		}
	}

	challengePenalty := 0.0
	if debug.ChallengeDetected || debug.BlockedType == provider.BlockedChallenge {
		challengePenalty = 0.6
	}
	timeoutPenalty := 0.0
	if debug.TimedOut {
		timeoutPenalty = 0.4
	}

	return attemptSignal{
		parsedSignal:     parsedSignal,
		caseLikeRatio:    caseLikeRatio,
		statuteLikeRatio: statuteLikeRatio,
		challengePenalty: challengePenalty,
		timeoutPenalty:   timeoutPenalty,
	}
}

// updateVariantUtility folds one attempt's signal into the running mean
// tracked per canonical key.
func updateVariantUtility(carry *models.SchedulerCarryState, canonicalKey string, score float64, signal attemptSignal, debug provider.SearchDebug) {
	stats, ok := carry.VariantUtility[canonicalKey]
	if !ok {
		stats = &models.VariantUtilityStats{}
		carry.VariantUtility[canonicalKey] = stats
	}
	stats.MeanUtility = (stats.MeanUtility*float64(stats.Samples) + score) / float64(stats.Samples+1)
	stats.Samples++
	if signal.caseLikeRatio > 0 {
		stats.CaseLikeHits++
	}
	if signal.statuteLikeRatio > 0 {
		stats.StatuteLikeHits++
	}
	if debug.ChallengeDetected {
		stats.ChallengeHits++
	}
	if debug.TimedOut {
		stats.TimeoutHits++
	}
}
