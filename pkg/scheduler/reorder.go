package scheduler

import (
	"sort"

	"casesearch/pkg/models"
)

// adaptiveScore re-weights a variant's static priority with whatever this
// run has learned about its canonical key so far (spec.md §4.4 phase
// ordering note). Variants with no samples yet fall back to raw priority.
func adaptiveScore(variant models.QueryVariant, carry *models.SchedulerCarryState) float64 {
	stats, ok := carry.VariantUtility[variant.CanonicalKey]
	if !ok || stats.Samples == 0 {
		return float64(variant.Priority)
	}
	samples := float64(stats.Samples)
	caseLikeRate := float64(stats.CaseLikeHits) / samples
	challengeRate := float64(stats.ChallengeHits) / samples
	timeoutRate := float64(stats.TimeoutHits) / samples

	return float64(variant.Priority) + 40*stats.MeanUtility + 18*caseLikeRate - 14*challengeRate - 8*timeoutRate
}

// reorderPhase re-sorts one phase's pending variants by adaptive score
// immediately before each attempt, highest first, stable on ties.
func reorderPhase(variants []models.QueryVariant, carry *models.SchedulerCarryState) {
	sort.SliceStable(variants, func(i, j int) bool {
		return adaptiveScore(variants[i], carry) > adaptiveScore(variants[j], carry)
	})
}
