package scorer

import (
	"sort"

	"casesearch/pkg/models"
)

// scPreferenceDelta is the maximum ranking-score boost a Supreme Court item
// receives when the preference flag is on (spec.md §4.6, δ ≤ 0.08).
const scPreferenceDelta = 0.08

// ApplySCPreference boosts Supreme Court items' ranking score by a small
// delta and re-sorts, but only when the list actually mixes SC and HC
// items — a homogeneous list has nothing to prefer between.
func ApplySCPreference(cases []models.ScoredCase, preferSC bool) []models.ScoredCase {
	if !preferSC || len(cases) == 0 {
		return cases
	}

	hasSC, hasHC := false, false
	for _, sc := range cases {
		switch sc.Candidate.Court {
		case models.CourtCaseSC:
			hasSC = true
		case models.CourtCaseHC:
			hasHC = true
		}
	}
	if !hasSC || !hasHC {
		return cases
	}

	out := make([]models.ScoredCase, len(cases))
	copy(out, cases)
	for i := range out {
		if out[i].Candidate.Court == models.CourtCaseSC {
			out[i].RankingScore = clamp01(out[i].RankingScore + scPreferenceDelta)
			out[i].Reasons = append(out[i].Reasons, "supreme_court_preference_boost")
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].RankingScore > out[j].RankingScore })
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
