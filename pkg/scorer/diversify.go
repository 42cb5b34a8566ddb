package scorer

import (
	"regexp"
	"sort"
	"strings"

	"casesearch/pkg/models"
)

var dateTokenRE = regexp.MustCompile(`\b([0-3]?\d[-/.][01]?\d[-/.](?:19|20)\d{2}|(?:19|20)\d{2})\b`)

var titleNoiseRE = regexp.MustCompile(`[^a-z0-9 ]+`)

// DiversifyResult is the diversifier's output: the surviving scored cases
// plus how many duplicates were collapsed.
type DiversifyResult struct {
	Cases           []models.ScoredCase
	FingerprintCollapsed int
	CourtDayCollapsed    int
}

// Diversify keeps one case per title+court+date fingerprint and one per
// court+day, preferring the higher-scored survivor on a collision
// (spec.md §4.6). Candidates with no extractable date fall back to their
// URL as the date component, since collapsing every dateless same-court
// result down to one would be far more aggressive than the spec's
// "court-day" intent describes.
func Diversify(cases []models.ScoredCase) DiversifyResult {
	sorted := make([]models.ScoredCase, len(cases))
	copy(sorted, cases)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RankingScore > sorted[j].RankingScore })

	byFingerprint := make(map[string]bool)
	byCourtDay := make(map[string]bool)

	var out []models.ScoredCase
	result := DiversifyResult{}

	for _, sc := range sorted {
		fp := fingerprint(sc.Candidate)
		if byFingerprint[fp] {
			result.FingerprintCollapsed++
			continue
		}
		cd := courtDay(sc.Candidate)
		if byCourtDay[cd] {
			result.CourtDayCollapsed++
			continue
		}
		byFingerprint[fp] = true
		byCourtDay[cd] = true
		out = append(out, sc)
	}

	result.Cases = out
	return result
}

func fingerprint(c models.CaseCandidate) string {
	return normalizeTitle(c.Title) + "|" + string(c.Court) + "|" + dateComponent(c)
}

func courtDay(c models.CaseCandidate) string {
	return string(c.Court) + "|" + dateComponent(c)
}

func dateComponent(c models.CaseCandidate) string {
	if m := dateTokenRE.FindString(c.Title + " " + c.Snippet); m != "" {
		return m
	}
	return c.URL
}

func normalizeTitle(title string) string {
	lower := strings.ToLower(title)
	return strings.TrimSpace(titleNoiseRE.ReplaceAllString(lower, ""))
}
