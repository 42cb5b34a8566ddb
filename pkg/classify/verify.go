package classify

import (
	"context"

	"casesearch/pkg/models"
)

// DetailFetcher is the subset of provider.Provider the verifier needs —
// declared locally so this package never imports pkg/provider directly,
// mirroring the scheduler's ClassifyFunc injection pattern.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, url string, timeoutMs int) (body []byte, contentType string, err error)
}

// VerifyConfig tunes the second-stage detail-fetch pass.
type VerifyConfig struct {
	VerifyLimit        int
	FetchTimeoutMs     int
	SupportsDetailFetch bool
}

// Summary reports the verifier's second-stage yield (spec.md §4.5).
type Summary struct {
	Attempted               int     `json:"attempted"`
	DetailFetched           int     `json:"detail_fetched"`
	DetailFetchFailed       int     `json:"detail_fetch_failed"`
	DetailHydrationCoverage float64 `json:"detail_hydration_coverage"`
	PassedCaseGate          int     `json:"passed_case_gate"`
}

// Verify detail-fetches up to cfg.VerifyLimit shortlisted candidates when
// the provider supports it, hydrating each with a DetailArtifact. A failed
// fetch still leaves the candidate with a minimal artifact rather than
// dropping it — spec.md §4.5's "fallback minimal artifact" allowance.
func Verify(ctx context.Context, candidates []models.ClassifiedCandidate, fetcher DetailFetcher, cfg VerifyConfig) ([]models.ClassifiedCandidate, Summary) {
	var summary Summary

	shortlist := selectShortlist(candidates, cfg.VerifyLimit)
	summary.Attempted = len(shortlist)

	if !cfg.SupportsDetailFetch || fetcher == nil {
		for _, idx := range shortlist {
			if candidates[idx].Kind == models.KindCase || candidates[idx].Kind == models.KindUnknown {
				summary.PassedCaseGate++
			}
		}
		return candidates, summary
	}

	for _, idx := range shortlist {
		c := &candidates[idx]
		body, contentType, err := fetcher.FetchDetail(ctx, c.Candidate.URL, cfg.FetchTimeoutMs)
		if err != nil || len(body) == 0 {
			summary.DetailFetchFailed++
			c.Candidate.DetailArtifact = minimalArtifact([]string{"detail_fetch_failed"})
			continue
		}
		artifact := ExtractDetail(body, contentType)
		c.Candidate.DetailArtifact = artifact
		c.Candidate.DetailText = joinBodyExcerpt(artifact.BodyExcerpt)
		summary.DetailFetched++

		if c.Kind == models.KindCase || c.Kind == models.KindUnknown {
			summary.PassedCaseGate++
		}
	}

	if summary.Attempted > 0 {
		summary.DetailHydrationCoverage = float64(summary.DetailFetched) / float64(summary.Attempted)
	}
	return candidates, summary
}

// selectShortlist returns the indices of the first `limit` case/unknown
// candidates eligible for a detail fetch — statute and noise never qualify.
func selectShortlist(candidates []models.ClassifiedCandidate, limit int) []int {
	var out []int
	for i, c := range candidates {
		if c.Kind != models.KindCase && c.Kind != models.KindUnknown {
			continue
		}
		out = append(out, i)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func joinBodyExcerpt(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	n := len(sentences)
	if n > 6 {
		n = 6
	}
	text := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			text += " "
		}
		text += sentences[i]
	}
	return text
}
