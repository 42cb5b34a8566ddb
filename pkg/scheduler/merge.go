package scheduler

import "casesearch/pkg/models"

// mergeCandidate folds one freshly retrieved candidate into the carry
// state's dedup map, keyed by URL, preferring the richer record on a tie
// (spec.md §4.4 candidate dedup & merge).
func mergeCandidate(carry *models.SchedulerCarryState, c models.CaseCandidate, canonicalKey string) {
	existing, ok := carry.Candidates[c.URL]
	if !ok {
		c.FoundByVariants = append(c.FoundByVariants, canonicalKey)
		carry.Candidates[c.URL] = c
		carry.CandidateProvenance[c.URL] = append(carry.CandidateProvenance[c.URL], canonicalKey)
		return
	}

	carry.CandidateProvenance[c.URL] = append(carry.CandidateProvenance[c.URL], canonicalKey)

	merged := existing
	if c.QualityScore() > existing.QualityScore() {
		merged = c
	}
	if merged.Snippet == "" {
		merged.Snippet = pickNonEmpty(existing.Snippet, c.Snippet)
	}
	if merged.CourtText == "" {
		merged.CourtText = pickNonEmpty(existing.CourtText, c.CourtText)
	}
	if merged.DetailText == "" {
		merged.DetailText = pickNonEmpty(existing.DetailText, c.DetailText)
	}
	if merged.DetailArtifact == nil {
		merged.DetailArtifact = pickArtifact(existing.DetailArtifact, c.DetailArtifact)
	}
	merged.FoundByVariants = carry.CandidateProvenance[c.URL]
	carry.Candidates[c.URL] = merged
}

func pickNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func pickArtifact(a, b *models.DetailArtifact) *models.DetailArtifact {
	if a != nil {
		return a
	}
	return b
}
