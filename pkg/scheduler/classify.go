package scheduler

import (
	"strings"

	"casesearch/pkg/models"
)

// ClassifyFunc is the scheduler's classification collaborator, injected
// rather than imported directly so the scheduler never depends on the
// classifier package — only on the signal it produces for utility scoring.
type ClassifyFunc func(models.CaseCandidate) models.CandidateKind

// heuristicClassify is the scheduler's fallback when no ClassifyFunc is
// supplied: a cheap lexical guess, good enough to steer adaptive reordering
// before the real verifier ever sees a candidate.
func heuristicClassify(c models.CaseCandidate) models.CandidateKind {
	if c.Title == "" {
		return models.KindUnknown
	}
	lower := strings.ToLower(c.Title)
	if containsAny(lower, []string{"act,", "act 19", "act 20", "code of", "rules,"}) {
		return models.KindStatute
	}
	if containsAny(lower, []string{" v. ", " v ", " vs ", " versus ", "state of", "union of india"}) {
		return models.KindCase
	}
	return models.KindUnknown
}

func containsAny(lower string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
