// Package scheduler implements the budgeted, adaptive retrieval scheduler
// (C5): it walks query variants phase by phase against a RetrievalProvider,
// tracking a global attempt budget, per-phase page caps, and blocking
// backoff, and deduplicating candidates across attempts by URL.
package scheduler

import "casesearch/pkg/models"

// MaxPagesByPhase caps pagination per phase bucket.
type MaxPagesByPhase struct {
	Primary  int
	Fallback int
	Other    int
}

// Config is the scheduler's tuning surface for one run.
type Config struct {
	StrictCaseOnly bool
	VerifyLimit    int

	GlobalBudget  int
	PhaseLimits   map[models.Phase]int
	BlockedThreshold int

	MinCaseTarget        int
	RequireSupremeCourt  bool
	StopOnCandidateTarget bool

	MaxElapsedMs    int64
	FetchTimeoutMs  int
	Max429Retries   int
	MaxRetryAfterMs int

	MaxPagesByPhase MaxPagesByPhase
}

// DefaultConfig returns the scheduler's baseline tuning, overridable per request.
func DefaultConfig() Config {
	return Config{
		StrictCaseOnly: false,
		VerifyLimit:    8,

		GlobalBudget: 40,
		PhaseLimits: map[models.Phase]int{
			models.PhasePrimary:   10,
			models.PhaseFallback:  10,
			models.PhaseRescue:    8,
			models.PhaseMicro:     6,
			models.PhaseRevolving: 8,
			models.PhaseBrowse:    6,
		},
		BlockedThreshold: 3,

		MinCaseTarget:         6,
		RequireSupremeCourt:   false,
		StopOnCandidateTarget: true,

		MaxElapsedMs:    25000,
		FetchTimeoutMs:  4000,
		Max429Retries:   2,
		MaxRetryAfterMs: 8000,

		MaxPagesByPhase: MaxPagesByPhase{Primary: 3, Fallback: 2, Other: 1},
	}
}

// maxPagesFor resolves the page cap for a phase bucket.
func (c Config) maxPagesFor(phase models.Phase) int {
	switch phase {
	case models.PhasePrimary:
		return c.MaxPagesByPhase.Primary
	case models.PhaseFallback:
		return c.MaxPagesByPhase.Fallback
	default:
		return c.MaxPagesByPhase.Other
	}
}

// phaseLimit resolves the attempt cap for a phase, defaulting to unlimited (0 == no cap beyond global budget).
func (c Config) phaseLimit(phase models.Phase) int {
	if c.PhaseLimits == nil {
		return 0
	}
	return c.PhaseLimits[phase]
}
