// Package pipeline implements the Pipeline Engine (C9, spec.md §4.8): the
// single driver loop that turns a raw query into a SearchResponse by
// orchestrating the intent profiler, reasoner, variant planner, scheduler,
// classifier/verifier, scorer/diversifier, and proposition gate, then
// applies the always-return guarantee before handing back a response.
package pipeline

// Config tunes the engine's own thresholds; every field maps to one of the
// pipeline-level env flags named in spec.md §6.
type Config struct {
	MaxElapsedMs int

	// GuaranteeMinResults is the always-return guarantee's floor
	// (GUARANTEE_MIN_RESULTS).
	GuaranteeMinResults    int
	GuaranteeExtraAttempts int
	GuaranteeMinRemainingMs int

	Pass2MinRemainingBudget int
	Pass2MinRemainingMs     int

	TraceExpansionMinRemainingBudget int
	TraceExpansionMinRemainingMs     int

	// StrictExactTarget is the strict+provisional count the trace-expansion
	// step checks before deciding a second scheduler run is worth it.
	StrictExactTarget int

	// RequiredElementCoverageFloor and HookGroupCoverageFloor gate the
	// pass-2 "quality shortfall" decision (spec.md §4.8 step 6).
	RequiredElementCoverageFloor float64
	HookGroupCoverageFloor       float64

	AlwaysReturnV1                bool
	AlwaysReturnSyntheticFallback bool
	StaleFallbackEnabled          bool
	StaleFallbackMinSimilarity    float64

	PreferSupremeCourt bool

	ReasonerMaxCallsPerRequest int
	ReasonerPass2SnippetLimit  int
}

func DefaultConfig() Config {
	return Config{
		MaxElapsedMs:                  9000,
		GuaranteeMinResults:           3,
		GuaranteeExtraAttempts:        6,
		GuaranteeMinRemainingMs:       1500,
		Pass2MinRemainingBudget:       6,
		Pass2MinRemainingMs:           2500,
		TraceExpansionMinRemainingBudget: 3,
		TraceExpansionMinRemainingMs:     2000,
		StrictExactTarget:             3,
		RequiredElementCoverageFloor:  0.75,
		HookGroupCoverageFloor:        0.75,
		AlwaysReturnV1:                true,
		AlwaysReturnSyntheticFallback: true,
		StaleFallbackEnabled:          true,
		StaleFallbackMinSimilarity:    0.55,
		PreferSupremeCourt:            true,
		ReasonerMaxCallsPerRequest:    2,
		ReasonerPass2SnippetLimit:     10,
	}
}
