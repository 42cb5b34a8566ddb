// Package variant compiles a set of QueryVariant from an IntentProfile plus
// an optional ReasonerPlan (C4): hook-group merging, polarity cue expansion,
// strict/broad phrase cross-products, per-candidate normalization, and the
// deterministic phase/priority assignment the scheduler consumes.
package variant

// Config tunes the planner's thresholds.
type Config struct {
	MinStrictChars  int
	TokenLimitPrimary int
	TokenLimitOther   int
}

func DefaultConfig() Config {
	return Config{
		MinStrictChars:    18,
		TokenLimitPrimary: 12,
		TokenLimitOther:   10,
	}
}
