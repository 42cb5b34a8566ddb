package proposition

import "casesearch/pkg/models"

// Config tunes the gate's thresholds; every field maps to one of the
// PROPOSITION_* env flags named in spec.md §6.
type Config struct {
	ProvisionalConfidenceFloor float64
	ChainMinCoverage           float64
}

func DefaultConfig() Config {
	return Config{
		ProvisionalConfidenceFloor: 0.70,
		ChainMinCoverage:           0.5,
	}
}

// requiredCoverageThreshold implements spec.md §4.7's near-miss
// requiredCoverage floor, which depends on how many required components the
// checklist carries in total.
func requiredCoverageThreshold(totalRequired int) float64 {
	switch {
	case totalRequired <= 1:
		return 1
	case totalRequired == 2:
		return 0.5
	case totalRequired == 3:
		return 2.0 / 3.0
	default:
		return 0.75
	}
}

// Decide applies the spec.md §4.7 decision ladder, in order, to one
// candidate's computed signals, returning both the gate's exactness verdict
// and the user-visible retrieval tier (near_miss/reject share ExactnessType
// none but differ in tier: the former is exploratory, the latter isn't
// surfaced at all).
func Decide(s Signals, checklist models.PropositionChecklist) (exactness models.ExactnessType, tier models.RetrievalTier, matched bool) {
	switch {
	case isExactStrict(s):
		return models.ExactStrict, models.TierStrict, true
	case isExactProvisional(s):
		return models.ExactProvisional, models.TierProvisional, true
	case isNearMiss(s, checklist):
		return models.ExactNone, models.TierExploratory, true
	default:
		return models.ExactNone, "", false
	}
}

func isExactStrict(s Signals) bool {
	return s.Verification.DetailChecked &&
		!s.ContradictionFired &&
		s.CoreCoverage == 1 &&
		s.MandatoryStepCoverage == 1 &&
		s.HookGroupCoverage == 1 &&
		s.RelationSatisfied &&
		s.OutcomePolaritySatisfied &&
		s.ChainSatisfied &&
		s.ActorRoleSatisfied &&
		s.ProceedingRoleSatisfied &&
		s.PeripheralCoverage >= 0.6
}

func isExactProvisional(s Signals) bool {
	mandatoryFloor := 0.75
	if s.Verification.DetailChecked {
		mandatoryFloor = 1
	}
	return !s.ContradictionFired &&
		s.CoreCoverage == 1 &&
		s.HookGroupCoverage == 1 &&
		s.RelationSatisfied &&
		s.OutcomePolaritySatisfied &&
		s.MandatoryStepCoverage >= mandatoryFloor
}

func isNearMiss(s Signals, checklist models.PropositionChecklist) bool {
	eligible := checklist.RequiredHookGroupCount() > 0 || len(checklist.Relations) > 0 ||
		(checklist.OutcomeConstraint.Polarity != "" && checklist.OutcomeConstraint.Polarity != models.PolarityUnknown)
	if !eligible || s.ContradictionFired || s.CoreCoverage < 0.65 {
		return false
	}
	threshold := requiredCoverageThreshold(requiredComponentCount(checklist))
	if s.RequiredCoverage < threshold {
		return false
	}
	return len(s.MatchEvidence) > 0 || s.CoreCoverage > 0
}
