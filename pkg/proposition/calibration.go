package proposition

import "casesearch/pkg/models"

// CalibrationResult is the gate's confidence calibration output for one
// candidate, including whether the exactness cap actively lowered the raw
// score (the "saturation-prevented" counter).
type CalibrationResult struct {
	Score               float64
	Band                models.ConfidenceBand
	SaturationPrevented bool
}

// Calibrate implements spec.md §4.7's confidence formula: a blend of ranking
// score and structural coverage, additive/subtractive adjustments for the
// supporting-sentence signals, then an exactness-tier-specific cap.
func Calibrate(rankingScore float64, s Signals, exactness models.ExactnessType, cfg Config) CalibrationResult {
	structural := s.CoreCoverage*0.34 + s.MandatoryStepCoverage*0.22 + s.ChainCoverage*0.10 +
		s.HookGroupCoverage*0.12 + boolScore(s.RelationSatisfied)*0.08 +
		boolScore(s.OutcomePolaritySatisfied)*0.08 + s.PeripheralCoverage*0.06

	raw := 0.45*rankingScore + 0.55*structural

	if !s.Verification.DetailChecked {
		raw -= 0.06
	}
	if s.Verification.HasRoleSentence {
		raw += 0.02
	}
	if s.Verification.HasChainSentence {
		raw += 0.02
	}
	if s.Verification.HasRelationSentence {
		raw += 0.03
	}
	if s.Verification.HasPolaritySentence {
		raw += 0.03
	}
	if s.Verification.HasHookIntersectionSentence {
		raw += 0.03
	}
	if !s.ActorRoleSatisfied {
		raw -= 0.12
	}
	if !s.ProceedingRoleSatisfied {
		raw -= 0.08
	}
	if !s.ChainSatisfied {
		raw -= 0.12
	}
	if !s.OutcomePolaritySatisfied {
		raw -= 0.16
	}
	if s.ContradictionFired {
		raw -= 0.25
	}

	raw = clamp01(raw)

	cap := capFor(exactness, s, cfg)
	if !s.Verification.DetailChecked && cap > 0.55 {
		cap = 0.55
	}

	score := raw
	saturated := false
	if score > cap {
		score = cap
		saturated = true
	}

	return CalibrationResult{Score: score, Band: bandFor(score, exactness), SaturationPrevented: saturated}
}

func capFor(exactness models.ExactnessType, s Signals, cfg Config) float64 {
	switch exactness {
	case models.ExactStrict:
		missingSentence := !s.Verification.HasRelationSentence || !s.Verification.HasPolaritySentence ||
			!s.Verification.HasHookIntersectionSentence || !s.Verification.HasRoleSentence || !s.Verification.HasChainSentence
		if missingSentence {
			return cfg.ProvisionalConfidenceFloor
		}
		return 0.95
	case models.ExactProvisional:
		return cfg.ProvisionalConfidenceFloor
	default:
		return 0.45 // near_miss / exploratory cap; reject also lands here, never surfaced
	}
}

func bandFor(score float64, exactness models.ExactnessType) models.ConfidenceBand {
	if exactness == models.ExactNone {
		if score >= 0.40 {
			return models.BandMedium
		}
		return models.BandLow
	}
	switch {
	case score >= 0.86:
		return models.BandVeryHigh
	case score >= 0.71:
		return models.BandHigh
	case score >= 0.51:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
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
