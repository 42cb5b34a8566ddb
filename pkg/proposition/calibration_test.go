package proposition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"casesearch/pkg/models"
)

func fullSignals() Signals {
	return Signals{
		Verification: models.Verification{
			DetailChecked:               true,
			HasRelationSentence:         true,
			HasPolaritySentence:         true,
			HasHookIntersectionSentence: true,
			HasRoleSentence:             true,
			HasChainSentence:            true,
		},
		CoreCoverage:             1,
		PeripheralCoverage:       1,
		MandatoryStepCoverage:    1,
		HookGroupCoverage:        1,
		ChainCoverage:            1,
		RelationSatisfied:        true,
		OutcomePolaritySatisfied: true,
		ActorRoleSatisfied:       true,
		ProceedingRoleSatisfied:  true,
		ChainSatisfied:           true,
	}
}

func TestCalibrate_ExactStrictFullSentencesReachesVeryHighCap(t *testing.T) {
	res := Calibrate(1.0, fullSignals(), models.ExactStrict, DefaultConfig())
	assert.InDelta(t, 0.95, res.Score, 1e-9)
	assert.Equal(t, models.BandVeryHigh, res.Band)
	assert.True(t, res.SaturationPrevented)
}

func TestCalibrate_ExactStrictMissingSentenceFallsToProvisionalCap(t *testing.T) {
	s := fullSignals()
	s.Verification.HasChainSentence = false
	res := Calibrate(1.0, s, models.ExactStrict, DefaultConfig())
	assert.LessOrEqual(t, res.Score, DefaultConfig().ProvisionalConfidenceFloor+1e-9)
}

func TestCalibrate_ContradictionFiredDropsScore(t *testing.T) {
	s := fullSignals()
	s.ContradictionFired = true
	withContradiction := Calibrate(1.0, s, models.ExactStrict, DefaultConfig())
	s.ContradictionFired = false
	without := Calibrate(1.0, s, models.ExactStrict, DefaultConfig())
	assert.Less(t, withContradiction.Score, without.Score)
}

func TestCalibrate_NoDetailCheckedCapsAtPoint55(t *testing.T) {
	s := fullSignals()
	s.Verification.DetailChecked = false
	res := Calibrate(1.0, s, models.ExactProvisional, DefaultConfig())
	assert.LessOrEqual(t, res.Score, 0.55+1e-9)
}

func TestCalibrate_NearMissUsesExploratoryBand(t *testing.T) {
	s := Signals{CoreCoverage: 0.7, MandatoryStepCoverage: 0.5}
	res := Calibrate(0.6, s, models.ExactNone, DefaultConfig())
	assert.LessOrEqual(t, res.Score, 0.45+1e-9)
	assert.Contains(t, []models.ConfidenceBand{models.BandMedium, models.BandLow}, res.Band)
}

func TestCalibrate_ScoreNeverLeavesUnitRange(t *testing.T) {
	s := fullSignals()
	s.ContradictionFired = true
	s.ActorRoleSatisfied = false
	s.ProceedingRoleSatisfied = false
	s.ChainSatisfied = false
	s.OutcomePolaritySatisfied = false
	res := Calibrate(0, s, models.ExactNone, DefaultConfig())
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 1.0)
}
