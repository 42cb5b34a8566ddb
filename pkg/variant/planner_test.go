package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/models"
)

func sampleIntent() models.IntentProfile {
	return models.IntentProfile{
		CleanedQuery: "whether sanction under section 197 crpc is required to prosecute a public servant",
		Context: models.ContextProfile{
			Statutes:   []string{"section 197 crpc"},
			Procedures: []string{"prosecution"},
			Actors:     []string{"public servant"},
		},
		CourtHint: models.CourtAny,
		Retrieval: models.RetrievalIntent{
			OutcomePolarity: models.PolarityRequired,
		},
	}
}

func TestPlan_ProducesPrimaryAndFallbackVariants(t *testing.T) {
	variants := Plan(sampleIntent(), nil, nil, DefaultConfig())
	require.NotEmpty(t, variants)

	var sawPrimary, sawFallback bool
	for _, v := range variants {
		if v.Phase == models.PhasePrimary {
			sawPrimary = true
		}
		if v.Phase == models.PhaseFallback {
			sawFallback = true
		}
	}
	assert.True(t, sawPrimary)
	assert.True(t, sawFallback)
}

func TestPlan_MicroPhaseHasStatuteSingleton(t *testing.T) {
	variants := Plan(sampleIntent(), nil, nil, DefaultConfig())
	found := false
	for _, v := range variants {
		if v.Phase == models.PhaseMicro {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPlan_DedupsByCanonicalKey(t *testing.T) {
	variants := Plan(sampleIntent(), nil, nil, DefaultConfig())
	seen := make(map[string]bool)
	for _, v := range variants {
		assert.False(t, seen[v.CanonicalKey], "duplicate canonical key %s", v.CanonicalKey)
		seen[v.CanonicalKey] = true
	}
}

func TestPlan_StrictVariantsGetPriorityBonus(t *testing.T) {
	variants := Plan(sampleIntent(), nil, nil, DefaultConfig())
	for _, v := range variants {
		if v.Strictness == models.StrictnessStrict {
			assert.Equal(t, models.PhaseBasePriority[v.Phase]+12, v.Priority)
		} else {
			assert.Equal(t, models.PhaseBasePriority[v.Phase], v.Priority)
		}
	}
}

func TestNormalize_RejectsShortResult(t *testing.T) {
	_, _, ok := Normalize("the", models.PhasePrimary, nil, DefaultConfig())
	assert.False(t, ok)
}

func TestNormalize_StripsCourtWordsAndOperators(t *testing.T) {
	normalized, _, ok := Normalize("doctypes:judgment supreme court sanction required 197", models.PhaseRescue, nil, DefaultConfig())
	require.True(t, ok)
	assert.NotContains(t, normalized, "supreme")
	assert.NotContains(t, normalized, "doctypes")
}

func TestPolarityCues_DropsContradictoryTerm(t *testing.T) {
	cues := PolarityCues(models.PolarityRequired, nil)
	for _, c := range cues {
		assert.NotContains(t, c, "not required")
	}
}

func TestBuildHookGroups_MergesByFamily(t *testing.T) {
	ctx := models.ContextProfile{Statutes: []string{"section 197 crpc", "code of criminal procedure"}}
	groups := BuildHookGroups(ctx, nil, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, "crpc", groups[0].GroupID)
}

func TestTraceVariants_RejectsShortPhrase(t *testing.T) {
	variants := TraceVariants([]string{"X"}, []string{"Y"}, nil, DefaultConfig())
	assert.Empty(t, variants)
}
