package proposition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/models"
)

func sampleIntent() models.IntentProfile {
	return models.IntentProfile{
		RawQuery:     "condonation of delay refused in criminal appeal",
		CleanedQuery: "condonation of delay refused in criminal appeal under section 5 limitation act",
		Context: models.ContextProfile{
			Statutes:   []string{"section 5 limitation act"},
			Procedures: []string{"criminal appeal"},
		},
		Retrieval: models.RetrievalIntent{
			OutcomePolarity: models.PolarityRefused,
		},
	}
}

func samplePlan() *models.ReasonerPlan {
	return &models.ReasonerPlan{
		Proposition: models.Proposition{
			HookGroups: []models.HookGroup{
				{GroupID: "sec_5_limitation_act", Terms: []string{"section 5 limitation act", "condonation"}, MinMatch: 1, Required: true},
			},
			Relations: []models.Relation{
				{Type: "co_occurrence", LeftGroupID: "sec_5_limitation_act", RightGroupID: "sec_5_limitation_act", Required: true},
			},
			OutcomeConstraint: models.OutcomeConstraint{
				Polarity: models.PolarityRefused,
				Terms:    []string{"refused"},
			},
			InteractionRequired: true,
		},
	}
}

// TestBuildChecklist_IsIdempotentForSameInputs asserts property 7: given the
// same IntentProfile and ReasonerPlan, BuildChecklist returns structurally
// equal output across repeated calls.
func TestBuildChecklist_IsIdempotentForSameInputs(t *testing.T) {
	intent := sampleIntent()
	plan := samplePlan()

	first := BuildChecklist(intent, plan)
	second := BuildChecklist(intent, plan)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("BuildChecklist is not idempotent (-first +second):\n%s", diff)
	}
}

func TestBuildChecklist_IsIdempotentWithNilPlan(t *testing.T) {
	intent := sampleIntent()

	first := BuildChecklist(intent, nil)
	second := BuildChecklist(intent, nil)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("BuildChecklist is not idempotent with a nil plan (-first +second):\n%s", diff)
	}
}

func TestBuildChecklist_GroundsHallucinatedHookGroups(t *testing.T) {
	intent := sampleIntent()
	plan := samplePlan()
	plan.Proposition.HookGroups = append(plan.Proposition.HookGroups, models.HookGroup{
		GroupID: "hook_invented", Terms: []string{"a term never in the query"},
	})

	checklist := BuildChecklist(intent, plan)

	require.Len(t, checklist.HookGroups, 1)
	require.Equal(t, "sec_5_limitation_act", checklist.HookGroups[0].GroupID)
}
