package reasoner

import (
	"context"
	"fmt"
	"strings"

	"casesearch/pkg/models"
)

// DeterministicBackend derives a ReasonerPlan straight from the cleaned query
// and context profile, with no model call. It is the fallback path any
// gating failure in the orchestrator lands on, and the only backend available
// when no model credentials are configured.
type DeterministicBackend struct{}

func NewDeterministicBackend() *DeterministicBackend { return &DeterministicBackend{} }

func (d *DeterministicBackend) Name() models.ReasonerMode { return models.ReasonerModeDeterministic }

func (d *DeterministicBackend) Generate(_ context.Context, in Input) (*models.ReasonerPlan, error) {
	hookGroups := make([]models.HookGroup, 0, len(in.Context.Statutes))
	for _, statute := range in.Context.Statutes {
		hookGroups = append(hookGroups, models.HookGroup{
			GroupID:  statute,
			Terms:    []string{statute},
			MinMatch: 1,
			Required: true,
		})
	}

	proceeding := append([]string{}, in.Context.Procedures...)
	actors := append([]string{}, in.Context.Actors...)

	variantsStrict := deterministicVariants(in.CleanedQuery, actors, proceeding)

	plan := &models.ReasonerPlan{
		Proposition: models.Proposition{
			Actors:              actors,
			Proceeding:          proceeding,
			LegalHooks:          append([]string{}, in.Context.Issues...),
			HookGroups:          hookGroups,
			InteractionRequired: len(hookGroups) >= 2,
		},
		QueryVariantsStrict: variantsStrict,
	}
	return plan, nil
}

func deterministicVariants(cleaned string, actors, proceeding []string) []string {
	var out []string
	for _, a := range actors {
		for _, p := range proceeding {
			out = append(out, fmt.Sprintf("%s %s", a, p))
		}
	}
	if len(out) == 0 && cleaned != "" {
		fields := strings.Fields(cleaned)
		out = append(out, strings.Join(fields[:min(8, len(fields))], " "))
	}
	return out
}
