package proposition

import "casesearch/pkg/models"

const defaultChainWindowChars = 220

// chainTemplates maps an outcome polarity to the doctrinal chain constraint
// its candidates are expected to exhibit: the left-hand concept (e.g.
// "condonation") co-occurring with the right-hand disposition words within a
// window of evidence text.
var chainTemplates = map[models.OutcomePolarity]models.ChainConstraint{
	models.PolarityRefused: {
		LeftTerms:   []string{"condonation"},
		RightTerms:  []string{"refused", "rejected", "not condoned"},
		WindowChars: defaultChainWindowChars,
	},
	models.PolarityDismissed: {
		LeftTerms:   []string{"condonation", "delay"},
		RightTerms:  []string{"dismissed", "time barred", "time-barred"},
		WindowChars: defaultChainWindowChars,
	},
}

// buildGraph assembles the role/chain/step layer: mandatory steps from the
// reasoner's legal hooks, a role constraint binding the first actor to the
// proceeding's natural role, and a chain constraint when the outcome polarity
// has a known doctrinal pattern.
func buildGraph(plan *models.ReasonerPlan, intent models.IntentProfile) models.ChecklistGraph {
	var g models.ChecklistGraph

	if plan != nil {
		g.MandatorySteps = groundTerms(plan.Proposition.LegalHooks, intent.CleanedQuery)
	}

	if len(intent.Context.Actors) > 0 {
		g.RoleConstraints = append(g.RoleConstraints, models.RoleConstraint{
			Actor: intent.Context.Actors[0],
			Role:  inferRole(intent.Context.Actors[0]),
		})
	}

	if tmpl, ok := chainTemplates[intent.Retrieval.OutcomePolarity]; ok {
		g.ChainConstraints = append(g.ChainConstraints, tmpl)
	}

	return g
}

func inferRole(actor string) string {
	switch actor {
	case "appellant", "accused":
		return actor
	case "state", "complainant":
		return "prosecution"
	default:
		return "respondent"
	}
}
