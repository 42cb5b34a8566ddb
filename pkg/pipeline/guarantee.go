package pipeline

import (
	"casesearch/pkg/models"
	"casesearch/pkg/variant"
)

// guaranteeBackfillVariants synthesises the always-return guarantee's
// broad browse-phase variants (spec.md §4.8 step 7): ontology-template
// pivots crossed with reasoner case anchors, falling back to the intent's
// own issue/statute vocabulary as seeds when no plan anchors exist.
func (e *Engine) guaranteeBackfillVariants(intent models.IntentProfile, plan *models.ReasonerPlan) []models.QueryVariant {
	groups := variant.BuildHookGroups(intent.Context, plan, e.lex)
	vocab := variant.LegalSignalVocab(intent, groups)

	var seeds []string
	if plan != nil {
		seeds = append(seeds, plan.CaseAnchors...)
	}
	if len(seeds) == 0 {
		seeds = append(seeds, intent.Context.Issues...)
		seeds = append(seeds, intent.Context.Statutes...)
	}

	pivots := append([]string{"case law", "judgment", "order"}, intent.Context.Domains...)

	return variant.TraceVariants(seeds, pivots, vocab, e.variantCfg)
}
