package reasoner

import "casesearch/pkg/models"

// Usable reports whether a parsed plan has enough shape to be trusted: the
// proposition must carry at least one signal (actors, proceeding, legal
// hooks, or hook groups), and a non-sparse intent (one that already surfaced
// statutes/issues/procedures) must come back with at least one query variant.
func Usable(plan *models.ReasonerPlan, sparseIntent bool) bool {
	if plan == nil {
		return false
	}
	p := plan.Proposition
	hasSignal := len(p.Actors) > 0 || len(p.Proceeding) > 0 || len(p.LegalHooks) > 0 || len(p.HookGroups) > 0
	if !hasSignal {
		return false
	}
	if !sparseIntent {
		hasVariants := len(plan.QueryVariantsStrict) > 0 || len(plan.QueryVariantsBroad) > 0
		if !hasVariants {
			return false
		}
	}
	return true
}
