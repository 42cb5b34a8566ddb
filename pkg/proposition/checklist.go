// Package proposition compiles a PropositionChecklist from an IntentProfile
// plus an optional ReasonerPlan (C2), and gates scored candidates against it
// with confidence calibration (C8).
package proposition

import (
	"strconv"
	"strings"

	"casesearch/pkg/models"
)

// BuildChecklist compiles the checklist the gate evaluates candidates
// against. Hallucinated hooks/outcomes the reasoner invented but that don't
// appear anywhere in the cleaned query are dropped — the checklist is always
// grounded against intent.
func BuildChecklist(intent models.IntentProfile, plan *models.ReasonerPlan) models.PropositionChecklist {
	c := models.PropositionChecklist{
		Axes: map[string]models.Axis{
			"actor":      {Required: len(intent.Context.Actors) > 0, Terms: intent.Context.Actors},
			"proceeding": {Required: len(intent.Context.Procedures) > 0, Terms: intent.Context.Procedures},
			"legal_hook": {Required: len(intent.Context.Statutes) > 0, Terms: intent.Context.Statutes},
			"outcome":    {Required: intent.Retrieval.OutcomePolarity != models.PolarityUnknown},
		},
		OutcomeConstraint: models.OutcomeConstraint{
			Polarity: intent.Retrieval.OutcomePolarity,
		},
	}

	if plan == nil {
		return c
	}

	c.HookGroups = groundHookGroups(plan.Proposition.HookGroups, intent.CleanedQuery)
	c.Relations = groundRelations(plan.Proposition.Relations, c.HookGroups)
	c.InteractionRequired = plan.Proposition.InteractionRequired && c.RequiredHookGroupCount() >= 2

	oc := plan.Proposition.OutcomeConstraint
	if oc.Polarity != "" {
		c.OutcomeConstraint.Polarity = oc.Polarity
	}
	c.OutcomeConstraint.Modality = oc.Modality
	c.OutcomeConstraint.Terms = groundTerms(oc.Terms, intent.CleanedQuery)
	c.OutcomeConstraint.ContradictionTerms = oc.ContradictionTerms

	if actorAxis, ok := c.Axes["actor"]; ok && len(intent.Context.Actors) == 0 {
		actorAxis.Terms = groundTerms(plan.Proposition.Actors, intent.CleanedQuery)
		actorAxis.Required = len(actorAxis.Terms) > 0
		c.Axes["actor"] = actorAxis
	}
	if procAxis, ok := c.Axes["proceeding"]; ok && len(intent.Context.Procedures) == 0 {
		procAxis.Terms = groundTerms(plan.Proposition.Proceeding, intent.CleanedQuery)
		procAxis.Required = len(procAxis.Terms) > 0
		c.Axes["proceeding"] = procAxis
	}

	c.Graph = buildGraph(plan, intent)
	return c
}

// groundHookGroups keeps only hook groups where at least one term actually
// appears in the cleaned query — a reasoner-hallucinated group with zero
// grounded terms never reaches the gate.
func groundHookGroups(groups []models.HookGroup, cleanedQuery string) []models.HookGroup {
	var out []models.HookGroup
	for _, g := range groups {
		terms := groundTerms(g.Terms, cleanedQuery)
		if len(terms) == 0 {
			continue
		}
		g.Terms = terms
		if g.MinMatch < 1 {
			g.MinMatch = 1
		}
		out = append(out, g)
	}
	return out
}

func groundTerms(terms []string, cleanedQuery string) []string {
	var out []string
	lower := strings.ToLower(cleanedQuery)
	for _, t := range terms {
		if t == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(t)) {
			out = append(out, t)
		}
	}
	return out
}

// groundRelations drops any relation referencing a hook group that didn't
// survive grounding.
func groundRelations(relations []models.Relation, groups []models.HookGroup) []models.ChecklistRelation {
	ids := make(map[string]bool, len(groups))
	for _, g := range groups {
		ids[g.GroupID] = true
	}
	var out []models.ChecklistRelation
	for i, r := range relations {
		if !ids[r.LeftGroupID] || !ids[r.RightGroupID] {
			continue
		}
		out = append(out, models.ChecklistRelation{
			RelationID: relationID(i),
			Type:       r.Type,
			Left:       r.LeftGroupID,
			Right:      r.RightGroupID,
			Required:   r.Required,
		})
	}
	return out
}

func relationID(i int) string {
	return "rel_" + strconv.Itoa(i)
}
