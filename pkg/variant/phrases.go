package variant

import (
	"strings"

	"casesearch/pkg/models"
)

// rawPhrase is a candidate search phrase before normalization, carrying the
// strictness and purpose tag the phase-assignment step reads.
type rawPhrase struct {
	text       string
	strictness models.Strictness
	purpose    string
}

// axisSets is the token inventory the strict-axis requirement checks a
// candidate phrase against (step 3 of the planner).
type axisSets struct {
	actor      []string
	proceeding []string
	outcome    []string
	role       []string
	chain      []string
}

func buildAxisSets(intent models.IntentProfile, plan *models.ReasonerPlan, polarityCues []string) axisSets {
	a := axisSets{
		actor:      intent.Context.Actors,
		proceeding: intent.Context.Procedures,
		outcome:    polarityCues,
	}
	if len(a.actor) == 0 && plan != nil {
		a.actor = plan.Proposition.Actors
	}
	if len(a.proceeding) == 0 && plan != nil {
		a.proceeding = plan.Proposition.Proceeding
	}
	if len(a.actor) > 0 {
		a.role = []string{inferRoleToken(a.actor[0])}
	}
	if intent.Retrieval.OutcomePolarity == models.PolarityRefused || intent.Retrieval.OutcomePolarity == models.PolarityDismissed {
		a.chain = []string{"condonation", "delay"}
	}
	return a
}

func inferRoleToken(actor string) string {
	switch strings.ToLower(actor) {
	case "appellant", "accused":
		return actor
	case "state", "complainant":
		return "prosecution"
	default:
		return "respondent"
	}
}

// satisfiesAxisRequirement reports whether phrase touches every non-empty
// axis set; only invoked when no required hook groups exist (step 3).
func satisfiesAxisRequirement(phrase string, axes axisSets) bool {
	lower := strings.ToLower(phrase)
	for _, set := range [][]string{axes.actor, axes.proceeding, axes.outcome, axes.role, axes.chain} {
		if len(set) == 0 {
			continue
		}
		if !anyTermIn(lower, set) {
			return false
		}
	}
	return true
}

func anyTermIn(lower string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// requiredHookPhrase joins, for every required hook group, its first term —
// the "at-least-one term" a strict phrase must carry for each group.
func requiredHookPhrase(groups []models.HookGroup) string {
	var parts []string
	for _, g := range groups {
		if !g.Required || len(g.Terms) == 0 {
			continue
		}
		parts = append(parts, g.Terms[0])
	}
	return strings.Join(parts, " ")
}

func hasAllRequiredHooks(phrase string, groups []models.HookGroup) bool {
	lower := strings.ToLower(phrase)
	for _, g := range groups {
		if !g.Required {
			continue
		}
		if !anyTermIn(lower, g.Terms) {
			return false
		}
	}
	return true
}

// buildStrictPhrases is step 4: cross-product of actor x proceeding x
// outcome, the joined required-hook phrase appended, filtered by minChars,
// hook coverage, the axis requirement (when no hook groups exist), and a
// polarity-token floor (≥1 outcome cue token present).
func buildStrictPhrases(axes axisSets, groups []models.HookGroup, cfg Config) []rawPhrase {
	hookPhrase := requiredHookPhrase(groups)
	axisRequired := len(groups) == 0

	actors := orSingle(axes.actor)
	proceedings := orSingle(axes.proceeding)
	outcomes := orSingle(axes.outcome)

	var out []rawPhrase
	for _, a := range actors {
		for _, p := range proceedings {
			for _, o := range outcomes {
				parts := []string{a, p, o}
				if hookPhrase != "" {
					parts = append(parts, hookPhrase)
				}
				phrase := strings.TrimSpace(strings.Join(nonEmpty(parts), " "))
				if len(phrase) < cfg.MinStrictChars {
					continue
				}
				if !hasAllRequiredHooks(phrase, groups) {
					continue
				}
				if axisRequired && !satisfiesAxisRequirement(phrase, axes) {
					continue
				}
				if len(axes.outcome) > 0 && !anyTermIn(phrase, axes.outcome) {
					continue
				}
				out = append(out, rawPhrase{text: phrase, strictness: models.StrictnessStrict, purpose: "proposition_strict"})
			}
		}
	}
	return out
}

// buildBroadPhrases is step 5's proposition-broad set: proceeding x outcome
// with the hook phrase appended.
func buildBroadPhrases(axes axisSets, groups []models.HookGroup) []rawPhrase {
	hookPhrase := requiredHookPhrase(groups)
	proceedings := orSingle(axes.proceeding)
	outcomes := orSingle(axes.outcome)

	var out []rawPhrase
	for _, p := range proceedings {
		for _, o := range outcomes {
			parts := []string{p, o, hookPhrase}
			phrase := strings.TrimSpace(strings.Join(nonEmpty(parts), " "))
			if phrase == "" {
				continue
			}
			out = append(out, rawPhrase{text: phrase, strictness: models.StrictnessRelaxed, purpose: "proposition_broad"})
		}
	}
	return out
}

// hookFilteredKeywordPacks is step 5's keyword-pack contribution: packs that
// still satisfy every required hook group, destined for the relaxed rescue
// phase.
func hookFilteredKeywordPacks(keywordPacks []string, groups []models.HookGroup) []rawPhrase {
	var out []rawPhrase
	for _, kw := range keywordPacks {
		if !hasAllRequiredHooks(kw, groups) {
			continue
		}
		out = append(out, rawPhrase{text: kw, strictness: models.StrictnessRelaxed, purpose: "keyword_pack_rescue"})
	}
	return out
}

// genericKeywordPacks feeds the revolving phase: the full, unfiltered pack —
// the broadest net, tried only once everything more targeted is exhausted.
func genericKeywordPacks(keywordPacks []string) []rawPhrase {
	out := make([]rawPhrase, 0, len(keywordPacks))
	for _, kw := range keywordPacks {
		out = append(out, rawPhrase{text: kw, strictness: models.StrictnessRelaxed, purpose: "keyword_pack_revolving"})
	}
	return out
}

// hookFilteredAnchors is the browse phase's reasoner-case-anchor
// contribution, filtered to anchors that still satisfy required hooks.
func hookFilteredAnchors(anchors []string, groups []models.HookGroup) []rawPhrase {
	var out []rawPhrase
	for _, anchor := range anchors {
		if !hasAllRequiredHooks(anchor, groups) {
			continue
		}
		out = append(out, rawPhrase{text: anchor, strictness: models.StrictnessRelaxed, purpose: "case_anchor"})
	}
	return out
}

// singletonPhrases is the micro phase: each context statute/procedure/issue
// on its own.
func singletonPhrases(intent models.IntentProfile) []rawPhrase {
	var out []rawPhrase
	for _, s := range intent.Context.Statutes {
		out = append(out, rawPhrase{text: s, strictness: models.StrictnessRelaxed, purpose: "statute_singleton"})
	}
	for _, p := range intent.Context.Procedures {
		out = append(out, rawPhrase{text: p, strictness: models.StrictnessRelaxed, purpose: "procedure_singleton"})
	}
	for _, i := range intent.Context.Issues {
		out = append(out, rawPhrase{text: i, strictness: models.StrictnessRelaxed, purpose: "issue_singleton"})
	}
	return out
}

func orSingle(set []string) []string {
	if len(set) == 0 {
		return []string{""}
	}
	return set
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
