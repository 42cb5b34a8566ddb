// Package scorer implements the Scorer, Diversifier, and Supreme-Court
// preference stage (C7): a [0,1] ranking score blending lexical match with
// proposition axis coverage, followed by fingerprint/court-day diversity
// collapsing and an optional small SC ranking boost.
package scorer

import (
	"strings"

	"casesearch/pkg/models"
)

// LexicalProfile is the canonical lexical profile spec.md §4.6 names: the
// tokens the scorer checks a candidate's text against, gathered once per
// request rather than recomputed per candidate.
type LexicalProfile struct {
	MustIncludeTokens   []string
	StrictVariantTokens []string
	ChecklistTokens     []string
	ContradictionTokens []string
}

// BuildLexicalProfile assembles the profile from the compiled variants and
// the grounded proposition checklist.
func BuildLexicalProfile(checklist models.PropositionChecklist, variants []models.QueryVariant) LexicalProfile {
	profile := LexicalProfile{}

	seenMust := map[string]bool{}
	seenStrict := map[string]bool{}
	for _, v := range variants {
		for _, t := range v.MustIncludeTokens {
			if t != "" && !seenMust[t] {
				seenMust[t] = true
				profile.MustIncludeTokens = append(profile.MustIncludeTokens, t)
			}
		}
		if v.Strictness == models.StrictnessStrict {
			for _, t := range v.Tokens {
				if t != "" && !seenStrict[t] {
					seenStrict[t] = true
					profile.StrictVariantTokens = append(profile.StrictVariantTokens, t)
				}
			}
		}
	}

	profile.ChecklistTokens = checklistTokens(checklist)
	profile.ContradictionTokens = checklist.OutcomeConstraint.ContradictionTerms

	return profile
}

func checklistTokens(checklist models.PropositionChecklist) []string {
	var out []string
	for _, axis := range checklist.Axes {
		out = append(out, axis.Terms...)
	}
	for _, g := range checklist.HookGroups {
		out = append(out, g.Terms...)
	}
	out = append(out, checklist.OutcomeConstraint.Terms...)
	return out
}

// matchFraction returns the fraction of terms present in text, substring
// matching for multi-word terms and the rest as simple Contains — the
// scorer is a coarse ranking signal, not the gate's strict word-boundary
// check (pkg/proposition/signals.go handles that precision later).
func matchFraction(text string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	hits := 0
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.Contains(text, t) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}
