package variant

import (
	"regexp"
	"strings"

	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
)

var (
	sectionRE = regexp.MustCompile(`(?i)\bsection\s+(\d+[a-z]?)\b`)
	slugRE    = regexp.MustCompile(`[^a-z0-9]+`)
)

// familyPatterns maps a hook family id to the phrases that identify a
// statute/section hit as belonging to it, checked in order.
var familyPatterns = []struct {
	family string
	re     *regexp.Regexp
}{
	{"pc_act", regexp.MustCompile(`(?i)prevention of corruption`)},
	{"crpc", regexp.MustCompile(`(?i)code of criminal procedure|\bcr\.?p\.?c\b`)},
	{"ipc", regexp.MustCompile(`(?i)indian penal code|\bi\.?p\.?c\b`)},
	{"cpc", regexp.MustCompile(`(?i)code of civil procedure|\bc\.?p\.?c\b`)},
	{"limitation_act", regexp.MustCompile(`(?i)limitation act`)},
}

// inferFamily picks a hook-family id for a statute/section string, falling
// back to a section-number id or a slugified generic one.
func inferFamily(statute string) string {
	for _, fp := range familyPatterns {
		if fp.re.MatchString(statute) {
			return fp.family
		}
	}
	if m := sectionRE.FindStringSubmatch(statute); m != nil {
		return "sec_" + strings.ToLower(m[1])
	}
	return "hook_" + slugify(statute)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRE.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// BuildHookGroups merges the reasoner's required groups (kept verbatim) with
// groups inferred from the intent's context statutes, alias-expanded via the
// lexicon's hook-family table, merging any two groups that resolve to the
// same family id.
func BuildHookGroups(ctx models.ContextProfile, plan *models.ReasonerPlan, lex *lexicon.Compiled) []models.HookGroup {
	byFamily := make(map[string]*models.HookGroup)
	var order []string

	addTerms := func(family string, required bool, minMatch int, terms ...string) {
		g, ok := byFamily[family]
		if !ok {
			g = &models.HookGroup{GroupID: family, MinMatch: minMatch, Required: required}
			byFamily[family] = g
			order = append(order, family)
		}
		if required {
			g.Required = true
		}
		if minMatch > g.MinMatch {
			g.MinMatch = minMatch
		}
		for _, t := range terms {
			if t == "" || containsFold(g.Terms, t) {
				continue
			}
			g.Terms = append(g.Terms, t)
		}
	}

	if plan != nil {
		for _, g := range plan.Proposition.HookGroups {
			addTerms(g.GroupID, g.Required, g.MinMatch, g.Terms...)
		}
	}

	for _, statute := range ctx.Statutes {
		family := inferFamily(statute)
		aliases := expandAliases(statute, lex)
		addTerms(family, true, 1, append([]string{statute}, aliases...)...)
	}

	out := make([]models.HookGroup, 0, len(order))
	for _, family := range order {
		g := byFamily[family]
		if g.MinMatch < 1 {
			g.MinMatch = 1
		}
		out = append(out, *g)
	}
	return out
}

// expandAliases looks up the hook-family canonical alias list whose family
// matches the given statute string, so "498A" and "section 498a ipc" share
// a term set.
func expandAliases(statute string, lex *lexicon.Compiled) []string {
	if lex == nil {
		return nil
	}
	family := inferFamily(statute)
	return lex.Raw.HookFamilies[family]
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
