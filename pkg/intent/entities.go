package intent

import (
	"regexp"

	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
)

// entityEnricher extracts one slice of entity mentions from the cleaned query.
// Each enricher owns a single axis so BuildEntityBag can be extended (a new
// enricher registered) without touching the others.
type entityEnricher func(cleaned string, lex *lexicon.Compiled) []string

var entityEnrichers = map[string]entityEnricher{
	"persons":   enrichPersons,
	"orgs":      enrichOrgs,
	"statutes":  enrichStatutes,
	"sections":  enrichSections,
	"citations": enrichCitations,
}

func enrichPersons(cleaned string, lex *lexicon.Compiled) []string {
	return dedupMatches(lex.PersonRE, cleaned)
}

func enrichOrgs(cleaned string, lex *lexicon.Compiled) []string {
	return dedupMatches(lex.OrgRE, cleaned)
}

func enrichStatutes(cleaned string, lex *lexicon.Compiled) []string {
	return lexicon.MatchLabels(lex.StatuteRE, cleaned)
}

func enrichSections(cleaned string, lex *lexicon.Compiled) []string {
	return dedupMatches(lex.SectionRE, cleaned)
}

func enrichCitations(cleaned string, lex *lexicon.Compiled) []string {
	return dedupMatches(lex.CitationRE, cleaned)
}

func dedupMatches(patterns []*regexp.Regexp, text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, re := range patterns {
		for _, m := range re.FindAllString(text, -1) {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// BuildEntityBag runs every registered enricher and assembles the result into
// a models.EntityBag. Enrichers are independent; an empty match in one never
// affects the others.
func BuildEntityBag(cleaned string, lex *lexicon.Compiled) models.EntityBag {
	return models.EntityBag{
		Persons:   entityEnrichers["persons"](cleaned, lex),
		Orgs:      entityEnrichers["orgs"](cleaned, lex),
		Statutes:  entityEnrichers["statutes"](cleaned, lex),
		Sections:  entityEnrichers["sections"](cleaned, lex),
		Citations: entityEnrichers["citations"](cleaned, lex),
	}
}
