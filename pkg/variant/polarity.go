package variant

import (
	"strings"

	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
)

// basePolarityPhrases seeds each polarity with its canonical phrase before
// lexicon synonym expansion.
var basePolarityPhrases = map[models.OutcomePolarity][]string{
	models.PolarityRequired:    {"sanction required", "sanction mandatory"},
	models.PolarityNotRequired: {"sanction not required", "no sanction required"},
	models.PolarityAllowed:     {"appeal allowed", "petition allowed"},
	models.PolarityRefused:     {"condonation refused", "delay not condoned"},
	models.PolarityDismissed:   {"appeal dismissed", "petition dismissed"},
	models.PolarityQuashed:     {"proceedings quashed", "fir quashed"},
}

// PolarityCues derives the positive-sense phrase set for a polarity,
// expanding through the lexicon's synonym table and dropping any phrase that
// is itself a contradiction of the target polarity (e.g. "sanction not
// required" never belongs to the `required` cue set).
func PolarityCues(polarity models.OutcomePolarity, lex *lexicon.Compiled) []string {
	base := basePolarityPhrases[polarity]
	if len(base) == 0 {
		return nil
	}

	cues := append([]string{}, base...)
	if lex != nil {
		cues = append(cues, lex.Raw.PolaritySynonyms[string(polarity)]...)
	}

	contradictions := contradictionTermsFor(polarity, lex)
	out := make([]string, 0, len(cues))
	seen := make(map[string]bool, len(cues))
	for _, c := range cues {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		if containsAnyFold(c, contradictions) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func contradictionTermsFor(polarity models.OutcomePolarity, lex *lexicon.Compiled) []string {
	if lex == nil {
		return nil
	}
	return lex.Raw.ContradictionTerms[string(polarity)]
}

func containsAnyFold(phrase string, terms []string) bool {
	lower := strings.ToLower(phrase)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
