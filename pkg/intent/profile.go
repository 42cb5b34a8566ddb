package intent

import (
	"casesearch/pkg/apperr"
	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
)

// BuildIntentProfile runs the full C1 pipeline over a raw query: clean, then
// derive context, court hint, date window, outcome polarity, and entities from
// the cleaned text, then assemble the retrieval-facing summary.
//
// Returns apperr (Kind input_malformed) if the cleaned query falls below
// MinQueryLength — the only validation failure this module can produce.
func BuildIntentProfile(raw string, lex *lexicon.Compiled) (models.IntentProfile, error) {
	cleaned := CleanQuery(raw, lex)
	if len(cleaned) < MinQueryLength {
		return models.IntentProfile{}, apperr.New(apperr.KindInputMalformed,
			"query too short after cleaning", nil)
	}

	ctx := BuildContextProfile(cleaned, lex)
	court := InferCourtHint(cleaned)
	dateWindow := ExtractDateWindow(cleaned)
	polarity := InferOutcomePolarity(cleaned)
	entities := BuildEntityBag(cleaned, lex)

	retrieval := buildRetrievalIntent(ctx, entities, polarity)

	return models.IntentProfile{
		RawQuery:     raw,
		CleanedQuery: cleaned,
		Context:      ctx,
		CourtHint:    court,
		DateWindow:   dateWindow,
		Entities:     entities,
		Retrieval:    retrieval,
	}, nil
}

// buildRetrievalIntent distills the context profile and entity bag into the
// summary the variant planner and proposition gate actually consume: which
// hook groups are implicated, the citations/judges to bias toward, and a
// coarse doctype hint.
func buildRetrievalIntent(ctx models.ContextProfile, entities models.EntityBag, polarity models.OutcomePolarity) models.RetrievalIntent {
	hookGroups := append([]string{}, ctx.Statutes...)

	doctype := "judgment"
	if len(ctx.Anchors) > 0 {
		doctype = "landmark_judgment"
	}

	return models.RetrievalIntent{
		HookGroups:      hookGroups,
		OutcomePolarity: polarity,
		CitationHints:   entities.Citations,
		JudgeHints:      entities.Persons,
		DoctypeProfile:  doctype,
	}
}
