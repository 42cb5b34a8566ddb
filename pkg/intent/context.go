package intent

import (
	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
)

// BuildContextProfile runs the keyword/phrase recognisers over the cleaned query.
func BuildContextProfile(cleaned string, lex *lexicon.Compiled) models.ContextProfile {
	return models.ContextProfile{
		Domains:    lexicon.MatchLabels(lex.DomainRE, cleaned),
		Issues:     lexicon.MatchLabels(lex.IssueRE, cleaned),
		Statutes:   lexicon.MatchLabels(lex.StatuteRE, cleaned),
		Procedures: lexicon.MatchLabels(lex.ProcedureRE, cleaned),
		Actors:     lexicon.MatchLabels(lex.ActorRE, cleaned),
		Anchors:    lexicon.MatchLabels(lex.AnchorRE, cleaned),
	}
}
