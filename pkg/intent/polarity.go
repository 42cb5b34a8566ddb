package intent

import (
	"regexp"
	"strings"

	"casesearch/pkg/models"
)

var (
	noDispositionRE   = regexp.MustCompile(`(?i)\bwhat (happens|is the position)\b|\bwhether\b.*\?\s*$`)
	sanctionBarRE     = regexp.MustCompile(`(?i)cannot proceed without( prior)? sanction|unless prior sanction`)
	sanctionNotReqRE  = regexp.MustCompile(`(?i)sanction not required|without sanction`)
	dismissedRE       = regexp.MustCompile(`(?i)\bdismissed\b|\btime[\s-]barred\b`)
	quashedRE         = regexp.MustCompile(`(?i)\bquashed\b`)
	refusedRE         = regexp.MustCompile(`(?i)\brefused\b|\brejected\b|\bnot condoned\b`)
	allowedRE         = regexp.MustCompile(`(?i)\ballowed\b|\bgranted\b|\bcondoned\b`)
)

// InferOutcomePolarity applies the seven ordered rules from spec.md §4.1 in
// order; the first rule that matches wins. An open question posed without any
// disposition language collapses to unknown rather than falling through to a
// coincidental keyword hit.
func InferOutcomePolarity(cleaned string) models.OutcomePolarity {
	lower := strings.ToLower(cleaned)

	if noDispositionRE.MatchString(lower) && !hasAnyDispositionWord(lower) {
		return models.PolarityUnknown
	}
	switch {
	case sanctionBarRE.MatchString(lower):
		return models.PolarityRequired
	case sanctionNotReqRE.MatchString(lower):
		return models.PolarityNotRequired
	case dismissedRE.MatchString(lower):
		return models.PolarityDismissed
	case quashedRE.MatchString(lower):
		return models.PolarityQuashed
	case refusedRE.MatchString(lower):
		return models.PolarityRefused
	case allowedRE.MatchString(lower):
		return models.PolarityAllowed
	default:
		return models.PolarityUnknown
	}
}

func hasAnyDispositionWord(lower string) bool {
	return sanctionBarRE.MatchString(lower) ||
		sanctionNotReqRE.MatchString(lower) ||
		dismissedRE.MatchString(lower) ||
		quashedRE.MatchString(lower) ||
		refusedRE.MatchString(lower) ||
		allowedRE.MatchString(lower)
}
