package intent

import (
	"regexp"

	"casesearch/pkg/models"
)

var (
	supremeCourtRE = regexp.MustCompile(`(?i)\bsupreme court\b|\bsc\b`)
	highCourtRE    = regexp.MustCompile(`(?i)\bhigh court\b|\bhc\b`)
)

// InferCourtHint: "supreme court"/"sc" only -> SC; "high court"/"hc" only -> HC; else ANY.
func InferCourtHint(cleaned string) models.CourtHint {
	sc := supremeCourtRE.MatchString(cleaned)
	hc := highCourtRE.MatchString(cleaned)
	switch {
	case sc && !hc:
		return models.CourtSC
	case hc && !sc:
		return models.CourtHC
	default:
		return models.CourtAny
	}
}
