package scheduler

import (
	"fmt"

	"casesearch/pkg/models"
)

// relaxedPhases drop court/date filters entirely — the nets cast furthest
// from the proposition's strict axes, where a narrow filter would starve
// them before they ever run.
var relaxedPhases = map[models.Phase]bool{
	models.PhaseRescue:    true,
	models.PhaseMicro:     true,
	models.PhaseRevolving: true,
	models.PhaseBrowse:    true,
}

// effectiveFilters computes the per-attempt courtType/date window, relaxing
// both away for the far phases so they can cast a wider net.
func effectiveFilters(variant models.QueryVariant, window models.DateWindow) (courtType, fromDate, toDate string) {
	if relaxedPhases[variant.Phase] {
		return "", "", ""
	}
	court := string(variant.CourtScope)
	if variant.CourtScope == models.CourtAny || variant.CourtScope == "" {
		court = ""
	}
	return court, window.FromDate, window.ToDate
}

// querySignature is the dedup key for one concrete attempt shape.
func querySignature(variant models.QueryVariant, courtType, fromDate, toDate string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", variant.Phase, variant.CanonicalKey, courtType, fromDate, toDate)
}
