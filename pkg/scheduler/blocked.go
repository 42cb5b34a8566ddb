package scheduler

import (
	"casesearch/pkg/models"
	"casesearch/pkg/provider"
)

// mapBlockedKind translates a provider's blocked classification into the
// scheduler's own model vocabulary. The two types are named independently
// (provider speaks to transport-level blocking, models speaks to the
// scheduler's carry state) and are not interchangeable by construction.
func mapBlockedKind(k provider.BlockedKind) models.BlockedKind {
	switch k {
	case provider.BlockedLocalCooldown:
		return models.BlockedLocalCooldown
	case provider.BlockedChallenge:
		return models.BlockedCloudflareChallenge
	case provider.BlockedRateLimit:
		return models.BlockedRateLimit
	default:
		return ""
	}
}
