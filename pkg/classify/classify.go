// Package classify implements the Classifier & Verifier stage (C6): tagging
// each retrieved candidate as case/statute/noise/unknown, then optionally
// hydrating a shortlist with a detail fetch to extract evidence windows the
// proposition gate needs.
package classify

import (
	"regexp"
	"strings"

	"casesearch/pkg/models"
)

var versusRE = regexp.MustCompile(`(?i)\bv\.?s?\.?\s`)
var statutePrefixRE = regexp.MustCompile(`(?i)^(the\s+)?[a-z][a-z ,&'-]*\bact\b[, ]*(19|20)\d{2}`)
var noiseMarkers = []string{"advertisement", "login", "subscribe", "sign in", "terms of service", "privacy policy", "404", "page not found"}

// Classify tags one candidate with a CandidateKind and, on rejection, a
// short reason code (spec.md §4.5).
func Classify(c models.CaseCandidate) models.ClassifiedCandidate {
	title := strings.TrimSpace(c.Title)
	lowerTitle := strings.ToLower(title)

	if title == "" {
		return models.ClassifiedCandidate{Candidate: c, Kind: models.KindUnknown, RejectReason: "title_empty"}
	}

	for _, m := range noiseMarkers {
		if strings.Contains(lowerTitle, m) {
			return models.ClassifiedCandidate{Candidate: c, Kind: models.KindNoise, RejectReason: "title_noise_marker"}
		}
	}

	if statutePrefixRE.MatchString(title) {
		return models.ClassifiedCandidate{Candidate: c, Kind: models.KindStatute, RejectReason: "title_statute_prefix"}
	}

	if versusRE.MatchString(title) {
		return models.ClassifiedCandidate{Candidate: c, Kind: models.KindCase}
	}

	if strings.Contains(lowerTitle, "in re ") || strings.Contains(lowerTitle, "in the matter of") {
		return models.ClassifiedCandidate{Candidate: c, Kind: models.KindCase}
	}

	return models.ClassifiedCandidate{Candidate: c, Kind: models.KindUnknown, RejectReason: "title_no_versus_separator"}
}

// ClassifyAll classifies a batch of candidates in place.
func ClassifyAll(candidates []models.CaseCandidate) []models.ClassifiedCandidate {
	out := make([]models.ClassifiedCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Classify(c))
	}
	return out
}

// FilterStrictCaseOnly keeps only case and unknown kinds, dropping statute
// and noise — spec.md §4.5's strictCaseOnly toggle.
func FilterStrictCaseOnly(classified []models.ClassifiedCandidate, strictCaseOnly bool) []models.ClassifiedCandidate {
	if !strictCaseOnly {
		return classified
	}
	out := make([]models.ClassifiedCandidate, 0, len(classified))
	for _, c := range classified {
		if c.Kind == models.KindCase || c.Kind == models.KindUnknown {
			out = append(out, c)
		}
	}
	return out
}
