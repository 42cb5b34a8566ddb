package variant

import (
	"strings"

	"casesearch/pkg/models"
)

const minTraceChars = 6

// TraceVariants synthesises trace variants from seed case titles crossed
// with pivot terms (spec.md §4.3, invoked by the pipeline's trace-expansion
// step once extended-deterministic reasoning was used). Each candidate must
// carry at least one legal-signal token and be at least minTraceChars long;
// it lands in the browse phase alongside reasoner case anchors.
func TraceVariants(seedTitles, pivotTerms, legalSignalVocab []string, cfg Config) []models.QueryVariant {
	var raws []phased
	for _, title := range seedTitles {
		for _, pivot := range pivotTerms {
			phrase := strings.TrimSpace(title + " " + pivot)
			if len(phrase) < minTraceChars {
				continue
			}
			raws = append(raws, phased{
				phrase: rawPhrase{text: phrase, strictness: models.StrictnessRelaxed, purpose: "trace_pivot"},
				phase:  models.PhaseBrowse,
			})
		}
	}

	variants := make([]models.QueryVariant, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, r := range raws {
		normalized, tokens, ok := Normalize(r.phrase.text, r.phase, legalSignalVocab, cfg)
		if !ok {
			continue
		}
		if !hasLegalSignal(normalized, legalSignalVocab) {
			continue
		}
		key := canonicalKey(r.phase, r.phrase.strictness, normalized)
		if seen[key] {
			continue
		}
		seen[key] = true

		variants = append(variants, models.QueryVariant{
			ID:           variantID(key),
			Phrase:       normalized,
			Phase:        r.phase,
			Purpose:      r.phrase.purpose,
			Strictness:   r.phrase.strictness,
			Tokens:       tokens,
			CanonicalKey: key,
			Priority:     models.PhaseBasePriority[r.phase],
			RetrievalDirectives: models.RetrievalDirectives{
				QueryMode: models.QueryModeContext,
			},
		})
	}
	return variants
}
