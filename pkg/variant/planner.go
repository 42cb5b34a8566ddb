package variant

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"

	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
)

// phased pairs a raw candidate phrase with the phase it was assigned to
// under step 6.
type phased struct {
	phrase rawPhrase
	phase  models.Phase
}

// Plan is the C4 entry point: produces the full QueryVariant set from an
// IntentProfile and optional ReasonerPlan, following spec.md §4.3's nine
// steps in order.
func Plan(intent models.IntentProfile, plan *models.ReasonerPlan, lex *lexicon.Compiled, cfg Config) []models.QueryVariant {
	groups := BuildHookGroups(intent.Context, plan, lex)
	cues := PolarityCues(intent.Retrieval.OutcomePolarity, lex)
	axes := buildAxisSets(intent, plan, cues)

	var raws []phased

	for _, p := range buildStrictPhrases(axes, groups, cfg) {
		raws = append(raws, phased{p, models.PhasePrimary})
	}
	if plan != nil {
		for _, v := range plan.QueryVariantsStrict {
			raws = append(raws, phased{rawPhrase{text: v, strictness: models.StrictnessStrict, purpose: "reasoner_strict"}, models.PhasePrimary})
		}
	}

	for _, p := range buildBroadPhrases(axes, groups) {
		raws = append(raws, phased{p, models.PhaseFallback})
	}
	if plan != nil {
		for _, v := range plan.QueryVariantsBroad {
			raws = append(raws, phased{rawPhrase{text: v, strictness: models.StrictnessRelaxed, purpose: "reasoner_broad"}, models.PhaseFallback})
		}
	}

	packs := flattenKeywordPacks(lex)
	for _, p := range outcomePhrases(axes) {
		raws = append(raws, phased{p, models.PhaseRescue})
	}
	for _, p := range hookFilteredKeywordPacks(packs, groups) {
		raws = append(raws, phased{p, models.PhaseRescue})
	}

	for _, p := range singletonPhrases(intent) {
		raws = append(raws, phased{p, models.PhaseMicro})
	}

	for _, p := range genericKeywordPacks(packs) {
		raws = append(raws, phased{p, models.PhaseRevolving})
	}

	var anchors []string
	if plan != nil {
		anchors = plan.CaseAnchors
	}
	for _, p := range hookFilteredAnchors(anchors, groups) {
		raws = append(raws, phased{p, models.PhaseBrowse})
	}

	legalVocab := legalSignalVocab(intent, groups)

	variants := make([]models.QueryVariant, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, r := range raws {
		normalized, tokens, ok := Normalize(r.phrase.text, r.phase, legalVocab, cfg)
		if !ok {
			continue
		}
		key := canonicalKey(r.phase, r.phrase.strictness, normalized)
		if seen[key] {
			continue
		}
		seen[key] = true

		priority := models.PhaseBasePriority[r.phase]
		if r.phrase.strictness == models.StrictnessStrict {
			priority += 12
		}

		variants = append(variants, models.QueryVariant{
			ID:           variantID(key),
			Phrase:       normalized,
			Phase:        r.phase,
			Purpose:      r.phrase.purpose,
			CourtScope:   intent.CourtHint,
			Strictness:   r.phrase.strictness,
			Tokens:       tokens,
			CanonicalKey: key,
			Priority:     priority,
			RetrievalDirectives: models.RetrievalDirectives{
				QueryMode:                    queryModeFor(r.phrase.strictness),
				DoctypeProfile:               intent.Retrieval.DoctypeProfile,
				ApplyContradictionExclusions: intent.Retrieval.OutcomePolarity != models.PolarityUnknown,
			},
		})
	}

	sort.SliceStable(variants, func(i, j int) bool { return variants[i].Priority > variants[j].Priority })
	return variants
}

func outcomePhrases(axes axisSets) []rawPhrase {
	var out []rawPhrase
	for _, cue := range axes.outcome {
		if cue == "" {
			continue
		}
		out = append(out, rawPhrase{text: cue, strictness: models.StrictnessRelaxed, purpose: "outcome_phrase"})
	}
	return out
}

// FlattenKeywordPacks exposes the lexicon's keyword packs as a flat phrase
// list, for callers outside this package building their own variant sets
// (e.g. the pipeline's guarantee-backfill step).
func FlattenKeywordPacks(lex *lexicon.Compiled) []string {
	return flattenKeywordPacks(lex)
}

func flattenKeywordPacks(lex *lexicon.Compiled) []string {
	if lex == nil {
		return nil
	}
	var out []string
	for _, phrases := range lex.Raw.KeywordPacks {
		out = append(out, phrases...)
	}
	return out
}

// LegalSignalVocab exposes the same legal-signal vocabulary Plan builds
// internally, so the pipeline's guarantee-backfill step can feed it to
// TraceVariants without duplicating the accretion logic.
func LegalSignalVocab(intent models.IntentProfile, groups []models.HookGroup) []string {
	return legalSignalVocab(intent, groups)
}

func legalSignalVocab(intent models.IntentProfile, groups []models.HookGroup) []string {
	var vocab []string
	vocab = append(vocab, intent.Context.Statutes...)
	vocab = append(vocab, intent.Context.Procedures...)
	vocab = append(vocab, intent.Context.Issues...)
	for _, g := range groups {
		vocab = append(vocab, g.Terms...)
	}
	return vocab
}

func queryModeFor(strictness models.Strictness) models.QueryMode {
	if strictness == models.StrictnessStrict {
		return models.QueryModePrecision
	}
	return models.QueryModeExpansion
}

// canonicalKey is step 8: {phase}:{strictness}:{normalised phrase}.
func canonicalKey(phase models.Phase, strictness models.Strictness, normalized string) string {
	return string(phase) + ":" + string(strictness) + ":" + normalized
}

func variantID(key string) string {
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}
