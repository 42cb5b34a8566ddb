package pipeline

import (
	"context"

	"casesearch/pkg/classify"
	"casesearch/pkg/models"
	"casesearch/pkg/proposition"
	"casesearch/pkg/scorer"
)

// evaluation is one full C6-C9 pass over an accumulated candidate pool:
// classify, verify (hydrating only candidates not already hydrated by a
// previous pass), score against the proposition checklist, gate, diversify,
// and apply the Supreme Court preference.
type evaluation struct {
	Cases   []models.ScoredCase
	Split   models.PropositionSplit
	Summary classify.Summary
}

func (e *Engine) evaluate(ctx context.Context, pool []models.CaseCandidate, checklist models.PropositionChecklist, variants []models.QueryVariant) evaluation {
	classified := classify.ClassifyAll(pool)
	classified = classify.FilterStrictCaseOnly(classified, e.schedulerCfg.StrictCaseOnly)

	var pending, hydrated []models.ClassifiedCandidate
	for _, c := range classified {
		if hasDetailArtifact(c.Candidate) {
			hydrated = append(hydrated, c)
		} else {
			pending = append(pending, c)
		}
	}

	verified, summary := classify.Verify(ctx, pending, e.detailFetcher, e.verifyCfg)
	all := append(hydrated, verified...)

	profile := scorer.BuildLexicalProfile(checklist, variants)

	var result evaluation
	var scored []models.ScoredCase

	for _, cc := range all {
		if cc.Kind != models.KindCase && cc.Kind != models.KindUnknown {
			continue
		}
		c := cc.Candidate
		signals := proposition.Compute(c, checklist)
		rawScore := scorer.Score(c.Title, c.Snippet, c.DetailText, profile, e.scorerCfg)

		exactness, tier, matched := proposition.Decide(signals, checklist)
		if !matched {
			result.Split.Rejected++
			if signals.ContradictionFired {
				result.Split.ContradictionRejectCount++
			}
			continue
		}

		calib := proposition.Calibrate(rawScore, signals, exactness, e.gateCfg)
		if calib.SaturationPrevented {
			result.Split.SaturationPreventedCount++
		}

		switch tier {
		case models.TierStrict:
			result.Split.Strict++
		case models.TierProvisional:
			result.Split.Provisional++
		case models.TierExploratory:
			result.Split.NearMiss++
		}

		scored = append(scored, models.ScoredCase{
			Candidate:             c,
			Score:                 rawScore,
			RankingScore:          rawScore,
			ConfidenceScore:       calib.Score,
			ConfidenceBand:        calib.Band,
			Verification:          signals.Verification,
			ExactnessType:         exactness,
			MatchEvidence:         signals.MatchEvidence,
			MissingCoreElements:   signals.MissingCoreElements,
			MissingMandatorySteps: signals.MissingMandatorySteps,
			RetrievalTier:         tier,
		})
	}

	diversified := scorer.Diversify(scored)
	result.Cases = scorer.ApplySCPreference(diversified.Cases, e.cfg.PreferSupremeCourt)
	result.Summary = summary
	return result
}

func hasDetailArtifact(c models.CaseCandidate) bool {
	return c.DetailArtifact != nil && (c.DetailText != "" || len(c.DetailArtifact.EvidenceWindows) > 0)
}

// tierBuckets splits scored cases into the three SearchResponse lanes.
func tierBuckets(cases []models.ScoredCase) (strict, provisional, exploratory []models.ScoredCase) {
	for _, sc := range cases {
		switch sc.RetrievalTier {
		case models.TierStrict:
			strict = append(strict, sc)
		case models.TierProvisional:
			provisional = append(provisional, sc)
		case models.TierExploratory:
			exploratory = append(exploratory, sc)
		}
	}
	return
}
