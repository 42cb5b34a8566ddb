package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"casesearch/pkg/intent"
	"casesearch/pkg/models"
	"casesearch/pkg/proposition"
	"casesearch/pkg/reasoner"
	"casesearch/pkg/variant"
)

// Plan runs intent profiling, reasoner pass 1, and variant/checklist
// construction without touching the scheduler — the contract behind
// `POST /api/search/plan` (spec.md §6): a client that wants to run its own
// retrieval can stay in lockstep with the server's gating logic by building
// on the same checklist and variants the server would have used itself.
func (e *Engine) Plan(ctx context.Context, rawQuery string) (models.PlanResponse, error) {
	profile, err := intent.BuildIntentProfile(rawQuery, e.lex)
	if err != nil {
		return models.PlanResponse{}, err
	}

	in1 := reasoner.Input{Pass: models.ReasonerPassOne, CleanedQuery: profile.CleanedQuery, Context: profile.Context}
	result := e.orchestrator.Run(ctx, in1, 0, e.cfg.ReasonerMaxCallsPerRequest)

	variants := variant.Plan(profile, result.Plan, e.lex, e.variantCfg)
	checklist := proposition.BuildChecklist(profile, result.Plan)

	return models.PlanResponse{
		RequestID: uuid.NewString(),
		Plan:      result.Plan,
		Checklist: checklist,
		Variants:  variants,
		Telemetry: result.Telemetry,
	}, nil
}

// Finalize runs C6-C9 (classify, verify, score, proposition-gate, and the
// always-return guarantee) over candidates a client already retrieved
// itself, skipping the scheduler entirely. The server still rebuilds the
// checklist locally from a fresh pass-1 plan — cheap relative to a network
// retrieval pass — so gating decisions stay grounded in the server's own
// lexicon and reasoner rather than trusting whatever checklist the client
// claims to have used.
func (e *Engine) Finalize(ctx context.Context, rawQuery string, candidates []models.CaseCandidate) (models.SearchResponse, error) {
	startedAt := time.Now()
	trace := models.PipelineTrace{RequestID: uuid.NewString()}

	profile, err := intent.BuildIntentProfile(rawQuery, e.lex)
	if err != nil {
		return models.SearchResponse{}, err
	}

	in1 := reasoner.Input{Pass: models.ReasonerPassOne, CleanedQuery: profile.CleanedQuery, Context: profile.Context}
	var result1 models.ReasonerResult
	e.stage(&trace, "reasoner_pass1", func() { result1 = e.orchestrator.Run(ctx, in1, 0, e.cfg.ReasonerMaxCallsPerRequest) })
	trace.ReasonerPass1 = &result1.Telemetry

	variants := variant.Plan(profile, result1.Plan, e.lex, e.variantCfg)
	checklist := proposition.BuildChecklist(profile, result1.Plan)

	var eval evaluation
	e.stage(&trace, "evaluate_finalize", func() { eval = e.evaluate(ctx, candidates, checklist, variants) })

	strict, provisional, exploratory := tierBuckets(eval.Cases)
	tierCounts := models.TierCounts{Strict: len(strict), Provisional: len(provisional), Exploratory: len(exploratory)}
	status := deriveStatus(models.SchedulerResult{}, tierCounts, false, time.Since(startedAt), e.cfg)

	resp := models.SearchResponse{
		Status:                status,
		CasesExactStrict:      strict,
		CasesExactProvisional: provisional,
		CasesExploratory:      exploratory,
		TierCounts:            tierCounts,
	}

	syntheticUsed := false
	if tierCounts.Total() == 0 && e.cfg.AlwaysReturnSyntheticFallback {
		advisory := e.syntheticAdvisory(profile)
		resp.CasesExploratory = append(resp.CasesExploratory, advisory)
		resp.TierCounts.Exploratory++
		resp.Status = syntheticFallbackStatus(status)
		syntheticUsed = true
		trace.SyntheticAdvisoryUsed = true
	}

	resp.Guarantee = models.GuaranteeReport{
		Target: e.cfg.GuaranteeMinResults,
		Used:   resp.TierCounts.Total(),
		Met:    resp.TierCounts.Total() >= e.cfg.GuaranteeMinResults,
		Source: guaranteeSource(syntheticUsed, false, resp.TierCounts.Total() > 0),
	}
	if syntheticUsed {
		resp.Notes = append(resp.Notes, "synthetic_advisory_used")
	}

	trace.ElapsedMs = time.Since(startedAt).Milliseconds()
	resp.PipelineTrace = trace
	e.archiveAsync(trace.RequestID, resp)
	return resp, nil
}
