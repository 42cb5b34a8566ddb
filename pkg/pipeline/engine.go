package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"casesearch/pkg/classify"
	"casesearch/pkg/intent"
	"casesearch/pkg/lexicon"
	"casesearch/pkg/models"
	"casesearch/pkg/provider"
	"casesearch/pkg/proposition"
	"casesearch/pkg/reasoner"
	"casesearch/pkg/scheduler"
	"casesearch/pkg/scorer"
	"casesearch/pkg/variant"
)

// Engine is the C9 driver: it owns every collaborator a single request
// needs and runs the ten-step loop described in spec.md §4.8, from intent
// profiling through the always-return guarantee.
type Engine struct {
	cfg Config

	lex          *lexicon.Compiled
	orchestrator *reasoner.Orchestrator
	prov         provider.Provider

	detailFetcher classify.DetailFetcher
	schedulerCfg  scheduler.Config
	variantCfg    variant.Config
	gateCfg       proposition.Config
	scorerCfg     scorer.Config
	verifyCfg     classify.VerifyConfig

	stale           *StaleIndex
	upstreamBaseURL string
	logger          *zap.Logger

	archiver ResponseArchiver
}

// ResponseArchiver is an optional collaborator that persists a finished
// SearchResponse somewhere durable. Put is called fire-and-forget; a
// failing archiver never affects the response returned to the caller.
type ResponseArchiver interface {
	Put(ctx context.Context, requestID string, resp models.SearchResponse) error
}

// SetArchiver wires an optional response archiver. Passing nil disables
// archiving, which is also the default.
func (e *Engine) SetArchiver(a ResponseArchiver) {
	e.archiver = a
}

// archiveAsync persists resp through the configured archiver without
// blocking the caller or affecting what was already returned.
func (e *Engine) archiveAsync(requestID string, resp models.SearchResponse) {
	if e.archiver == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.archiver.Put(ctx, requestID, resp); err != nil {
			e.logger.Warn("archive response failed", zap.String("request_id", requestID), zap.Error(err))
		}
	}()
}

// NewEngine wires an Engine from already-constructed collaborators. The
// orchestrator carries its own cache/backend/owner tag; the provider's
// detail-fetch capability is adopted automatically when it implements
// classify.DetailFetcher.
func NewEngine(
	cfg Config,
	lex *lexicon.Compiled,
	orchestrator *reasoner.Orchestrator,
	prov provider.Provider,
	schedulerCfg scheduler.Config,
	variantCfg variant.Config,
	gateCfg proposition.Config,
	scorerCfg scorer.Config,
	stale *StaleIndex,
	upstreamBaseURL string,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lex == nil {
		lex = lexicon.DefaultCompiled()
	}

	var detailFetcher classify.DetailFetcher
	supportsDetail := prov != nil && prov.SupportsDetailFetch()
	if supportsDetail {
		if df, ok := prov.(classify.DetailFetcher); ok {
			detailFetcher = df
		}
	}

	return &Engine{
		cfg:           cfg,
		lex:           lex,
		orchestrator:  orchestrator,
		prov:          prov,
		detailFetcher: detailFetcher,
		schedulerCfg:  schedulerCfg,
		variantCfg:    variantCfg,
		gateCfg:       gateCfg,
		scorerCfg:     scorerCfg,
		verifyCfg: classify.VerifyConfig{
			VerifyLimit:         schedulerCfg.VerifyLimit,
			FetchTimeoutMs:      schedulerCfg.FetchTimeoutMs,
			SupportsDetailFetch: supportsDetail,
		},
		stale:           stale,
		upstreamBaseURL: upstreamBaseURL,
		logger:          logger,
	}
}

// Run executes one search request end to end. It never returns an error
// for "no results" — that case is absorbed by the always-return guarantee
// (spec.md §4.8 step 9) — only for a malformed query the intent profiler
// itself refuses to parse.
func (e *Engine) Run(ctx context.Context, rawQuery string) (models.SearchResponse, error) {
	startedAt := time.Now()
	trace := models.PipelineTrace{RequestID: uuid.NewString()}

	profile, err := intent.BuildIntentProfile(rawQuery, e.lex)
	if err != nil {
		return models.SearchResponse{}, err
	}

	callBudget := e.cfg.ReasonerMaxCallsPerRequest
	callIndex := 0

	in1 := reasoner.Input{Pass: models.ReasonerPassOne, CleanedQuery: profile.CleanedQuery, Context: profile.Context}
	var result1 models.ReasonerResult
	e.stage(&trace, "reasoner_pass1", func() { result1 = e.orchestrator.Run(ctx, in1, callIndex, callBudget) })
	callIndex++
	trace.ReasonerPass1 = &result1.Telemetry
	if result1.Telemetry.Degraded {
		e.logger.Warn("reasoner pass1 degraded", zap.String("request_id", trace.RequestID), zap.String("skip_reason", result1.Telemetry.SkipReason))
	}

	runCfg := e.schedulerCfg
	runCfg.PhaseLimits = copyPhaseLimits(e.schedulerCfg.PhaseLimits)
	extendedDeterministic := result1.Telemetry.Timeout
	if extendedDeterministic {
		runCfg.GlobalBudget += e.cfg.GuaranteeExtraAttempts
		bumpPhaseLimits(runCfg.PhaseLimits, 1)
	}

	plan := result1.Plan
	variants := variant.Plan(profile, plan, e.lex, e.variantCfg)
	checklist := proposition.BuildChecklist(profile, plan)

	sched := scheduler.New(runCfg, e.prov, func(c models.CaseCandidate) models.CandidateKind {
		return classify.Classify(c).Kind
	})
	carry := models.NewSchedulerCarryState(startedAt.UnixMilli())

	var run models.SchedulerResult
	e.stage(&trace, "scheduler_run_primary", func() { run = sched.Run(ctx, variants, profile.DateWindow, carry) })
	trace.SchedulerRuns = append(trace.SchedulerRuns, schedulerRunTrace("primary", run))

	var eval evaluation
	e.stage(&trace, "evaluate_primary", func() { eval = e.evaluate(ctx, carry.CandidateList(), checklist, variants) })

	if extendedDeterministic &&
		eval.Split.Strict < e.cfg.StrictExactTarget &&
		run.StopReason != models.StopBlocked &&
		budgetRemaining(runCfg, carry) >= e.cfg.TraceExpansionMinRemainingBudget &&
		timeRemainingMs(e.cfg, startedAt) >= e.cfg.TraceExpansionMinRemainingMs {

		trace.TraceExpansionRun = true
		traceVariants := e.traceExpansionVariants(eval.Cases, checklist, profile)
		if len(traceVariants) > 0 {
			e.stage(&trace, "scheduler_run_trace_expansion", func() { run = sched.Run(ctx, traceVariants, profile.DateWindow, carry) })
			trace.SchedulerRuns = append(trace.SchedulerRuns, schedulerRunTrace("trace_expansion", run))
			variants = append(variants, traceVariants...)
			e.stage(&trace, "evaluate_trace_expansion", func() { eval = e.evaluate(ctx, carry.CandidateList(), checklist, variants) })
		}
	}

	pass2Eligible := !result1.Telemetry.Degraded &&
		run.StopReason != models.StopBlocked &&
		callIndex < callBudget &&
		budgetRemaining(runCfg, carry) >= e.cfg.Pass2MinRemainingBudget &&
		timeRemainingMs(e.cfg, startedAt) >= e.cfg.Pass2MinRemainingMs &&
		qualityShortfall(eval.Split, e.cfg.StrictExactTarget)

	if pass2Eligible {
		trace.Pass2Invoked = true
		in2 := reasoner.Input{
			Pass:         models.ReasonerPassTwo,
			CleanedQuery: profile.CleanedQuery,
			Context:      profile.Context,
			BasePlan:     plan,
			Snippets:     topSnippets(eval.Cases, e.cfg.ReasonerPass2SnippetLimit),
		}
		var result2 models.ReasonerResult
		e.stage(&trace, "reasoner_pass2", func() { result2 = e.orchestrator.Run(ctx, in2, callIndex, callBudget) })
		callIndex++
		trace.ReasonerPass2 = &result2.Telemetry

		if !result2.Telemetry.Degraded {
			plan = result2.Plan
			variants = variant.Plan(profile, plan, e.lex, e.variantCfg)
			checklist = proposition.BuildChecklist(profile, plan)
			e.stage(&trace, "scheduler_run_pass2", func() { run = sched.Run(ctx, variants, profile.DateWindow, carry) })
			trace.SchedulerRuns = append(trace.SchedulerRuns, schedulerRunTrace("pass2", run))
			e.stage(&trace, "evaluate_pass2", func() { eval = e.evaluate(ctx, carry.CandidateList(), checklist, variants) })
		}
	}

	if e.cfg.AlwaysReturnV1 &&
		len(eval.Cases) < e.cfg.GuaranteeMinResults &&
		run.StopReason != models.StopBlocked &&
		budgetRemaining(runCfg, carry) > 0 &&
		timeRemainingMs(e.cfg, startedAt) >= e.cfg.GuaranteeMinRemainingMs {

		trace.GuaranteeRun = true
		backfill := e.guaranteeBackfillVariants(profile, plan)
		if len(backfill) > 0 {
			e.stage(&trace, "scheduler_run_guarantee", func() { run = sched.Run(ctx, backfill, profile.DateWindow, carry) })
			trace.SchedulerRuns = append(trace.SchedulerRuns, schedulerRunTrace("guarantee_backfill", run))
			variants = append(variants, backfill...)
			e.stage(&trace, "evaluate_guarantee", func() { eval = e.evaluate(ctx, carry.CandidateList(), checklist, variants) })
		}
	}

	staleUsed := false
	if e.cfg.StaleFallbackEnabled && len(eval.Cases) == 0 && run.StopReason != models.StopBlocked {
		if staleResp, _, found := e.stale.Lookup(ctx, profile, e.cfg.StaleFallbackMinSimilarity); found {
			staleUsed = true
			trace.StaleFallbackUsed = true
			eval.Cases = append(eval.Cases, markStaleFallback(staleResp)...)
		}
	}

	strict, provisional, exploratory := tierBuckets(eval.Cases)
	tierCounts := models.TierCounts{Strict: len(strict), Provisional: len(provisional), Exploratory: len(exploratory)}
	status := deriveStatus(run, tierCounts, staleUsed, time.Since(startedAt), e.cfg)

	resp := models.SearchResponse{
		Status:                status,
		CasesExactStrict:      strict,
		CasesExactProvisional: provisional,
		CasesExploratory:      exploratory,
		TierCounts:            tierCounts,
	}

	if e.stale != nil && e.cfg.StaleFallbackEnabled && status != models.StatusBlocked && tierCounts.Total() > 0 {
		e.stale.Put(ctx, profile, resp)
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
		Source: guaranteeSource(syntheticUsed, staleUsed, resp.TierCounts.Total() > 0),
	}

	if staleUsed {
		resp.Notes = append(resp.Notes, "stale_fallback_used")
	}
	if syntheticUsed {
		resp.Notes = append(resp.Notes, "synthetic_advisory_used")
	}
	if result1.Telemetry.Degraded {
		resp.Notes = append(resp.Notes, "reasoner_pass1_degraded")
	}

	trace.ElapsedMs = time.Since(startedAt).Milliseconds()
	resp.PipelineTrace = trace
	e.archiveAsync(trace.RequestID, resp)
	return resp, nil
}

func (e *Engine) stage(trace *models.PipelineTrace, name string, fn func()) {
	start := time.Now()
	fn()
	trace.Stages = append(trace.Stages, models.StageTiming{Stage: name, DurationMs: time.Since(start).Milliseconds()})
}

func (e *Engine) traceExpansionVariants(cases []models.ScoredCase, checklist models.PropositionChecklist, profile models.IntentProfile) []models.QueryVariant {
	seeds := topTitles(cases, 5)
	if len(seeds) == 0 {
		return nil
	}
	var pivots []string
	for _, g := range checklist.HookGroups {
		pivots = append(pivots, g.Terms...)
	}
	vocab := variant.LegalSignalVocab(profile, checklist.HookGroups)
	return variant.TraceVariants(seeds, pivots, vocab, e.variantCfg)
}

func topTitles(cases []models.ScoredCase, limit int) []string {
	var titles []string
	for i, c := range cases {
		if i >= limit {
			break
		}
		if c.Candidate.Title != "" {
			titles = append(titles, c.Candidate.Title)
		}
	}
	return titles
}

func topSnippets(cases []models.ScoredCase, limit int) []string {
	var snippets []string
	for i, c := range cases {
		if i >= limit {
			break
		}
		if c.Candidate.Snippet != "" {
			snippets = append(snippets, c.Candidate.Snippet)
		}
	}
	return snippets
}

func qualityShortfall(split models.PropositionSplit, target int) bool {
	if split.Strict+split.Provisional < target {
		return true
	}
	if split.Strict == 0 && split.NearMiss > 0 {
		return true
	}
	return false
}

func copyPhaseLimits(src map[models.Phase]int) map[models.Phase]int {
	dst := make(map[models.Phase]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func bumpPhaseLimits(limits map[models.Phase]int, delta int) {
	for k, v := range limits {
		limits[k] = v + delta
	}
}

func budgetRemaining(cfg scheduler.Config, carry *models.SchedulerCarryState) int {
	remaining := cfg.GlobalBudget - carry.AttemptsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func timeRemainingMs(cfg Config, startedAt time.Time) int {
	elapsed := time.Since(startedAt).Milliseconds()
	remaining := int64(cfg.MaxElapsedMs) - elapsed
	if remaining < 0 {
		return 0
	}
	return int(remaining)
}

func schedulerRunTrace(label string, r models.SchedulerResult) models.SchedulerRunTrace {
	return models.SchedulerRunTrace{
		Label:           label,
		AttemptsUsed:    len(r.Attempts),
		StopReason:      r.StopReason,
		BlockedKind:     r.BlockedKind,
		CandidatesFound: len(r.Candidates),
	}
}

func markStaleFallback(resp models.SearchResponse) []models.ScoredCase {
	var out []models.ScoredCase
	for _, tier := range [][]models.ScoredCase{resp.CasesExactStrict, resp.CasesExactProvisional, resp.CasesExploratory} {
		for _, c := range tier {
			c.RetrievalTier = models.TierExploratory
			c.FallbackReason = "stale_cache_recall"
			out = append(out, c)
		}
	}
	return out
}

// deriveStatus implements spec.md §4.8's status table: blocked only when the
// scheduler was blocked with nothing to show for it and no stale recall,
// partial when blocked-with-partial-success or the wall-clock budget ran out
// or a stale recall was used, no_match when nothing was found but the
// scheduler wasn't blocked, completed otherwise.
func deriveStatus(run models.SchedulerResult, tierCounts models.TierCounts, staleUsed bool, elapsed time.Duration, cfg Config) models.ResponseStatus {
	blocked := run.StopReason == models.StopBlocked
	if blocked && tierCounts.Total() == 0 && !staleUsed {
		return models.StatusBlocked
	}
	timeExhausted := elapsed >= time.Duration(cfg.MaxElapsedMs)*time.Millisecond
	if (blocked && tierCounts.Total() > 0) || timeExhausted || staleUsed {
		return models.StatusPartial
	}
	if tierCounts.Total() == 0 {
		return models.StatusNoMatch
	}
	return models.StatusCompleted
}

func guaranteeSource(syntheticUsed, staleUsed, haveLive bool) models.GuaranteeSource {
	switch {
	case syntheticUsed:
		return models.GuaranteeSourceSynthetic
	case staleUsed:
		return models.GuaranteeSourceStaleCache
	case haveLive:
		return models.GuaranteeSourceLive
	default:
		return models.GuaranteeSourceNone
	}
}
