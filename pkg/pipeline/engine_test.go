package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/cache"
	"casesearch/pkg/models"
	"casesearch/pkg/provider"
	"casesearch/pkg/proposition"
	"casesearch/pkg/reasoner"
	"casesearch/pkg/scheduler"
	"casesearch/pkg/scorer"
	"casesearch/pkg/variant"
)

// fakeProvider returns a fixed, scripted SearchResult for every call,
// independent of the phrase requested — enough to drive the scheduler
// through a realistic primary-phase pass without a network.
type fakeProvider struct {
	id      string
	results []models.CaseCandidate
	err     error
}

func (f *fakeProvider) ID() string                   { return f.id }
func (f *fakeProvider) SupportsDetailFetch() bool     { return false }
func (f *fakeProvider) Search(ctx context.Context, p provider.SearchParams) (provider.SearchResult, error) {
	if f.err != nil {
		return provider.SearchResult{}, f.err
	}
	return provider.SearchResult{
		Cases: f.results,
		Debug: provider.SearchDebug{OK: true, Status: 200, ParsedCount: len(f.results)},
	}, nil
}

func newTestEngine(t *testing.T, prov provider.Provider) *Engine {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { c.Close() })

	orch := reasoner.NewOrchestrator(reasoner.DefaultConfig(), c, reasoner.NewDeterministicBackend(), "test-engine")

	schedCfg := scheduler.DefaultConfig()
	schedCfg.GlobalBudget = 20
	schedCfg.VerifyLimit = 5

	cfg := DefaultConfig()
	cfg.MaxElapsedMs = 5000

	return NewEngine(cfg, nil, orch, prov, schedCfg, variant.DefaultConfig(), proposition.DefaultConfig(), scorer.DefaultConfig(), NewStaleIndex(c), "https://case-search.example/search", nil)
}

func TestEngine_AlwaysReturnsSomethingWhenProviderIsEmpty(t *testing.T) {
	prov := &fakeProvider{id: "empty"}
	eng := newTestEngine(t, prov)

	resp, err := eng.Run(context.Background(), "whether bail under section 482 crpc can be granted to the accused")
	require.NoError(t, err)

	assert.Greater(t, resp.TierCounts.Total(), 0)
	assert.True(t, resp.PipelineTrace.SyntheticAdvisoryUsed)
	assert.Equal(t, models.StatusNoMatch, resp.Status)
	assert.Equal(t, models.GuaranteeSourceSynthetic, resp.Guarantee.Source)
	require.Len(t, resp.CasesExploratory, 1)
	assert.Equal(t, "synthetic_advisory", resp.CasesExploratory[0].FallbackReason)
}

func TestEngine_RejectsTooShortQuery(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{id: "empty"})
	_, err := eng.Run(context.Background(), "bail")
	assert.Error(t, err)
}

func TestEngine_CompletedStatusWithLiveCandidates(t *testing.T) {
	prov := &fakeProvider{
		id: "lexical",
		results: []models.CaseCandidate{
			{URL: "https://example.test/case/1", Title: "State v Accused on bail under section 482 crpc", Snippet: "the accused seeks bail under section 482 crpc before the high court", Court: models.CourtCaseHC},
			{URL: "https://example.test/case/2", Title: "Another bail order under section 482 crpc", Snippet: "bail granted under section 482 crpc to the accused", Court: models.CourtCaseSC},
		},
	}
	eng := newTestEngine(t, prov)

	resp, err := eng.Run(context.Background(), "whether bail under section 482 crpc can be granted to the accused")
	require.NoError(t, err)

	assert.False(t, resp.PipelineTrace.SyntheticAdvisoryUsed)
	assert.NotEqual(t, models.StatusBlocked, resp.Status)
}

func TestDeriveStatus_BlockedWithNoSuccessAndNoStale(t *testing.T) {
	run := models.SchedulerResult{StopReason: models.StopBlocked}
	status := deriveStatus(run, models.TierCounts{}, false, time.Second, DefaultConfig())
	assert.Equal(t, models.StatusBlocked, status)
}

func TestDeriveStatus_PartialWhenStaleUsed(t *testing.T) {
	run := models.SchedulerResult{StopReason: models.StopCompleted}
	status := deriveStatus(run, models.TierCounts{Exploratory: 1}, true, time.Second, DefaultConfig())
	assert.Equal(t, models.StatusPartial, status)
}

func TestDeriveStatus_PartialWhenTimeExhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElapsedMs = 100
	run := models.SchedulerResult{StopReason: models.StopCompleted}
	status := deriveStatus(run, models.TierCounts{Strict: 1}, false, 200*time.Millisecond, cfg)
	assert.Equal(t, models.StatusPartial, status)
}

func TestDeriveStatus_CompletedWhenLiveAndNotBlocked(t *testing.T) {
	run := models.SchedulerResult{StopReason: models.StopCompleted}
	status := deriveStatus(run, models.TierCounts{Strict: 2}, false, time.Second, DefaultConfig())
	assert.Equal(t, models.StatusCompleted, status)
}

func TestDeriveStatus_NoMatchWhenEmptyAndNotBlocked(t *testing.T) {
	run := models.SchedulerResult{StopReason: models.StopEnoughCandidates}
	status := deriveStatus(run, models.TierCounts{}, false, time.Second, DefaultConfig())
	assert.Equal(t, models.StatusNoMatch, status)
}

func TestQualityShortfall_BelowTargetIsShortfall(t *testing.T) {
	assert.True(t, qualityShortfall(models.PropositionSplit{Strict: 1}, 3))
	assert.False(t, qualityShortfall(models.PropositionSplit{Strict: 2, Provisional: 1}, 3))
}

func TestCopyPhaseLimits_IsIndependentOfSource(t *testing.T) {
	src := map[models.Phase]int{models.PhasePrimary: 2}
	dst := copyPhaseLimits(src)
	dst[models.PhasePrimary] = 9
	assert.Equal(t, 2, src[models.PhasePrimary])
}

func TestGuaranteeSource_Precedence(t *testing.T) {
	assert.Equal(t, models.GuaranteeSourceSynthetic, guaranteeSource(true, true, true))
	assert.Equal(t, models.GuaranteeSourceStaleCache, guaranteeSource(false, true, true))
	assert.Equal(t, models.GuaranteeSourceLive, guaranteeSource(false, false, true))
	assert.Equal(t, models.GuaranteeSourceNone, guaranteeSource(false, false, false))
}
