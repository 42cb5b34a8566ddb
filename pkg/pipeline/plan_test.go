package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/models"
)

func TestEngine_PlanReturnsChecklistAndVariantsWithoutRetrieval(t *testing.T) {
	prov := &fakeProvider{id: "unused"}
	eng := newTestEngine(t, prov)

	resp, err := eng.Plan(context.Background(), "whether bail under section 482 crpc can be granted to the accused")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RequestID)
	assert.NotNil(t, resp.Plan)
	assert.NotEmpty(t, resp.Variants)
}

func TestEngine_PlanRejectsTooShortQuery(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{id: "unused"})
	_, err := eng.Plan(context.Background(), "bail")
	assert.Error(t, err)
}

func TestEngine_FinalizeGatesClientSuppliedCandidates(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{id: "unused"})

	candidates := []models.CaseCandidate{
		{URL: "https://example.test/case/1", Title: "State v Accused on bail under section 482 crpc", Snippet: "the accused seeks bail under section 482 crpc before the high court", Court: models.CourtCaseHC},
		{URL: "https://example.test/case/2", Title: "Another bail order under section 482 crpc", Snippet: "bail granted under section 482 crpc to the accused", Court: models.CourtCaseSC},
	}

	resp, err := eng.Finalize(context.Background(), "whether bail under section 482 crpc can be granted to the accused", candidates)
	require.NoError(t, err)

	assert.Greater(t, resp.TierCounts.Total(), 0)
	assert.False(t, resp.PipelineTrace.SyntheticAdvisoryUsed)
}

func TestEngine_FinalizeFallsBackToSyntheticAdvisoryWhenNothingGates(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{id: "unused"})

	candidates := []models.CaseCandidate{
		{URL: "https://example.test/case/unrelated", Title: "Unrelated zoning dispute", Snippet: "a municipal zoning board hearing about a fence"},
	}

	resp, err := eng.Finalize(context.Background(), "whether bail under section 482 crpc can be granted to the accused", candidates)
	require.NoError(t, err)

	assert.Equal(t, models.GuaranteeSourceSynthetic, resp.Guarantee.Source)
	require.Len(t, resp.CasesExploratory, 1)
}

func TestEngine_FinalizeRejectsTooShortQuery(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{id: "unused"})
	_, err := eng.Finalize(context.Background(), "bail", []models.CaseCandidate{{URL: "https://example.test/x"}})
	assert.Error(t, err)
}
