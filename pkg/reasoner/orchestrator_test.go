package reasoner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/cache"
	"casesearch/pkg/models"
)

func TestOrchestrator_CacheHitSkipsBackend(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	in := Input{Pass: models.ReasonerPassOne, CleanedQuery: "appellant seeks bail under section 482 crpc"}
	fp := Fingerprint(in.CleanedQuery, in.Context)
	key := CacheKey(in.Pass, fp, "")
	seeded := models.ReasonerPlan{Proposition: models.Proposition{Actors: []string{"appellant"}}}
	require.NoError(t, c.SetJSON(ctx, key, seeded, time.Minute))

	orch := NewOrchestrator(DefaultConfig(), c, NewAnthropicBackend("", ""), "test-owner")
	result := orch.Run(ctx, in, 0, 2)

	assert.True(t, result.Telemetry.CacheHit)
	require.NotNil(t, result.Plan)
	assert.Equal(t, []string{"appellant"}, result.Plan.Proposition.Actors)
}

func TestOrchestrator_Pass2WithoutBasePlanFails(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	orch := NewOrchestrator(DefaultConfig(), c, NewDeterministicBackend(), "test-owner")
	result := orch.Run(context.Background(), Input{Pass: models.ReasonerPassTwo, CleanedQuery: "x"}, 0, 2)

	assert.Equal(t, "pass2_missing_base_plan", result.Telemetry.SkipReason)
	assert.True(t, result.Telemetry.Degraded)
}

func TestOrchestrator_DeterministicBackendSucceeds(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	orch := NewOrchestrator(DefaultConfig(), c, NewDeterministicBackend(), "test-owner")
	in := Input{
		Pass:         models.ReasonerPassOne,
		CleanedQuery: "appellant seeks bail under section 482 crpc",
		Context:      models.ContextProfile{Statutes: []string{"crpc"}, Actors: []string{"appellant"}, Procedures: []string{"bail"}},
	}
	result := orch.Run(context.Background(), in, 0, 2)

	assert.Empty(t, result.Telemetry.SkipReason)
	require.NotNil(t, result.Plan)
	assert.NotEmpty(t, result.Plan.Proposition.HookGroups)
}

func TestOrchestrator_CallBudgetExhausted(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	orch := NewOrchestrator(DefaultConfig(), c, NewDeterministicBackend(), "test-owner")
	result := orch.Run(context.Background(), Input{Pass: models.ReasonerPassOne, CleanedQuery: "x"}, 2, 2)

	assert.Equal(t, "call_budget_exhausted", result.Telemetry.SkipReason)
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := Fingerprint("test query", models.ContextProfile{Statutes: []string{"crpc", "ipc"}})
	b := Fingerprint("test query", models.ContextProfile{Statutes: []string{"ipc", "crpc"}})
	assert.Equal(t, a, b)
}
