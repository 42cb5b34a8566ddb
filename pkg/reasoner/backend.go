// Package reasoner implements the Reasoner Orchestrator (C3): a single LLM
// call (pass1 builds a plan from scratch, pass2 refines one with snippets),
// wrapped in caching, a circuit breaker, a distributed lock, and a local
// concurrency limiter.
package reasoner

import (
	"context"

	"casesearch/pkg/models"
)

// Input is everything a Backend needs to produce a plan, independent of the
// caching/locking/circuit-breaker machinery around it.
type Input struct {
	Pass        models.ReasonerPass
	CleanedQuery string
	Context     models.ContextProfile
	BasePlan    *models.ReasonerPlan
	Snippets    []string
	TimeoutMs   int
}

// Backend is one way of producing a ReasonerPlan for an Input. The
// orchestrator never inspects a backend's internals; a failing backend
// returns an error and the orchestrator falls through to deterministic
// planning.
type Backend interface {
	Name() models.ReasonerMode
	Generate(ctx context.Context, in Input) (*models.ReasonerPlan, error)
}
