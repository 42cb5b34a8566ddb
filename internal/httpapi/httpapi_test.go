package httpapi

import (
	"context"

	"go.uber.org/zap"

	"casesearch/internal/config"
	"casesearch/pkg/cache"
	"casesearch/pkg/models"
	"casesearch/pkg/pipeline"
	"casesearch/pkg/provider"
	"casesearch/pkg/proposition"
	"casesearch/pkg/reasoner"
	"casesearch/pkg/scheduler"
	"casesearch/pkg/scorer"
	"casesearch/pkg/variant"
)

// fakeProvider returns a fixed, scripted result for every query, enough to
// drive the pipeline end to end without a network call.
type fakeProvider struct {
	results []models.CaseCandidate
}

func (f *fakeProvider) ID() string               { return "fake" }
func (f *fakeProvider) SupportsDetailFetch() bool { return false }
func (f *fakeProvider) Search(ctx context.Context, p provider.SearchParams) (provider.SearchResult, error) {
	return provider.SearchResult{
		Cases: f.results,
		Debug: provider.SearchDebug{OK: true, Status: 200, ParsedCount: len(f.results)},
	}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{Environment: "local"}
	cfg.Server.MaxRequestSize = 4 << 20
	cfg.Server.AllowedOrigins = "*"
	cfg.Auth.JWTSecret = "test-secret-key-for-jwt-testing"
	cfg.RateLimit.SearchIPLimit = 1000
	cfg.RateLimit.SearchIPWindowSec = 60
	cfg.Pipeline.MaxElapsedMs = 5000
	return cfg
}

func newTestServer(results []models.CaseCandidate) *Server {
	c := cache.NewMemoryCache(0)

	backend := reasoner.NewDeterministicBackend()
	orch := reasoner.NewOrchestrator(reasoner.DefaultConfig(), c, backend, "test-httpapi")

	schedCfg := scheduler.DefaultConfig()
	schedCfg.GlobalBudget = 20
	schedCfg.VerifyLimit = 5

	pipelineCfg := pipeline.DefaultConfig()
	pipelineCfg.MaxElapsedMs = 5000

	engine := pipeline.NewEngine(
		pipelineCfg, nil, orch, &fakeProvider{results: results}, schedCfg,
		variant.DefaultConfig(), proposition.DefaultConfig(), scorer.DefaultConfig(),
		pipeline.NewStaleIndex(c), "https://case-search.example/search", nil,
	)

	return &Server{
		engine:          engine,
		reasonerBackend: backend,
		cache:           c,
		cfg:             testConfig(),
		logger:          zap.NewNop(),
	}
}
