// Package bootstrap builds the shared pipeline.Engine and its collaborators
// from configuration, so cmd/server and cmd/casesearch construct identical
// retrieval cores instead of drifting copies of the same wiring.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"casesearch/internal/config"
	"casesearch/internal/hardware"
	"casesearch/pkg/archive"
	"casesearch/pkg/cache"
	"casesearch/pkg/lexicon"
	"casesearch/pkg/pipeline"
	"casesearch/pkg/provider"
	"casesearch/pkg/proposition"
	"casesearch/pkg/reasoner"
	"casesearch/pkg/scheduler"
	"casesearch/pkg/scorer"
	"casesearch/pkg/variant"
)

// Runtime bundles the collaborators callers need beyond the engine itself:
// cmd/server's health probe calls the reasoner backend directly, and both
// entrypoints must close the cache on shutdown.
type Runtime struct {
	Engine          *pipeline.Engine
	ReasonerBackend reasoner.Backend
	Cache           cache.Cache
}

// Build constructs the full retrieval core from configuration: hardware-
// sized concurrency defaults, the shared cache backend, the reasoner
// backend, the retrieval provider, and the pipeline engine wired from all
// of them. zlog must be non-nil; callers own its lifecycle.
func Build(cfg *config.Config, zlog *zap.Logger) (*Runtime, error) {
	analyzer := hardware.NewAnalyzer()
	analysis, err := analyzer.AnalyzeWithTimeout(2 * time.Second)
	if err != nil {
		zlog.Warn("hardware analysis failed, using conservative defaults", zap.Error(err))
		analysis = &hardware.Analysis{CPU: hardware.CPUInfo{Cores: 2}, Memory: hardware.MemoryInfo{AvailableGB: 2}}
	}
	perf := config.OptimizeForHardware(analysis)
	zlog.Info("hardware-sized defaults", zap.String("summary", perf.GetSummary()))

	sharedCache, err := cache.New(cache.Options{
		Backend:       cache.Backend(cfg.Cache.Backend),
		RedisAddr:     cfg.Cache.RedisURL,
		SQLitePath:    cfg.Cache.SQLitePath,
		SweepInterval: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize cache backend: %w", err)
	}

	reasonerBackend := buildReasonerBackend(cfg)
	reasonerCfg := reasoner.DefaultConfig()
	reasonerCfg.MaxCallsPerRequest = cfg.Reasoner.MaxCallsPerReq
	if cfg.Reasoner.MaxInflight > 0 {
		reasonerCfg.SemaphoreCapacity = int64(cfg.Reasoner.MaxInflight)
	} else {
		reasonerCfg.SemaphoreCapacity = int64(perf.ReasonerMaxInflight)
	}
	orchestrator := reasoner.NewOrchestrator(reasonerCfg, sharedCache, reasonerBackend, "case-search-core")

	prov := buildProvider(cfg)

	schedCfg := scheduler.DefaultConfig()
	if cfg.Pipeline.GlobalBudget > 0 {
		schedCfg.GlobalBudget = cfg.Pipeline.GlobalBudget
	} else {
		schedCfg.GlobalBudget = perf.DefaultGlobalBudget
	}
	if perf.VerifyLimit > 0 {
		schedCfg.VerifyLimit = perf.VerifyLimit
	}

	lex := lexicon.DefaultCompiled()

	pipelineCfg := pipeline.DefaultConfig()
	if cfg.Pipeline.MaxElapsedMs > 0 {
		pipelineCfg.MaxElapsedMs = cfg.Pipeline.MaxElapsedMs
	}
	if cfg.Pipeline.GuaranteeMinResults > 0 {
		pipelineCfg.GuaranteeMinResults = cfg.Pipeline.GuaranteeMinResults
	}
	if cfg.Pipeline.StaleFallbackMinSimilarity > 0 {
		pipelineCfg.StaleFallbackMinSimilarity = cfg.Pipeline.StaleFallbackMinSimilarity
	}

	stale := pipeline.NewStaleIndex(sharedCache)
	if cfg.OpenSearch.Host != "" {
		if recall, err := pipeline.NewOpenSearchRecall(context.Background(), cfg.OpenSearch); err != nil {
			zlog.Warn("opensearch recall index unavailable, falling back to cache-only stale index", zap.Error(err))
		} else {
			stale.SetOpenSearchRecall(recall)
			zlog.Info("opensearch recall index enabled", zap.String("index", cfg.OpenSearch.Index))
		}
	}

	engine := pipeline.NewEngine(
		pipelineCfg,
		lex,
		orchestrator,
		prov,
		schedCfg,
		variant.DefaultConfig(),
		proposition.DefaultConfig(),
		scorer.DefaultConfig(),
		stale,
		cfg.Provider.LexicalBaseURL,
		zlog,
	)

	if archiver, err := buildArchiver(cfg); err != nil {
		zlog.Warn("response archiving disabled", zap.Error(err))
	} else if archiver != nil {
		engine.SetArchiver(archiver)
		zlog.Info("response archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	return &Runtime{Engine: engine, ReasonerBackend: reasonerBackend, Cache: sharedCache}, nil
}

// buildArchiver wires the optional response archiver from the storage config
// already validated by config.Load. It returns (nil, nil) when archiving
// isn't configured, which callers treat as "leave archiving disabled".
func buildArchiver(cfg *config.Config) (*archive.Archiver, error) {
	if cfg.Storage.Backend != "spaces" {
		return nil, nil
	}
	return archive.New(context.Background(), archive.Config{
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
	})
}

func buildReasonerBackend(cfg *config.Config) reasoner.Backend {
	if cfg.Reasoner.AnthropicAPIKey == "" {
		return reasoner.NewDeterministicBackend()
	}
	return reasoner.NewAnthropicBackend(cfg.Reasoner.AnthropicAPIKey, cfg.Reasoner.AnthropicModel)
}

// buildProvider picks the lexical HTML case-law source when its base URL is
// configured, else the Serper web-search provider when an API key is
// present, else falls back to the lexical provider against its own default
// base URL (both entrypoints always need some retrieval collaborator).
func buildProvider(cfg *config.Config) provider.Provider {
	if cfg.Provider.LexicalBaseURL != "" {
		return provider.NewLexicalHTMLProvider(provider.LexicalConfig{BaseURL: cfg.Provider.LexicalBaseURL})
	}
	if cfg.Provider.SerperAPIKey != "" {
		return provider.NewSerperWebProvider(provider.SerperConfig{
			APIKey:  cfg.Provider.SerperAPIKey,
			BaseURL: cfg.Provider.SerperBaseURL,
		})
	}
	return provider.NewLexicalHTMLProvider(provider.LexicalConfig{})
}
