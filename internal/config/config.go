package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates every environment-driven setting the case-search server
// needs at boot: HTTP server, auth, the reasoner/provider/scheduler/pipeline
// tuneables, and the optional response-archive storage backend.
type Config struct {
	Environment string

	Server     ServerConfig
	Auth       AuthConfig
	OpenSearch OpenSearchConfig
	Storage    StorageConfig
	Processing ProcessingConfig
	Reasoner   ReasonerConfig
	Provider   ProviderConfig
	Pipeline   PipelineConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Production     bool
	AllowedOrigins string
	MaxRequestSize int64
}

type AuthConfig struct {
	JWTSecret       string
	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseAPIKey  string
}

// OpenSearchConfig configures the optional OpenSearch-backed similarity
// index the stale-fallback recall store uses instead of its default
// cache-only signature buckets; unset in the common case-search deployment.
type OpenSearchConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseSSL   bool
	Index    string
}

// StorageConfig configures the optional DigitalOcean Spaces archive for
// raw SearchResponse payloads (see pkg/archive).
type StorageConfig struct {
	Backend   string // "local" or "spaces"
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	CDNDomain string
}

type ProcessingConfig struct {
	MaxFileSize    int64
	MaxWorkers     int
	BatchSize      int
	ProcessTimeout time.Duration
}

// ReasonerConfig carries the LLM backend's credentials and per-request call
// budget (spec.md §6 LLM_REASONER_* flags).
type ReasonerConfig struct {
	AnthropicAPIKey string
	AnthropicModel  string
	MaxInflight     int
	MaxCallsPerReq  int
}

// ProviderConfig carries the retrieval providers' endpoints and credentials.
type ProviderConfig struct {
	LexicalBaseURL string
	SerperAPIKey   string
	SerperBaseURL  string
}

// PipelineConfig mirrors pkg/pipeline.Config's tuneables so they can be
// overridden per-deployment without touching code.
type PipelineConfig struct {
	GlobalBudget               int
	GuaranteeMinResults        int
	StaleFallbackMinSimilarity float64
	MaxElapsedMs               int
}

// RateLimitConfig is the per-client-IP sliding bucket spec.md §6 names for
// the search endpoints: SEARCH_IP_RATE_LIMIT requests per
// SEARCH_IP_RATE_WINDOW_SEC seconds.
type RateLimitConfig struct {
	SearchIPLimit     int
	SearchIPWindowSec int
}

// CacheConfig selects and configures the shared cache backend (C2).
type CacheConfig struct {
	Backend  string // "memory", "redis", or "sqlite"
	RedisURL string
	SQLitePath string
}

// Load reads configuration from the process environment, optionally seeded
// by a .env file in the working directory (missing file is not an error).
// Environment variables always take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	environment := getEnv("ENVIRONMENT", "local")
	if getEnvBool("PRODUCTION", false) {
		environment = "production"
	}
	isProdLike := environment == "production" || environment == "staging"

	server, err := loadServerConfig(environment)
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	openSearch, err := loadOpenSearchConfig(isProdLike)
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	processing, err := loadProcessingConfig()
	if err != nil {
		return nil, err
	}

	if isProdLike {
		if err := requireDigitalOceanConfig(); err != nil {
			return nil, err
		}
	}

	return &Config{
		Environment: environment,
		Server:      server,
		Auth:        auth,
		OpenSearch:  openSearch,
		Storage:     storage,
		Processing:  processing,
		Reasoner:    loadReasonerConfig(),
		Provider:    loadProviderConfig(),
		Pipeline:    loadPipelineConfig(),
		Cache:       loadCacheConfig(),
		RateLimit:   loadRateLimitConfig(),
	}, nil
}

func loadServerConfig(environment string) (ServerConfig, error) {
	portStr := getEnv("PORT", "")
	if portStr == "" {
		return ServerConfig{}, fmt.Errorf("PORT is required")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if port < 1 || port > 65535 {
		return ServerConfig{}, fmt.Errorf("PORT must be between 1 and 65535")
	}

	defaultOrigins := ""
	if environment == "local" {
		defaultOrigins = "http://localhost:3000,http://localhost:5173"
	}

	maxRequestSize, err := parseEnvInt64("MAX_REQUEST_SIZE", 100*1024*1024)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Port:           portStr,
		Production:     environment != "local",
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", defaultOrigins),
		MaxRequestSize: maxRequestSize,
	}, nil
}

func loadAuthConfig() (AuthConfig, error) {
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return AuthConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	supabaseURL := getEnv("SUPABASE_URL", "")
	if supabaseURL != "" {
		if u, err := url.ParseRequestURI(supabaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return AuthConfig{}, fmt.Errorf("SUPABASE_URL must be a valid URL")
		}
	}

	return AuthConfig{
		JWTSecret:       jwtSecret,
		SupabaseURL:     supabaseURL,
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseAPIKey:  firstNonEmpty(getEnv("SUPABASE_API_KEY", ""), getEnv("SUPABASE_SERVICE_KEY", "")),
	}, nil
}

func loadOpenSearchConfig(required bool) (OpenSearchConfig, error) {
	host := getEnv("OPENSEARCH_HOST", "")
	if host == "" {
		if !required {
			return OpenSearchConfig{}, nil
		}
		return OpenSearchConfig{}, fmt.Errorf("OPENSEARCH_HOST is required")
	}

	port, err := parseEnvInt("OPENSEARCH_PORT", 9200)
	if err != nil {
		return OpenSearchConfig{}, fmt.Errorf("OPENSEARCH_PORT must be a valid number: %w", err)
	}

	return OpenSearchConfig{
		Host:     host,
		Port:     port,
		Username: getEnv("OPENSEARCH_USERNAME", ""),
		Password: getEnv("OPENSEARCH_PASSWORD", ""),
		UseSSL:   getEnvBool("OPENSEARCH_USE_SSL", required),
		Index:    getEnv("OPENSEARCH_INDEX", "documents"),
	}, nil
}

func loadStorageConfig() (StorageConfig, error) {
	backend := getEnv("STORAGE_BACKEND", "local")
	if backend != "local" && backend != "spaces" {
		return StorageConfig{}, fmt.Errorf("STORAGE_BACKEND must be 'local' or 'spaces'")
	}

	cfg := StorageConfig{
		Backend:   backend,
		AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		Bucket:    getEnv("STORAGE_BUCKET", ""),
		Region:    getEnv("STORAGE_REGION", ""),
		CDNDomain: getEnv("STORAGE_CDN_DOMAIN", ""),
	}

	if backend == "spaces" && cfg.AccessKey == "" {
		return StorageConfig{}, fmt.Errorf("STORAGE_ACCESS_KEY is required for spaces backend")
	}

	return cfg, nil
}

func loadProcessingConfig() (ProcessingConfig, error) {
	maxFileSize, err := parseEnvInt64("MAX_FILE_SIZE", 50*1024*1024)
	if err != nil {
		return ProcessingConfig{}, fmt.Errorf("MAX_FILE_SIZE must be a valid number: %w", err)
	}

	maxWorkers, err := parseEnvInt("MAX_WORKERS", 4)
	if err != nil {
		return ProcessingConfig{}, fmt.Errorf("MAX_WORKERS must be a valid number: %w", err)
	}
	if maxWorkers <= 0 {
		return ProcessingConfig{}, fmt.Errorf("MAX_WORKERS must be positive")
	}

	batchSize, err := parseEnvInt("BATCH_SIZE", 10)
	if err != nil {
		return ProcessingConfig{}, fmt.Errorf("BATCH_SIZE must be a valid number: %w", err)
	}

	timeoutStr := getEnv("PROCESS_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return ProcessingConfig{}, fmt.Errorf("PROCESS_TIMEOUT must be a valid duration: %w", err)
	}

	return ProcessingConfig{
		MaxFileSize:    maxFileSize,
		MaxWorkers:     maxWorkers,
		BatchSize:      batchSize,
		ProcessTimeout: timeout,
	}, nil
}

func requireDigitalOceanConfig() error {
	required := []string{
		"DO_SPACES_ACCESS_KEY", "DO_SPACES_SECRET_KEY", "DO_SPACES_BUCKET", "DO_SPACES_REGION",
		"DO_OPENSEARCH_HOST", "DO_OPENSEARCH_PORT", "DO_OPENSEARCH_USERNAME",
		"DO_OPENSEARCH_PASSWORD", "DO_OPENSEARCH_USE_SSL", "DO_OPENSEARCH_INDEX",
	}
	for _, key := range required {
		if getEnv(key, "") == "" {
			return fmt.Errorf("%s is required in production/staging", key)
		}
	}
	return nil
}

func loadReasonerConfig() ReasonerConfig {
	maxInflight, _ := parseEnvInt("LLM_REASONER_MAX_INFLIGHT", 4)
	maxCalls, _ := parseEnvInt("LLM_REASONER_MAX_CALLS_PER_REQUEST", 2)
	return ReasonerConfig{
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		MaxInflight:     maxInflight,
		MaxCallsPerReq:  maxCalls,
	}
}

func loadProviderConfig() ProviderConfig {
	return ProviderConfig{
		LexicalBaseURL: getEnv("LEXICAL_PROVIDER_BASE_URL", ""),
		SerperAPIKey:   getEnv("SERPER_API_KEY", ""),
		SerperBaseURL:  getEnv("SERPER_BASE_URL", "https://google.serper.dev/search"),
	}
}

func loadPipelineConfig() PipelineConfig {
	globalBudget, _ := parseEnvInt("DEFAULT_GLOBAL_BUDGET", 20)
	guaranteeMin, _ := parseEnvInt("GUARANTEE_MIN_RESULTS", 3)
	maxElapsed, _ := parseEnvInt("PIPELINE_MAX_ELAPSED_MS", 9000)
	minSim, _ := strconv.ParseFloat(getEnv("STALE_FALLBACK_MIN_SIMILARITY", "0.55"), 64)
	return PipelineConfig{
		GlobalBudget:               globalBudget,
		GuaranteeMinResults:        guaranteeMin,
		StaleFallbackMinSimilarity: minSim,
		MaxElapsedMs:               maxElapsed,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	limit, _ := parseEnvInt("SEARCH_IP_RATE_LIMIT", 30)
	windowSec, _ := parseEnvInt("SEARCH_IP_RATE_WINDOW_SEC", 60)
	return RateLimitConfig{SearchIPLimit: limit, SearchIPWindowSec: windowSec}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Backend:    getEnv("CACHE_BACKEND", "memory"),
		RedisURL:   getEnv("REDIS_URL", ""),
		SQLitePath: getEnv("CACHE_SQLITE_PATH", "cache.db"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func parseEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func parseEnvInt64(key string, fallback int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
