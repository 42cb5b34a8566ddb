package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTestEnv sets environment variables for testing and returns a cleanup function.
func setTestEnv(t *testing.T, envVars map[string]string) func() {
	t.Helper()

	originalValues := make(map[string]string)
	originalExists := make(map[string]bool)

	for key := range envVars {
		if val, exists := os.LookupEnv(key); exists {
			originalValues[key] = val
			originalExists[key] = true
		}
	}

	for key, value := range envVars {
		os.Setenv(key, value)
	}

	return func() {
		for key := range envVars {
			if originalExists[key] {
				os.Setenv(key, originalValues[key])
			} else {
				os.Unsetenv(key)
			}
		}
	}
}

func TestLoadMinimalConfig(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT": "local",
		"PORT":        "8080",
		"JWT_SECRET":  "test-secret",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err, "should load minimal config without error")
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Server.Production)
}

func TestLoadProductionConfig(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT":          "production",
		"PORT":                 "8000",
		"PRODUCTION":           "true",
		"ALLOWED_ORIGINS":      "https://app.example.com",
		"MAX_REQUEST_SIZE":     "52428800",
		"JWT_SECRET":           "super-secret-jwt-key",
		"SUPABASE_URL":         "https://test.supabase.co",
		"SUPABASE_ANON_KEY":    "test-anon-key",
		"SUPABASE_SERVICE_KEY": "test-api-key",
		"OPENSEARCH_HOST":      "search.example.com",
		"OPENSEARCH_PORT":      "443",
		"OPENSEARCH_USE_SSL":   "true",
		"STORAGE_BACKEND":      "spaces",
		"STORAGE_ACCESS_KEY":   "spaces-key",
		"STORAGE_SECRET_KEY":   "spaces-secret",
		"STORAGE_BUCKET":       "my-bucket",
		"STORAGE_REGION":       "nyc3",
		"MAX_WORKERS":          "4",
		"BATCH_SIZE":           "20",
		"PROCESS_TIMEOUT":      "60s",
		"DO_SPACES_ACCESS_KEY":   "spaces-key",
		"DO_SPACES_SECRET_KEY":   "spaces-secret",
		"DO_SPACES_BUCKET":       "my-bucket",
		"DO_SPACES_REGION":       "nyc3",
		"DO_OPENSEARCH_HOST":     "search.example.com",
		"DO_OPENSEARCH_PORT":     "443",
		"DO_OPENSEARCH_USERNAME": "admin",
		"DO_OPENSEARCH_PASSWORD": "password",
		"DO_OPENSEARCH_USE_SSL":  "true",
		"DO_OPENSEARCH_INDEX":    "documents",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err, "should load production config without error")

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.True(t, cfg.Server.Production)
	assert.Equal(t, "https://app.example.com", cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(52428800), cfg.Server.MaxRequestSize)

	assert.Equal(t, "super-secret-jwt-key", cfg.Auth.JWTSecret)
	assert.Equal(t, "https://test.supabase.co", cfg.Auth.SupabaseURL)

	assert.Equal(t, "search.example.com", cfg.OpenSearch.Host)
	assert.Equal(t, 443, cfg.OpenSearch.Port)
	assert.True(t, cfg.OpenSearch.UseSSL)

	assert.Equal(t, "spaces", cfg.Storage.Backend)
	assert.Equal(t, "spaces-key", cfg.Storage.AccessKey)
	assert.Equal(t, "my-bucket", cfg.Storage.Bucket)

	assert.Equal(t, 4, cfg.Processing.MaxWorkers)
	assert.Equal(t, 60*time.Second, cfg.Processing.ProcessTimeout)
}

func TestValidateServerConfig(t *testing.T) {
	tests := []struct {
		name        string
		port        string
		shouldError bool
		errorMsg    string
	}{
		{name: "valid port", port: "8080", shouldError: false},
		{name: "empty port", port: "", shouldError: true, errorMsg: "PORT is required"},
		{name: "invalid port - non-numeric", port: "invalid", shouldError: true, errorMsg: "PORT must be a valid number"},
		{name: "invalid port - too low", port: "0", shouldError: true, errorMsg: "PORT must be between 1 and 65535"},
		{name: "invalid port - too high", port: "70000", shouldError: true, errorMsg: "PORT must be between 1 and 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setTestEnv(t, map[string]string{
				"ENVIRONMENT": "local",
				"PORT":        tt.port,
				"JWT_SECRET":  "test-secret",
			})
			defer cleanup()

			_, err := Load()
			if tt.shouldError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAuthConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		shouldError bool
		errorMsg    string
	}{
		{
			name: "valid auth config",
			envVars: map[string]string{
				"ENVIRONMENT":  "local",
				"PORT":         "8080",
				"JWT_SECRET":   "test-secret",
				"SUPABASE_URL": "https://test.supabase.co",
			},
			shouldError: false,
		},
		{
			name: "missing JWT secret",
			envVars: map[string]string{
				"ENVIRONMENT": "local",
				"PORT":        "8080",
			},
			shouldError: true,
			errorMsg:    "JWT_SECRET is required",
		},
		{
			name: "invalid Supabase URL",
			envVars: map[string]string{
				"ENVIRONMENT":  "local",
				"PORT":         "8080",
				"JWT_SECRET":   "test-secret",
				"SUPABASE_URL": "invalid-url",
			},
			shouldError: true,
			errorMsg:    "SUPABASE_URL must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setTestEnv(t, tt.envVars)
			defer cleanup()

			_, err := Load()
			if tt.shouldError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStorageConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		shouldError bool
		errorMsg    string
	}{
		{
			name: "valid local storage config",
			envVars: map[string]string{
				"ENVIRONMENT":     "local",
				"PORT":            "8080",
				"JWT_SECRET":      "test-secret",
				"STORAGE_BACKEND": "local",
			},
			shouldError: false,
		},
		{
			name: "invalid storage backend",
			envVars: map[string]string{
				"ENVIRONMENT":     "local",
				"PORT":            "8080",
				"JWT_SECRET":      "test-secret",
				"STORAGE_BACKEND": "invalid",
			},
			shouldError: true,
			errorMsg:    "STORAGE_BACKEND must be 'local' or 'spaces'",
		},
		{
			name: "spaces backend missing access key",
			envVars: map[string]string{
				"ENVIRONMENT":        "local",
				"PORT":               "8080",
				"JWT_SECRET":         "test-secret",
				"STORAGE_BACKEND":    "spaces",
				"STORAGE_SECRET_KEY": "secret",
			},
			shouldError: true,
			errorMsg:    "STORAGE_ACCESS_KEY is required for spaces backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setTestEnv(t, tt.envVars)
			defer cleanup()

			_, err := Load()
			if tt.shouldError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProcessingConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		shouldError bool
		errorMsg    string
	}{
		{
			name: "valid processing config",
			envVars: map[string]string{
				"ENVIRONMENT":     "local",
				"PORT":            "8080",
				"JWT_SECRET":      "test-secret",
				"MAX_WORKERS":     "4",
				"PROCESS_TIMEOUT": "30s",
			},
			shouldError: false,
		},
		{
			name: "invalid process timeout",
			envVars: map[string]string{
				"ENVIRONMENT":     "local",
				"PORT":            "8080",
				"JWT_SECRET":      "test-secret",
				"PROCESS_TIMEOUT": "invalid",
			},
			shouldError: true,
			errorMsg:    "PROCESS_TIMEOUT must be a valid duration",
		},
		{
			name: "negative max workers",
			envVars: map[string]string{
				"ENVIRONMENT": "local",
				"PORT":        "8080",
				"JWT_SECRET":  "test-secret",
				"MAX_WORKERS": "-1",
			},
			shouldError: true,
			errorMsg:    "MAX_WORKERS must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setTestEnv(t, tt.envVars)
			defer cleanup()

			_, err := Load()
			if tt.shouldError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvironmentSpecificDefaults(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		expected    func(*Config) bool
	}{
		{
			name:        "local environment defaults",
			environment: "local",
			expected: func(cfg *Config) bool {
				return !cfg.Server.Production &&
					cfg.Server.AllowedOrigins == "http://localhost:3000,http://localhost:5173"
			},
		},
		{
			name:        "production environment defaults",
			environment: "production",
			expected: func(cfg *Config) bool {
				return cfg.Server.Production
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envVars := map[string]string{
				"ENVIRONMENT": tt.environment,
				"PORT":        "8080",
				"JWT_SECRET":  "test-secret",
			}

			if tt.environment == "production" {
				envVars["OPENSEARCH_HOST"] = "localhost"
				envVars["DO_SPACES_ACCESS_KEY"] = "test-key"
				envVars["DO_SPACES_SECRET_KEY"] = "test-secret"
				envVars["DO_SPACES_BUCKET"] = "test-bucket"
				envVars["DO_SPACES_REGION"] = "nyc3"
				envVars["DO_OPENSEARCH_HOST"] = "localhost"
				envVars["DO_OPENSEARCH_PORT"] = "9200"
				envVars["DO_OPENSEARCH_USERNAME"] = "admin"
				envVars["DO_OPENSEARCH_PASSWORD"] = "admin"
				envVars["DO_OPENSEARCH_USE_SSL"] = "true"
				envVars["DO_OPENSEARCH_INDEX"] = "documents"
			}

			cleanup := setTestEnv(t, envVars)
			defer cleanup()

			cfg, err := Load()
			require.NoError(t, err)
			assert.True(t, tt.expected(cfg), "environment-specific defaults not applied correctly")
		})
	}
}

func TestConfigWithoutEnvironmentFile(t *testing.T) {
	if _, err := os.Stat(".env"); err == nil {
		t.Skip("Skipping test - .env file exists")
	}

	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT": "local",
		"PORT":        "8080",
		"JWT_SECRET":  "test-secret",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err, "should load config without .env file")
	assert.Equal(t, "local", cfg.Environment)
}

func TestLoadReasonerAndPipelineDefaults(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT": "local",
		"PORT":        "8080",
		"JWT_SECRET":  "test-secret",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Reasoner.MaxInflight)
	assert.Equal(t, 2, cfg.Reasoner.MaxCallsPerReq)
	assert.Equal(t, 3, cfg.Pipeline.GuaranteeMinResults)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestLoadReasonerAndPipelineOverrides(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT":                "local",
		"PORT":                       "8080",
		"JWT_SECRET":                 "test-secret",
		"LLM_REASONER_MAX_INFLIGHT":  "8",
		"GUARANTEE_MIN_RESULTS":      "5",
		"STALE_FALLBACK_MIN_SIMILARITY": "0.7",
		"CACHE_BACKEND":              "redis",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Reasoner.MaxInflight)
	assert.Equal(t, 5, cfg.Pipeline.GuaranteeMinResults)
	assert.InDelta(t, 0.7, cfg.Pipeline.StaleFallbackMinSimilarity, 0.0001)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestLoadRateLimitDefaults(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT": "local",
		"PORT":        "8080",
		"JWT_SECRET":  "test-secret",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RateLimit.SearchIPLimit)
	assert.Equal(t, 60, cfg.RateLimit.SearchIPWindowSec)
}

func TestLoadRateLimitOverrides(t *testing.T) {
	cleanup := setTestEnv(t, map[string]string{
		"ENVIRONMENT":               "local",
		"PORT":                      "8080",
		"JWT_SECRET":                "test-secret",
		"SEARCH_IP_RATE_LIMIT":      "5",
		"SEARCH_IP_RATE_WINDOW_SEC": "15",
	})
	defer cleanup()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.RateLimit.SearchIPLimit)
	assert.Equal(t, 15, cfg.RateLimit.SearchIPWindowSec)
}
