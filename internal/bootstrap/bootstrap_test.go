package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"casesearch/internal/config"
	"casesearch/pkg/models"
	"casesearch/pkg/provider"
)

func TestBuildReasonerBackend_DeterministicWhenNoAPIKey(t *testing.T) {
	cfg := &config.Config{}
	backend := buildReasonerBackend(cfg)
	assert.Equal(t, models.ReasonerModeDeterministic, backend.Name())
}

func TestBuildReasonerBackend_AnthropicWhenAPIKeySet(t *testing.T) {
	cfg := &config.Config{}
	cfg.Reasoner.AnthropicAPIKey = "sk-test-key"
	cfg.Reasoner.AnthropicModel = "claude-3-haiku"
	backend := buildReasonerBackend(cfg)
	assert.Equal(t, models.ReasonerModeOpus, backend.Name())
}

func TestBuildProvider_PrefersLexicalBaseURLOverSerper(t *testing.T) {
	cfg := &config.Config{}
	cfg.Provider.LexicalBaseURL = "https://case-search.example"
	cfg.Provider.SerperAPIKey = "serper-key"

	prov := buildProvider(cfg)
	lexical, ok := prov.(*provider.LexicalHTMLProvider)
	assert.True(t, ok)
	assert.NotNil(t, lexical)
}

func TestBuildProvider_FallsBackToSerperWhenNoLexicalBaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.Provider.SerperAPIKey = "serper-key"

	prov := buildProvider(cfg)
	_, ok := prov.(*provider.SerperWebProvider)
	assert.True(t, ok)
}

func TestBuildProvider_FallsBackToLexicalWithDefaultsWhenNothingConfigured(t *testing.T) {
	cfg := &config.Config{}
	prov := buildProvider(cfg)
	_, ok := prov.(*provider.LexicalHTMLProvider)
	assert.True(t, ok)
}

func TestBuildArchiver_NilWhenStorageBackendIsLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "local"

	archiver, err := buildArchiver(cfg)
	assert.NoError(t, err)
	assert.Nil(t, archiver)
}

func TestBuildArchiver_BuildsWhenStorageBackendIsSpaces(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "spaces"
	cfg.Storage.AccessKey = "test-key"
	cfg.Storage.SecretKey = "test-secret"
	cfg.Storage.Bucket = "case-search-responses"
	cfg.Storage.Region = "nyc3"

	archiver, err := buildArchiver(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, archiver)
}
