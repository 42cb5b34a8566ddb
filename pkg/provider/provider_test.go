package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalHTMLProvider_ParsesResultListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
			<div class="result">
				<a href="/case/1" class="result-title">State v. Sharma</a>
				<span class="result-snippet">sanction under section 197 crpc was required</span>
				<span class="result-court">High Court of Delhi</span>
			</div>
		`))
	}))
	defer srv.Close()

	p := NewLexicalHTMLProvider(LexicalConfig{BaseURL: srv.URL})
	result, err := p.Search(context.Background(), SearchParams{Phrase: "sanction 197 crpc", MaxResultsPerPhrase: 5, MaxPages: 1, FetchTimeoutMs: 2000})

	require.NoError(t, err)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, "State v. Sharma", result.Cases[0].Title)
	assert.Contains(t, result.Cases[0].Snippet, "sanction")
	assert.True(t, result.Debug.OK)
}

func TestLexicalHTMLProvider_DetectsChallenge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Just a moment... checking your browser</body></html>`))
	}))
	defer srv.Close()

	p := NewLexicalHTMLProvider(LexicalConfig{BaseURL: srv.URL})
	result, err := p.Search(context.Background(), SearchParams{Phrase: "x", MaxResultsPerPhrase: 5, MaxPages: 1, FetchTimeoutMs: 2000})

	require.NoError(t, err)
	assert.Equal(t, BlockedChallenge, result.Debug.BlockedType)
	assert.True(t, result.Debug.ChallengeDetected)
	assert.False(t, result.Debug.OK)
}

func TestLexicalHTMLProvider_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewLexicalHTMLProvider(LexicalConfig{BaseURL: srv.URL})
	result, err := p.Search(context.Background(), SearchParams{Phrase: "x", MaxResultsPerPhrase: 5, MaxPages: 1, FetchTimeoutMs: 2000})

	require.NoError(t, err)
	assert.Equal(t, BlockedRateLimit, result.Debug.BlockedType)
}

func TestSerperWebProvider_NeverSupportsDetailFetch(t *testing.T) {
	p := NewSerperWebProvider(SerperConfig{APIKey: "test"})
	assert.False(t, p.SupportsDetailFetch())
}

func TestSerperWebProvider_ParsesOrganicResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[{"title":"State v. Sharma","link":"https://example.com/1","snippet":"sanction required"}]}`))
	}))
	defer srv.Close()

	p := NewSerperWebProvider(SerperConfig{APIKey: "test", BaseURL: srv.URL})
	result, err := p.Search(context.Background(), SearchParams{Phrase: "sanction 197 crpc", MaxResultsPerPhrase: 5, FetchTimeoutMs: 2000})

	require.NoError(t, err)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, "https://example.com/1", result.Cases[0].URL)
}
