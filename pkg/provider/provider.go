// Package provider implements the two RetrievalProvider backends the
// scheduler (C5) consumes: a lexical HTML case-law search host and a
// generic Serper-style web-search JSON API.
package provider

import (
	"context"

	"casesearch/pkg/models"
)

// SearchParams is the scheduler's per-attempt request to a provider.
type SearchParams struct {
	Phrase              string
	CourtScope          models.CourtHint
	MaxResultsPerPhrase int
	MaxPages            int
	CourtType           string
	FromDate            string
	ToDate              string
	SortByMostRecent    bool

	CrawlMaxElapsedMs int
	FetchTimeoutMs    int
	Max429Retries     int
	MaxRetryAfterMs   int

	CooldownScope string

	CompiledQuery  string
	IncludeTokens  []string
	ExcludeTokens  []string

	ProviderHints  map[string]string
	QueryMode      models.QueryMode
	DoctypeProfile string

	VariantPriority int
}

// BlockedKind classifies why a provider stopped returning usable results.
type BlockedKind string

const (
	BlockedNone          BlockedKind = ""
	BlockedLocalCooldown BlockedKind = "local_cooldown"
	BlockedChallenge     BlockedKind = "challenge"
	BlockedRateLimit     BlockedKind = "rate_limit"
)

// SearchDebug is the uniform debug envelope every provider call returns,
// success or error — the scheduler reads it regardless of outcome.
type SearchDebug struct {
	SearchQuery     string      `json:"search_query"`
	Status          int         `json:"status"`
	OK              bool        `json:"ok"`
	ParsedCount     int         `json:"parsed_count"`
	ParserMode      string      `json:"parser_mode"`
	PagesScanned    int         `json:"pages_scanned"`
	ChallengeDetected bool      `json:"challenge_detected"`
	CooldownActive  bool        `json:"cooldown_active"`
	RetryAfterMs    int         `json:"retry_after_ms,omitempty"`
	BlockedType     BlockedKind `json:"blocked_type,omitempty"`
	TimedOut        bool        `json:"timed_out,omitempty"`
	Error           string      `json:"error,omitempty"`
	HTMLPreview     string      `json:"html_preview,omitempty"`
}

// SearchResult is a provider's successful response.
type SearchResult struct {
	Cases []models.CaseCandidate
	Debug SearchDebug
}

// Error wraps a provider failure, always carrying the same Debug shape a
// success would, so the scheduler can treat both paths uniformly.
type Error struct {
	Debug SearchDebug
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return "provider: " + e.Cause.Error()
	}
	return "provider: " + e.Debug.Error
}

func (e *Error) Unwrap() error { return e.Cause }

// Provider is the scheduler's retrieval collaborator (§6 RetrievalProvider).
type Provider interface {
	ID() string
	SupportsDetailFetch() bool
	Search(ctx context.Context, p SearchParams) (SearchResult, error)
}

// DetailFetcher is implemented by providers whose SupportsDetailFetch is
// true. It returns the raw fetched body and its content type; extraction
// into a DetailArtifact (HTML evidence windows, PDF text) is the verifier's
// job (C6 expansion), keeping the provider a pure I/O collaborator.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, url string, timeoutMs int) (body []byte, contentType string, err error)
}
