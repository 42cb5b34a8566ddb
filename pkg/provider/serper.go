package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"casesearch/pkg/models"
)

const serperDefaultBaseURL = "https://google.serper.dev/search"

// SerperConfig configures the generic web-search provider.
type SerperConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type serperRequest struct {
	Query string `json:"q"`
	Page  int    `json:"page,omitempty"`
	Num   int    `json:"num,omitempty"`
}

type serperOrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic []serperOrganicResult `json:"organic"`
}

// SerperWebProvider is a generic web-search JSON API provider. It never
// supports detail fetch — a link from a general web search is not trusted
// enough to hydrate evidence windows from, which is load-bearing for the
// proposition gate's "no detail" confidence cap.
type SerperWebProvider struct {
	cfg SerperConfig
}

func NewSerperWebProvider(cfg SerperConfig) *SerperWebProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = serperDefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &SerperWebProvider{cfg: cfg}
}

func (p *SerperWebProvider) ID() string               { return "serper_web" }
func (p *SerperWebProvider) SupportsDetailFetch() bool { return false }

func (p *SerperWebProvider) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	debug := SearchDebug{SearchQuery: params.Phrase, ParserMode: "serper_json"}

	timeout := time.Duration(params.FetchTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqBody, err := json.Marshal(serperRequest{Query: params.Phrase, Num: params.MaxResultsPerPhrase})
	if err != nil {
		debug.Error = err.Error()
		return SearchResult{Debug: debug}, &Error{Debug: debug, Cause: err}
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		debug.Error = err.Error()
		return SearchResult{Debug: debug}, &Error{Debug: debug, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.cfg.APIKey)

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		if reqCtx.Err() != nil {
			debug.TimedOut = true
		}
		debug.Error = err.Error()
		return SearchResult{Debug: debug}, &Error{Debug: debug, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		debug.Error = err.Error()
		return SearchResult{Debug: debug}, &Error{Debug: debug, Cause: err}
	}
	debug.Status = resp.StatusCode

	if resp.StatusCode == http.StatusTooManyRequests {
		debug.BlockedType = BlockedRateLimit
		return SearchResult{Debug: debug}, nil
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("serper provider: status %d: %s", resp.StatusCode, string(body))
		debug.Error = err.Error()
		return SearchResult{Debug: debug}, &Error{Debug: debug, Cause: err}
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		debug.Error = err.Error()
		return SearchResult{Debug: debug}, &Error{Debug: debug, Cause: err}
	}

	cases := make([]models.CaseCandidate, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		if r.Link == "" || r.Title == "" {
			continue
		}
		cases = append(cases, models.CaseCandidate{
			URL:     r.Link,
			Title:   r.Title,
			Snippet: r.Snippet,
			Court:   models.CourtCaseUnknown,
		})
	}

	debug.OK = true
	debug.ParsedCount = len(cases)
	return SearchResult{Cases: cases, Debug: debug}, nil
}
