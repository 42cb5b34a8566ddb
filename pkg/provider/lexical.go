package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"casesearch/pkg/models"
)

// challengeMarkers are body substrings that indicate an anti-bot challenge
// page rather than a results page.
var challengeMarkers = []string{"cf-challenge", "just a moment", "captcha", "verify you are human"}

var resultBlockRE = regexp.MustCompile(`(?is)<a[^>]+href="([^"]+)"[^>]*class="[^"]*result-title[^"]*"[^>]*>(.*?)</a>`)
var snippetRE = regexp.MustCompile(`(?is)class="result-snippet"[^>]*>(.*?)</`)
var courtTextRE = regexp.MustCompile(`(?is)class="result-court"[^>]*>(.*?)</`)
var tagStripRE = regexp.MustCompile(`(?is)<[^>]+>`)

// LexicalConfig configures the scraping target.
type LexicalConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// LexicalHTMLProvider scrapes a configurable case-law search host, salvage-
// parsing result listings out of the returned HTML with permissive regex
// patterns rather than a strict parser, the same idiom the teacher applies
// to salvage partial JSON out of an LLM response.
type LexicalHTMLProvider struct {
	cfg LexicalConfig
}

func NewLexicalHTMLProvider(cfg LexicalConfig) *LexicalHTMLProvider {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "casesearch-bot/1.0"
	}
	return &LexicalHTMLProvider{cfg: cfg}
}

func (p *LexicalHTMLProvider) ID() string               { return "lexical_html" }
func (p *LexicalHTMLProvider) SupportsDetailFetch() bool { return true }

func (p *LexicalHTMLProvider) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	debug := SearchDebug{SearchQuery: params.Phrase, ParserMode: "html_regex"}

	timeout := time.Duration(params.FetchTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	maxPages := params.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	var all []models.CaseCandidate
	for page := 1; page <= maxPages; page++ {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		body, status, err := p.fetchPage(reqCtx, params, page)
		cancel()
		debug.PagesScanned++
		debug.Status = status

		if err != nil {
			if ctx.Err() != nil {
				debug.TimedOut = true
			}
			debug.OK = false
			debug.Error = err.Error()
			return SearchResult{Cases: all, Debug: debug}, &Error{Debug: debug, Cause: err}
		}

		lowerBody := strings.ToLower(body)
		if status == http.StatusTooManyRequests {
			debug.BlockedType = BlockedRateLimit
			debug.OK = false
			return SearchResult{Cases: all, Debug: debug}, nil
		}
		if hasChallengeMarker(lowerBody) {
			debug.ChallengeDetected = true
			debug.BlockedType = BlockedChallenge
			debug.OK = false
			return SearchResult{Cases: all, Debug: debug}, nil
		}
		if status == http.StatusServiceUnavailable {
			debug.CooldownActive = true
			debug.BlockedType = BlockedLocalCooldown
			debug.OK = false
			return SearchResult{Cases: all, Debug: debug}, nil
		}

		pageCandidates := parseCandidates(body)
		all = append(all, pageCandidates...)
		debug.ParsedCount += len(pageCandidates)

		if len(pageCandidates) == 0 || len(all) >= params.MaxResultsPerPhrase {
			break
		}
	}

	debug.OK = true
	if len(all) > params.MaxResultsPerPhrase && params.MaxResultsPerPhrase > 0 {
		all = all[:params.MaxResultsPerPhrase]
	}
	return SearchResult{Cases: all, Debug: debug}, nil
}

func (p *LexicalHTMLProvider) fetchPage(ctx context.Context, params SearchParams, page int) (string, int, error) {
	u, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return "", 0, fmt.Errorf("lexical provider: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("q", params.Phrase)
	q.Set("page", strconv.Itoa(page))
	if params.CourtType != "" {
		q.Set("court", params.CourtType)
	}
	if params.FromDate != "" {
		q.Set("from", params.FromDate)
	}
	if params.ToDate != "" {
		q.Set("to", params.ToDate)
	}
	if params.SortByMostRecent {
		q.Set("sort", "recent")
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("lexical provider: build request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("lexical provider: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("lexical provider: read body: %w", err)
	}
	return string(body), resp.StatusCode, nil
}

// FetchDetail retrieves a candidate's full document page for the verifier to
// sniff and extract.
func (p *LexicalHTMLProvider) FetchDetail(ctx context.Context, target string, timeoutMs int) ([]byte, string, error) {
	timeout := time.Duration(timeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("lexical provider: build detail request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("lexical provider: detail request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, "", fmt.Errorf("lexical provider: read detail body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func hasChallengeMarker(lowerBody string) bool {
	for _, m := range challengeMarkers {
		if strings.Contains(lowerBody, m) {
			return true
		}
	}
	return false
}

func parseCandidates(body string) []models.CaseCandidate {
	var out []models.CaseCandidate
	matches := resultBlockRE.FindAllStringSubmatch(body, -1)
	for _, m := range matches {
		href := m[1]
		title := stripTags(m[2])
		if href == "" || title == "" {
			continue
		}
		out = append(out, models.CaseCandidate{
			URL:   href,
			Title: title,
		})
	}

	snippets := snippetRE.FindAllStringSubmatch(body, -1)
	courts := courtTextRE.FindAllStringSubmatch(body, -1)
	for i := range out {
		if i < len(snippets) {
			out[i].Snippet = stripTags(snippets[i][1])
		}
		if i < len(courts) {
			out[i].CourtText = stripTags(courts[i][1])
			out[i].Court = inferCourt(out[i].CourtText)
		}
	}
	return out
}

func stripTags(s string) string {
	s = tagStripRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func inferCourt(courtText string) models.Court {
	lower := strings.ToLower(courtText)
	switch {
	case strings.Contains(lower, "supreme court"):
		return models.CourtCaseSC
	case strings.Contains(lower, "high court"):
		return models.CourtCaseHC
	default:
		return models.CourtCaseUnknown
	}
}
