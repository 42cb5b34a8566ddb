package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"casesearch/pkg/models"
)

// AnthropicBackend calls the Anthropic Messages API directly over HTTP,
// following the teacher's own classifier.claudeClassifier shape (no SDK
// dependency — the wire layer is a deliberately small surface, per spec.md's
// "LLM SDK wire layer" out-of-scope note).
type AnthropicBackend struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAnthropicBackend(apiKey, model string) *AnthropicBackend {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return &AnthropicBackend{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *AnthropicBackend) Name() models.ReasonerMode { return models.ReasonerModeOpus }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	System    string              `json:"system"`
	Messages  []anthropicMessage  `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

func (a *AnthropicBackend) Generate(ctx context.Context, in Input) (*models.ReasonerPlan, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("reasoner: anthropic backend not configured")
	}

	prompt := buildPrompt(in)
	body, err := json.Marshal(anthropicRequest{
		Model:     a.model,
		MaxTokens: 1500,
		System:    reasonerSystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	if deadline, ok := ctx.Deadline(); ok {
		a.httpClient.Timeout = time.Until(deadline)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reasoner: anthropic request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reasoner: anthropic status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("reasoner: decode anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("reasoner: anthropic response had no content")
	}

	plan, warnings, err := parsePlanJSON(parsed.Content[0].Text)
	if err != nil {
		return nil, err
	}
	plan.Warnings = warnings
	return plan, nil
}

const reasonerSystemPrompt = `You extract a structured legal proposition and candidate search query variants from an Indian case-law query. Respond with ONLY a JSON object matching this shape:
{
  "proposition": {
    "actors": [string], "proceeding": [string], "legal_hooks": [string],
    "outcome_required": [string], "outcome_negative": [string],
    "jurisdiction_hint": string,
    "hook_groups": [{"group_id": string, "terms": [string], "min_match": int, "required": bool}],
    "relations": [{"type": "requires"|"applies_to"|"interacts_with"|"excluded_by", "left_group_id": string, "right_group_id": string, "required": bool}],
    "outcome_constraint": {"polarity": string, "modality": string, "terms": [string], "contradiction_terms": [string]},
    "interaction_required": bool
  },
  "must_have_terms": [string], "must_not_have_terms": [string],
  "query_variants_strict": [string], "query_variants_broad": [string],
  "case_anchors": [string]
}
Never include commentary outside the JSON object.`

func buildPrompt(in Input) string {
	var b strings.Builder
	if in.Pass == models.ReasonerPassTwo {
		fmt.Fprintf(&b, "Refine this plan using the following candidate snippets.\n\nQuery: %s\n\nSnippets:\n", in.CleanedQuery)
		for _, s := range in.Snippets {
			b.WriteString("- ")
			b.WriteString(s)
			b.WriteByte('\n')
		}
	} else {
		fmt.Fprintf(&b, "Query: %s\n", in.CleanedQuery)
	}
	fmt.Fprintf(&b, "\nKnown statutes: %v\nKnown procedures: %v\nKnown issues: %v\n",
		in.Context.Statutes, in.Context.Procedures, in.Context.Issues)
	return b.String()
}

// parsePlanJSON parses permissively: try the whole string as JSON first, then
// fall back to the substring between the first '{' and the last '}'.
func parsePlanJSON(raw string) (*models.ReasonerPlan, []string, error) {
	var plan models.ReasonerPlan
	if err := json.Unmarshal([]byte(raw), &plan); err == nil {
		return &plan, nil, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, nil, fmt.Errorf("reasoner: no JSON object found in model response")
	}
	candidate := raw[start : end+1]
	if err := json.Unmarshal([]byte(candidate), &plan); err != nil {
		return nil, nil, fmt.Errorf("reasoner: parse model JSON: %w", err)
	}
	return &plan, []string{"plan extracted from substring, not whole response"}, nil
}
