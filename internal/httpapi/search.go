package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"casesearch/pkg/apperr"
	"casesearch/pkg/models"
	"casesearch/pkg/validate"
)

const (
	minMaxResults     = 5
	maxMaxResults     = 40
	defaultMaxResults = 20
)

// searchRequest is the body shared by /api/search and /api/search/plan.
type searchRequest struct {
	Query      string `json:"query" validate:"required,max=1000"`
	MaxResults int    `json:"maxResults"`
	Debug      bool   `json:"debug"`
}

func (r *searchRequest) applyDefaults() {
	r.Query = validate.SanitizeQuery(r.Query)
	if r.MaxResults == 0 {
		r.MaxResults = defaultMaxResults
	}
	if r.MaxResults < minMaxResults {
		r.MaxResults = minMaxResults
	}
	if r.MaxResults > maxMaxResults {
		r.MaxResults = maxMaxResults
	}
}

// finalizeRequest is the body for /api/search/finalize: a client submitting
// candidates it already retrieved itself for server-side C6-C9 processing.
type finalizeRequest struct {
	Query      string                 `json:"query" validate:"required,max=1000"`
	Candidates []models.CaseCandidate `json:"candidates" validate:"required,min=1"`
}

// bindAndValidate parses the request body and runs struct-tag validation,
// returning the first validation message as the error so callers don't need
// their own ad hoc field checks for what the tags already cover.
func bindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.New(apperr.KindInputMalformed, "invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		fieldErrors := validate.FormatErrors(err)
		msg := "invalid request"
		if len(fieldErrors) > 0 {
			msg = fieldErrors[0].Message
		}
		return apperr.New(apperr.KindInputMalformed, msg, err)
	}
	return nil
}

// postSearch handles POST /api/search: run the full pipeline and return a
// SearchResponse. The always-return guarantee means this handler only ever
// fails on a malformed query or an exhausted rate limit — everything else
// resolves to a 200 with a degraded Status.
func (s *Server) postSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.applyDefaults()

	resp, err := s.engine.Run(c.UserContext(), req.Query)
	if err != nil {
		return err
	}
	truncateResponse(&resp, req.MaxResults)
	return c.JSON(resp)
}

// truncateResponse enforces the maxResults cap on the strict/provisional/
// exploratory display tiers (spec.md §6's `maxResults∈[5,40]`), trimming
// lowest-priority tiers first. The guarantee report keeps reporting the
// pre-trim total: maxResults bounds what the client sees, not whether the
// always-return guarantee was met.
func truncateResponse(resp *models.SearchResponse, maxResults int) {
	remaining := maxResults
	resp.CasesExactStrict, remaining = capTier(resp.CasesExactStrict, remaining)
	resp.CasesExactProvisional, remaining = capTier(resp.CasesExactProvisional, remaining)
	resp.CasesExploratory, _ = capTier(resp.CasesExploratory, remaining)
}

func capTier(tier []models.ScoredCase, remaining int) ([]models.ScoredCase, int) {
	if remaining <= 0 {
		return nil, 0
	}
	if len(tier) <= remaining {
		return tier, remaining - len(tier)
	}
	return tier[:remaining], 0
}

// postSearchPlan handles POST /api/search/plan: return the reasoner plan,
// checklist, and variants without retrieval, for a client running its own
// direct retrieval against the same gating logic.
func (s *Server) postSearchPlan(c *fiber.Ctx) error {
	var req searchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.applyDefaults()

	plan, err := s.engine.Plan(c.UserContext(), req.Query)
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

// postSearchFinalize handles POST /api/search/finalize: classify, verify,
// score, and gate a client-retrieved candidate set server-side. Gated by
// requireJWT since the caller is asserting (unverifiable) facts about work
// it already did.
func (s *Server) postSearchFinalize(c *fiber.Ctx) error {
	var req finalizeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.Query = validate.SanitizeQuery(req.Query)

	resp, err := s.engine.Finalize(c.UserContext(), req.Query, req.Candidates)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
