package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casesearch/pkg/models"
)

func newAppWithErrorHandler(s *Server) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: newErrorHandler(s.logger)})
	app.Post("/api/search", s.postSearch)
	app.Post("/api/search/plan", s.postSearchPlan)
	app.Post("/api/search/finalize", s.postSearchFinalize)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bodyOf(t, body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestPostSearch_RejectsTooShortQuery(t *testing.T) {
	s := newTestServer(nil)
	app := newAppWithErrorHandler(s)

	resp := doJSON(t, app, "POST", "/api/search", searchRequest{Query: "bail"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPostSearch_AlwaysReturns200ForAValidQuery(t *testing.T) {
	s := newTestServer(nil)
	app := newAppWithErrorHandler(s)

	resp := doJSON(t, app, "POST", "/api/search", searchRequest{
		Query: "whether bail under section 482 crpc can be granted to the accused",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPostSearchPlan_ReturnsPlanWithoutRetrieval(t *testing.T) {
	s := newTestServer(nil)
	app := newAppWithErrorHandler(s)

	resp := doJSON(t, app, "POST", "/api/search/plan", searchRequest{
		Query: "whether bail under section 482 crpc can be granted to the accused",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var plan models.PlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.NotEmpty(t, plan.RequestID)
}

func TestPostSearchFinalize_RejectsEmptyCandidates(t *testing.T) {
	s := newTestServer(nil)
	app := newAppWithErrorHandler(s)

	resp := doJSON(t, app, "POST", "/api/search/finalize", finalizeRequest{
		Query:      "whether bail under section 482 crpc can be granted to the accused",
		Candidates: nil,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTruncateResponse_CapsAcrossTiersInPriorityOrder(t *testing.T) {
	resp := &models.SearchResponse{
		CasesExactStrict:      make([]models.ScoredCase, 3),
		CasesExactProvisional: make([]models.ScoredCase, 3),
		CasesExploratory:      make([]models.ScoredCase, 3),
	}
	truncateResponse(resp, 5)

	assert.Len(t, resp.CasesExactStrict, 3)
	assert.Len(t, resp.CasesExactProvisional, 2)
	assert.Len(t, resp.CasesExploratory, 0)
}

func bodyOf(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}
