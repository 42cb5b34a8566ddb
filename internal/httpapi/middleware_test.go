package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casesearch/pkg/apperr"
	"casesearch/pkg/cache"
	"casesearch/pkg/reasoner"
)

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	claims := userClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestRequireJWT_RejectsMissingHeader(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: newErrorHandler(zap.NewNop())})
	app.Get("/protected", requireJWT("secret"), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequireJWT_AcceptsValidToken(t *testing.T) {
	secret := "test-secret-key-for-jwt-testing"
	app := fiber.New(fiber.Config{ErrorHandler: newErrorHandler(zap.NewNop())})
	app.Get("/protected", requireJWT(secret), func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, secret))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireJWT_RejectsTokenSignedWithWrongSecret(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: newErrorHandler(zap.NewNop())})
	app.Get("/protected", requireJWT("right-secret"), func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "wrong-secret"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIPRateLimit_BlocksAfterLimitExhausted(t *testing.T) {
	c := cache.NewMemoryCache(0)
	rb := func(key string) *reasoner.RateBucket {
		return reasoner.NewRateBucket(c, key, time.Minute, 1)
	}

	app := fiber.New(fiber.Config{ErrorHandler: newErrorHandler(zap.NewNop())})
	app.Get("/limited", ipRateLimit("test", rb), func(c *fiber.Ctx) error { return c.SendString("ok") })

	req1 := httptest.NewRequest("GET", "/limited", nil)
	resp1, err := app.Test(req1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp1.StatusCode)

	req2 := httptest.NewRequest("GET", "/limited", nil)
	resp2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp2.StatusCode)
}

func TestGenerateRouteSuggestions_MatchesSearchKeyword(t *testing.T) {
	suggestions := generateRouteSuggestions("POST", "/api/search/typo")
	assert.Contains(t, suggestions, "POST /api/search")
}

func TestGenerateRouteSuggestions_FallsBackToFullListWhenNothingMatches(t *testing.T) {
	suggestions := generateRouteSuggestions("DELETE", "/api/widgets")
	assert.Equal(t, availableRoutes, suggestions)
}

func TestStatusForKind_MapsEveryKnownKind(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusForKind(apperr.KindInputMalformed))
	assert.Equal(t, fiber.StatusTooManyRequests, statusForKind(apperr.KindRateLimitExceeded))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusForKind(apperr.KindProviderBlocked))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusForKind(apperr.KindProviderTimeout))
	assert.Equal(t, fiber.StatusInternalServerError, statusForKind(apperr.Kind("unknown")))
}
