// Package httpapi implements the HTTP surface (spec.md §6): the three
// search endpoints and the reasoner health probe, on top of gofiber/fiber/v2
// the same way the teacher wires its own API — recover/logger/helmet/cors
// globally, a typed error handler, and route-scoped auth and rate limiting.
package httpapi

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"casesearch/pkg/apperr"
	"casesearch/pkg/reasoner"
)

// errorResponse is the JSON body every handled error produces, matching the
// teacher's ErrorResponse shape.
type errorResponse struct {
	Status       int      `json:"status"`
	Message      string   `json:"message"`
	Error        string   `json:"error,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
	RequestedURL string   `json:"requested_url,omitempty"`
}

// availableRoutes backs generateRouteSuggestions' 404 hints, the teacher's
// own route list recomputed for this server's actual surface.
var availableRoutes = []string{
	"GET /health",
	"GET /api/health/bedrock",
	"POST /api/search",
	"POST /api/search/plan",
	"POST /api/search/finalize (auth required)",
}

// newErrorHandler maps apperr.Kind to the HTTP status spec.md §7 names for
// each kind, falling back to the teacher's generic 500 handling for
// anything that isn't a typed error.
func newErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperr.As(err); ok {
			appErr.Record()
			status := statusForKind(appErr.Kind)
			resp := errorResponse{Status: status, Message: appErr.Message}
			if status >= 500 {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(status).JSON(resp)
		}

		code := fiber.StatusInternalServerError
		message := "Internal Server Error"
		errorDetail := ""
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		} else {
			errorDetail = err.Error()
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		resp := errorResponse{Status: code, Message: message, Error: errorDetail, RequestedURL: c.OriginalURL()}
		if code == fiber.StatusNotFound {
			resp.Message = fmt.Sprintf("Endpoint not found: %s %s", c.Method(), c.Path())
			resp.Suggestions = generateRouteSuggestions(c.Method(), c.Path())
		}
		return c.Status(code).JSON(resp)
	}
}

// generateRouteSuggestions gives a 404 caller a short list of plausible
// routes by matching path keywords against availableRoutes, falling back to
// the full list when nothing matches.
func generateRouteSuggestions(method, path string) []string {
	var suggestions []string
	normalizedPath := strings.ToLower(path)

	for _, route := range availableRoutes {
		routeParts := strings.Fields(route)
		if len(routeParts) < 2 {
			continue
		}
		routeMethod := routeParts[0]
		routePath := strings.ToLower(routeParts[1])
		if routeMethod != method && method != "GET" {
			continue
		}
		switch {
		case strings.Contains(normalizedPath, "search") && strings.Contains(routePath, "search"):
			suggestions = append(suggestions, route)
		case strings.Contains(normalizedPath, "health") && strings.Contains(routePath, "health"):
			suggestions = append(suggestions, route)
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, availableRoutes...)
	}
	return suggestions
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInputMalformed:
		return fiber.StatusBadRequest
	case apperr.KindRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case apperr.KindProviderBlocked, apperr.KindProviderTimeout:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// userClaims mirrors the teacher's JWT claim shape (sub/email plus
// registered claims); this system never issues tokens itself, only
// validates ones minted by the caller's own auth provider.
type userClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// requireJWT gates POST /api/search/finalize: a client asserting it already
// ran retrieval itself must prove it holds a valid bearer token before the
// server spends classify/verify/score work on its candidates.
func requireJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.New(apperr.KindInputMalformed, "missing Authorization header", nil)
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return apperr.New(apperr.KindInputMalformed, "invalid Authorization header format", nil)
		}

		token, err := jwt.ParseWithClaims(tokenString, &userClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return apperr.New(apperr.KindInputMalformed, "invalid token", err)
		}

		c.Locals("user", token.Claims)
		return c.Next()
	}
}

// ipRateLimit enforces spec.md §6's per-client-IP sliding bucket
// (SEARCH_IP_RATE_LIMIT requests per SEARCH_IP_RATE_WINDOW_SEC seconds),
// built on the same cache-backed counter the reasoner orchestrator uses for
// its own global rate bucket (reasoner.RateBucket), keyed per spec.md §6's
// literal `search:plan:rl:{bucket}:{clientIpHash}` cache key shape.
func ipRateLimit(bucket string, rb func(key string) *reasoner.RateBucket) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("search:plan:rl:%s:%s", bucket, hashIP(c.IP()))
		allowed, err := rb(key).Allow(c.Context())
		if err != nil || !allowed {
			return apperr.New(apperr.KindRateLimitExceeded, "rate limit exceeded", err)
		}
		return c.Next()
	}
}

func hashIP(ip string) string {
	sum := sha1.Sum([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// requestTimeout bounds a handler's context to the pipeline's own elapsed
// budget plus slack for HTTP/JSON overhead, so a hung upstream provider
// can't hold a connection open indefinitely.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
