package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/logging"
	"ledger/internal/models"
	"ledger/internal/repositories/memory"
	"ledger/internal/services/auth"
)

const secret = "middleware-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	store.AddAPIKey(models.APIKey{
		OwnerID:     "owner-key",
		KeyHash:     auth.HashAPIKey("sk_read"),
		Permissions: "read",
		ExpiresAt:   time.Now().Add(time.Hour),
		IsActive:    true,
	})

	m := NewAuthMiddleware(auth.NewService(store, secret, logging.Discard()), logging.Discard())
	app := fiber.New()
	owner := func(c *fiber.Ctx) error {
		p, _ := PrincipalFrom(c)
		return c.SendString(p.Owner())
	}
	app.Get("/read", m.Authenticate, RequireScope(models.ScopeRead), owner)
	app.Post("/transfer", m.Authenticate, RequireScope(models.ScopeTransfer), owner)
	app.Post("/wallet", m.Authenticate, RequireFullAccess(), owner)
	return app
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticate(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		header map[string]string
		status int
		body   string
	}{
		{"no credentials", "GET", "/read", nil, 401, ""},
		{"malformed header", "GET", "/read", map[string]string{"Authorization": "Token abc"}, 401, ""},
		{"bad token", "GET", "/read", map[string]string{"Authorization": "Bearer nope"}, 401, ""},
		{"unknown key", "GET", "/read", map[string]string{APIKeyHeader: "sk_unknown"}, 401, ""},
		{"key with scope", "GET", "/read", map[string]string{APIKeyHeader: "sk_read"}, 200, "owner-key"},
		{"key without scope", "POST", "/transfer", map[string]string{APIKeyHeader: "sk_read"}, 403, ""},
		{"key cannot provision", "POST", "/wallet", map[string]string{APIKeyHeader: "sk_read"}, 403, ""},
		{"token reads", "GET", "/read", map[string]string{"Authorization": bearer(t, "owner-jwt")}, 200, "owner-jwt"},
		{"token transfers", "POST", "/transfer", map[string]string{"Authorization": bearer(t, "owner-jwt")}, 200, "owner-jwt"},
		{"token provisions", "POST", "/wallet", map[string]string{"Authorization": bearer(t, "owner-jwt")}, 200, "owner-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				raw, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(raw))
			}
		})
	}
}
