// Package middleware authenticates ledger callers and enforces the scopes
// carried by their credentials.
package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/utils/response"
)

const (
	APIKeyHeader = "x-api-key"
	principalKey = "principal"
)

// Authenticator turns presented credentials into principals.
type Authenticator interface {
	ResolveAPIKey(ctx context.Context, rawKey string) (*models.ScopedPrincipal, error)
	ParseToken(token string) (*models.FullAccessPrincipal, error)
}

type AuthMiddleware struct {
	auth Authenticator
	log  *slog.Logger
}

func NewAuthMiddleware(auth Authenticator, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{auth: auth, log: log.With("component", "auth_middleware")}
}

// Authenticate resolves an API key first, then a bearer token, and stores the
// principal on the request.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) error {
	if rawKey := c.Get(APIKeyHeader); rawKey != "" {
		p, err := m.auth.ResolveAPIKey(c.UserContext(), rawKey)
		if err != nil {
			m.log.Debug("api key rejected", "path", c.Path(), "error", err)
			return response.FromError(c, err)
		}
		c.Locals(principalKey, models.Principal(*p))
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.FromError(c, domainerrors.ErrUnauthorized.WithMessage("missing credentials"))
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.FromError(c, domainerrors.ErrUnauthorized.WithMessage("invalid authorization format"))
	}

	p, err := m.auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("bearer token rejected", "path", c.Path(), "error", err)
		return response.FromError(c, err)
	}
	c.Locals(principalKey, models.Principal(*p))
	return c.Next()
}

// RequireScope rejects principals that do not allow scope.
func RequireScope(scope models.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return response.Unauthorized(c)
		}
		if !p.Allows(scope) {
			return response.FromError(c, domainerrors.ErrForbidden.WithMessage("missing %s permission", scope))
		}
		return c.Next()
	}
}

// RequireFullAccess admits only principals authenticated with a primary credential.
func RequireFullAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return response.Unauthorized(c)
		}
		if _, full := p.(models.FullAccessPrincipal); !full {
			return response.FromError(c, domainerrors.ErrForbidden.WithMessage("api keys cannot perform this action"))
		}
		return c.Next()
	}
}

func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}
