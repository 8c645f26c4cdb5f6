// Package auth resolves the credentials presented to the ledger into
// principals. Issuing tokens and keys belongs to the identity service.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories"
)

type Service interface {
	// ResolveAPIKey maps a raw API key to the scoped principal it was issued for.
	ResolveAPIKey(ctx context.Context, rawKey string) (*models.ScopedPrincipal, error)
	// ParseToken validates a bearer token and returns the full-access principal.
	ParseToken(token string) (*models.FullAccessPrincipal, error)
}

type service struct {
	keys   repositories.APIKeyRepository
	secret []byte
	now    func() time.Time
	log    *slog.Logger
}

func NewService(keys repositories.APIKeyRepository, jwtSecret string, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{
		keys:   keys,
		secret: []byte(jwtSecret),
		now:    time.Now,
		log:    log.With("component", "auth"),
	}
}

// HashAPIKey returns the hex SHA-256 under which a raw key is stored.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func (s *service) ResolveAPIKey(ctx context.Context, rawKey string) (*models.ScopedPrincipal, error) {
	if rawKey == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	key, err := s.keys.GetAPIKeyByHash(ctx, HashAPIKey(rawKey))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domainerrors.ErrUnauthorized.WithMessage("invalid api key")
		}
		return nil, domainerrors.Internal("failed to resolve api key", err)
	}
	if !key.Usable(s.now()) {
		s.log.Info("rejected inactive or expired api key", "key_id", key.ID)
		return nil, domainerrors.ErrUnauthorized.WithMessage("api key expired or revoked")
	}

	var scopes []string
	for _, scope := range key.Scopes() {
		if models.ValidScope(scope) {
			scopes = append(scopes, scope)
		}
	}
	return &models.ScopedPrincipal{
		OwnerID: key.OwnerID,
		Email:   key.Email,
		Scopes:  models.NewScopeSet(scopes...),
	}, nil
}

func (s *service) ParseToken(tokenString string) (*models.FullAccessPrincipal, error) {
	claims := &models.UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrUnauthorized.WithMessage("invalid token")
	}
	if claims.Subject == "" {
		return nil, domainerrors.ErrUnauthorized.WithMessage("invalid claims")
	}
	return &models.FullAccessPrincipal{OwnerID: claims.Subject, Email: claims.Email}, nil
}
