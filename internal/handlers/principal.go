package handlers

import (
	"github.com/gofiber/fiber/v2"

	domainerrors "ledger/internal/errors"
	"ledger/internal/middleware"
	"ledger/internal/models"
)

func principalFrom(c *fiber.Ctx) (models.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domainerrors.ErrUnauthorized
	}
	return p, nil
}
