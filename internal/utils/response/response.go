package response

import (
	"github.com/gofiber/fiber/v2"

	domainerrors "ledger/internal/errors"
)

func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

func OK(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusOK, data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusCreated, data)
}

func Error(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, "BAD_REQUEST")
}

func Unauthorized(c *fiber.Ctx) error {
	return FromError(c, domainerrors.ErrUnauthorized)
}

// FromError writes err using the status of its kind. Internal failures never
// leak their cause to the caller.
func FromError(c *fiber.Ctx, err error) error {
	status := domainerrors.HTTPStatus(err)
	de, ok := domainerrors.As(err)
	if !ok || de.Kind == domainerrors.KindInternal {
		return Error(c, status, "internal server error", "INTERNAL")
	}
	return Error(c, status, de.Message, de.Code)
}
