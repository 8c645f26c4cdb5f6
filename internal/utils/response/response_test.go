package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "ledger/internal/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		code    string
	}{
		{"validation", domainerrors.ErrInvalidAmount, 400, "invalid amount", "INVALID_AMOUNT"},
		{"not found", domainerrors.ErrWalletNotFound, 404, "wallet not found", "WALLET_NOT_FOUND"},
		{"wrapped", domainerrors.ErrInsufficientFunds.Wrap(errors.New("balance 5")), 400, "insufficient funds", "INSUFFICIENT_FUNDS"},
		{"upstream", domainerrors.Upstream("payment gateway unavailable", errors.New("dial tcp")), 502, "payment gateway unavailable", "UPSTREAM_ERROR"},
		{"internal", domainerrors.Internal("db exploded", errors.New("secret detail")), 500, "internal server error", "INTERNAL"},
		{"plain", errors.New("boom"), 500, "internal server error", "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]string
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}
