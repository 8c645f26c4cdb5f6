package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"ledger/internal/services/transaction"
	"ledger/internal/utils/response"
)

// WebhookHandler accepts gateway notifications. The body is passed on
// untouched because the signature covers the exact bytes received.
type WebhookHandler struct {
	transactionService transaction.Service
	signatureHeader    string
	log                *slog.Logger
}

func NewWebhookHandler(transactionService transaction.Service, signatureHeader string, log *slog.Logger) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		transactionService: transactionService,
		signatureHeader:    signatureHeader,
		log:                log.With("component", "webhook"),
	}
}

func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns.
	payload := append([]byte(nil), c.Body()...)

	result, err := h.transactionService.ProcessNotification(c.UserContext(), c.Get(h.signatureHeader), payload)
	if err != nil {
		h.log.Warn("notification rejected", "error", err, "ip", c.IP())
		return response.FromError(c, err)
	}
	return response.Created(c, result)
}
