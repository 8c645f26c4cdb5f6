package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"ledger/internal/models"
	"ledger/internal/services/transaction"
	"ledger/internal/utils/response"
	"ledger/internal/validation"
)

type depositRequest struct {
	Amount json.Number `json:"amount"`
}

type transferRequest struct {
	WalletNumber string      `json:"wallet_number" validate:"required,numeric"`
	Amount       json.Number `json:"amount"`
}

type TransactionHandler struct {
	transactionService transaction.Service
}

func NewTransactionHandler(transactionService transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var input depositRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	v := validation.New()
	amount := v.Amount("amount", input.Amount)
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	session, err := h.transactionService.InitiateDeposit(c.UserContext(), p, amount)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, session)
}

func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var input transferRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	v := validation.New()
	v.Struct(input)
	amount := v.Amount("amount", input.Amount)
	if err := v.Err(); err != nil {
		return response.FromError(c, err)
	}

	result, err := h.transactionService.Transfer(c.UserContext(), p, input.WalletNumber, amount)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, result)
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	history, err := h.transactionService.GetTransactionHistory(c.UserContext(), p.Owner())
	if err != nil {
		return response.FromError(c, err)
	}
	if history == nil {
		history = []models.TransactionHistory{}
	}
	return response.OK(c, history)
}

func (h *TransactionHandler) GetDepositStatus(c *fiber.Ctx) error {
	status, err := h.transactionService.GetTransactionStatus(c.UserContext(), c.Params("reference"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, status)
}
