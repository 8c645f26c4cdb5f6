package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ledger/internal/services/wallet"
	"ledger/internal/utils/response"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	w, err := h.walletService.CreateWallet(c.UserContext(), p.Owner())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, w)
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	w, err := h.walletService.GetWallet(c.UserContext(), p.Owner())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, w)
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	balance, err := h.walletService.GetBalance(c.UserContext(), p.Owner())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, balance)
}
