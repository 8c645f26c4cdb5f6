// Package routes wires the ledger HTTP surface onto a fiber app.
package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"ledger/internal/handlers"
	"ledger/internal/middleware"
	"ledger/internal/models"
	"ledger/internal/services/transaction"
	"ledger/internal/services/wallet"
)

// Dependencies are the services the routes dispatch to.
type Dependencies struct {
	Auth            middleware.Authenticator
	Wallets         wallet.Service
	Transactions    transaction.Service
	SignatureHeader string
	DB              handlers.Pinger
	Logger          *slog.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	walletHandler := handlers.NewWalletHandler(deps.Wallets)
	transactionHandler := handlers.NewTransactionHandler(deps.Transactions)
	webhookHandler := handlers.NewWebhookHandler(deps.Transactions, deps.SignatureHeader, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authMiddleware := middleware.NewAuthMiddleware(deps.Auth, deps.Logger)

	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Gateway callbacks authenticate by signature, not by principal.
	api.Post("/wallet/webhook", webhookHandler.Handle)
	api.Post("/wallet/paystack/webhook", webhookHandler.Handle)

	w := api.Group("/wallet", authMiddleware.Authenticate)
	w.Post("/", middleware.RequireFullAccess(), walletHandler.CreateWallet)
	w.Get("/", middleware.RequireScope(models.ScopeRead), walletHandler.GetWallet)
	w.Get("/balance", middleware.RequireScope(models.ScopeRead), walletHandler.GetBalance)
	w.Get("/transactions", middleware.RequireScope(models.ScopeRead), transactionHandler.GetTransactions)
	w.Post("/deposit", middleware.RequireScope(models.ScopeDeposit), transactionHandler.Deposit)
	w.Get("/deposit/:reference/status", middleware.RequireScope(models.ScopeRead), transactionHandler.GetDepositStatus)
	w.Post("/transfer", middleware.RequireScope(models.ScopeTransfer), transactionHandler.Transfer)
}
