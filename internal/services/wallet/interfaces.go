package wallet

import (
	"context"

	"ledger/internal/models"
)

// Service defines the wallet account manager.
type Service interface {
	// Wallet management
	GenerateWalletNumber(ctx context.Context) (string, error)
	CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, ownerID string) (*models.Wallet, error)

	// Balance operations
	GetBalance(ctx context.Context, ownerID string) (*Balance, error)
	InvalidateBalance(ctx context.Context, ownerIDs ...string)
}
