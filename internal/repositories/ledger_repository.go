package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"ledger/internal/models"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNegativeAmount = errors.New("balance would become negative")
)

// LedgerRepository is the persistent store for wallets and transactions.
// Balance mutations happen only inside ExecuteInTransaction.
type LedgerRepository interface {
	// Wallet operations
	GetWalletByOwner(ctx context.Context, ownerID string) (*models.Wallet, error)
	GetWalletByNumber(ctx context.Context, walletNumber string) (*models.Wallet, error)
	WalletNumberExists(ctx context.Context, walletNumber string) (bool, error)
	CreateWallet(ctx context.Context, wallet *models.Wallet) error

	// Transaction operations
	GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)

	// ExecuteInTransaction runs fn in one unit of work. The unit commits when
	// fn returns nil and rolls back on an error or a panic.
	ExecuteInTransaction(ctx context.Context, fn func(LedgerTx) error) error

	Ping(ctx context.Context) error
}

// LedgerTx is the view of the store inside one unit of work. Row locks taken
// by LockWallet are held until the unit ends.
type LedgerTx interface {
	LockWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)
	UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error
	UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error
	CreateTransactions(ctx context.Context, txs ...*models.Transaction) error
}

// APIKeyRepository looks up issued API keys by the hex SHA-256 of the raw key.
type APIKeyRepository interface {
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*models.APIKey, error)
}
