package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ledger/internal/models"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetWalletByOwner(ctx context.Context, ownerID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&wallet).Error; err != nil {
		return nil, translate("get wallet by owner", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) GetWalletByNumber(ctx context.Context, walletNumber string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("wallet_number = ?", walletNumber).First(&wallet).Error; err != nil {
		return nil, translate("get wallet by number", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) WalletNumberExists(ctx context.Context, walletNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("wallet_number = ?", walletNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wallet number: %w", err)
	}
	return count > 0, nil
}

func (r *ledgerRepository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return translate("create wallet", err)
	}
	return nil
}

func (r *ledgerRepository) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	return getTransactionByReference(r.db.WithContext(ctx), reference)
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return translate("create transaction", err)
	}
	return nil
}

func (r *ledgerRepository) ListTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) ExecuteInTransaction(ctx context.Context, fn func(LedgerTx) error) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&ledgerTx{db: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return translate("commit", err)
	}
	return nil
}

func (r *ledgerRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type ledgerTx struct {
	db *gorm.DB
}

func (t *ledgerTx) LockWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&wallet).Error
	if err != nil {
		return nil, translate("lock wallet", err)
	}
	return &wallet, nil
}

func (t *ledgerTx) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	return getTransactionByReference(t.db.WithContext(ctx), reference)
}

func (t *ledgerTx) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	if balance < 0 {
		return ErrNegativeAmount
	}
	result := t.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return translate("update wallet balance", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (t *ledgerTx) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	result := t.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translate("update transaction status", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (t *ledgerTx) CreateTransactions(ctx context.Context, txs ...*models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	if err := t.db.WithContext(ctx).Create(txs).Error; err != nil {
		return translate("create transactions", err)
	}
	return nil
}

func getTransactionByReference(db *gorm.DB, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Where("reference = ?", reference).First(&tx).Error; err != nil {
		return nil, translate("get transaction by reference", err)
	}
	return &tx, nil
}

// translate maps gorm errors onto the repository sentinels.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("failed to %s: %w", op, ErrDuplicateKey)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
