package transaction

import (
	"context"
	"errors"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories"
	"ledger/internal/repositories/cache"
)

// GetTransactionHistory lists the owner's transactions, newest first. An
// owner without a wallet has an empty history.
func (p *Processor) GetTransactionHistory(ctx context.Context, ownerID string) ([]models.TransactionHistory, error) {
	history := []models.TransactionHistory{}

	wallet, err := p.repo.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return history, nil
		}
		return nil, domainerrors.Internal("failed to look up wallet", err)
	}

	txs, err := p.repo.ListTransactionsByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, domainerrors.Internal("failed to list transactions", err)
	}
	for _, tx := range txs {
		history = append(history, models.NewTransactionHistory(tx))
	}
	return history, nil
}

// GetTransactionStatus looks up a transaction by reference. Terminal
// statuses never change and are served from the cache once seen.
func (p *Processor) GetTransactionStatus(ctx context.Context, reference string) (*models.DepositStatus, error) {
	key := cache.StatusKey(reference)

	var cached models.DepositStatus
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.log.Warn("status cache read failed", "reference", reference, "error", err)
	}
	if found {
		p.metrics.RecordCacheHit(key)
		return &cached, nil
	}
	p.metrics.RecordCacheMiss(key)

	tx, err := p.repo.GetTransactionByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, domainerrors.Internal("failed to get transaction", err)
	}

	status := &models.DepositStatus{Reference: tx.Reference, Status: tx.Status, Amount: tx.Amount}
	if tx.Status.Terminal() {
		if err := p.cache.SetWithTTL(ctx, key, status, p.statusTTL); err != nil {
			p.log.Warn("status cache write failed", "reference", reference, "error", err)
		}
	}
	return status, nil
}
