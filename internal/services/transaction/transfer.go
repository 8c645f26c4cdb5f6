package transaction

import (
	"bytes"
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories"
)

// Transfer moves amount from the principal's wallet to the wallet with the
// given number. Both legs and both balance changes commit together.
func (p *Processor) Transfer(ctx context.Context, principal models.Principal, recipientWalletNumber string, amount int64) (result *TransferResult, err error) {
	ctx, span, started := p.start(ctx, "transfer", attribute.Int64("amount", amount))
	defer func() { p.finish(span, "transfer", started, err) }()

	if principal == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if err := p.validateAmount(amount, p.minTransfer); err != nil {
		return nil, err
	}

	sender, err := p.repo.GetWalletByOwner(ctx, principal.Owner())
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, domainerrors.Internal("failed to look up sender wallet", err)
	}
	recipient, err := p.repo.GetWalletByNumber(ctx, recipientWalletNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecipientNotFound
		}
		return nil, domainerrors.Internal("failed to look up recipient wallet", err)
	}
	if sender.ID == recipient.ID {
		return nil, domainerrors.ErrSelfTransfer
	}

	base, err := p.newReference(TransferReferencePrefix)
	if err != nil {
		return nil, domainerrors.Internal("failed to generate reference", err)
	}
	debitRef, creditRef := base+DebitSuffix, base+CreditSuffix
	span.SetAttributes(attribute.String("reference", base))

	err = p.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		locked, err := lockInOrder(ctx, tx, sender.ID, recipient.ID)
		if err != nil {
			return err
		}
		from, to := locked[sender.ID], locked[recipient.ID]

		if from.Balance < amount {
			return domainerrors.ErrInsufficientFunds
		}
		if to.Balance > math.MaxInt64-amount {
			return domainerrors.Internal("recipient balance overflow", nil)
		}

		if err := tx.UpdateWalletBalance(ctx, from.ID, from.Balance-amount); err != nil {
			return err
		}
		if err := tx.UpdateWalletBalance(ctx, to.ID, to.Balance+amount); err != nil {
			return err
		}
		return tx.CreateTransactions(ctx,
			&models.Transaction{
				WalletID:  from.ID,
				Amount:    amount,
				Type:      models.TransactionTypeTransfer,
				Status:    models.TransactionStatusSuccess,
				Reference: debitRef,
				Metadata:  models.DebitMetadata(to.ID),
			},
			&models.Transaction{
				WalletID:  to.ID,
				Amount:    amount,
				Type:      models.TransactionTypeTransfer,
				Status:    models.TransactionStatusSuccess,
				Reference: creditRef,
				Metadata:  models.CreditMetadata(from.ID),
			},
		)
	})
	if err != nil {
		return nil, classify("transfer failed", err)
	}

	p.balances.InvalidateBalance(ctx, sender.OwnerID, recipient.OwnerID)
	p.metrics.RecordTransaction(string(models.TransactionTypeTransfer), amount)
	p.log.Info("transfer completed", "debit_reference", debitRef, "credit_reference", creditRef, "amount", amount)

	return &TransferResult{
		Status:          "success",
		Message:         "Transfer completed",
		DebitReference:  debitRef,
		CreditReference: creditRef,
	}, nil
}

// lockInOrder locks the wallets in ascending id byte order so two transfers
// over the same pair can never wait on each other in a cycle.
func lockInOrder(ctx context.Context, tx repositories.LedgerTx, a, b uuid.UUID) (map[uuid.UUID]*models.Wallet, error) {
	first, second := a, b
	if bytes.Compare(a[:], b[:]) > 0 {
		first, second = b, a
	}

	locked := make(map[uuid.UUID]*models.Wallet, 2)
	for _, id := range []uuid.UUID{first, second} {
		w, err := tx.LockWallet(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				return nil, domainerrors.ErrWalletNotFound
			}
			return nil, err
		}
		locked[id] = w
	}
	return locked, nil
}
