package transaction

import (
	"context"
	"errors"
	"math"

	"go.opentelemetry.io/otel/attribute"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories"
	"ledger/internal/services/gateway"
)

// ProcessNotification authenticates and applies a gateway notification. The
// gateway delivers at least once; a deposit is credited at most once.
func (p *Processor) ProcessNotification(ctx context.Context, signature string, payload []byte) (result *NotificationResult, err error) {
	ctx, span, started := p.start(ctx, "process_notification", attribute.String("gateway", p.gateway.Name()))
	defer func() { p.finish(span, "process_notification", started, err) }()

	if !p.gateway.VerifySignature(signature, payload) {
		p.log.Warn("rejected notification with invalid signature", "gateway", p.gateway.Name())
		return nil, domainerrors.ErrInvalidSignature
	}

	n, err := p.gateway.ParseNotification(payload)
	if err != nil {
		return nil, domainerrors.ErrInvalidPayload.Wrap(err)
	}
	span.SetAttributes(attribute.String("event", n.Event), attribute.String("reference", n.Reference))

	if n.Kind != gateway.KindChargeSucceeded {
		p.log.Debug("ignoring notification", "event", n.Event, "reference", n.Reference)
		return &NotificationResult{Status: true, Outcome: OutcomeIgnored}, nil
	}

	outcome, err := p.applyCharge(ctx, n)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("outcome", string(outcome)))
	p.metrics.RecordOperationResult("notification", string(outcome))

	return &NotificationResult{Status: outcome != OutcomeAmountMismatch, Outcome: outcome}, nil
}

func (p *Processor) applyCharge(ctx context.Context, n *gateway.Notification) (Outcome, error) {
	deposit, err := p.repo.GetTransactionByReference(ctx, n.Reference)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			p.log.Warn("notification for unknown reference", "reference", n.Reference)
			return OutcomeUnknownReference, nil
		}
		return "", domainerrors.Internal("failed to look up transaction", err)
	}
	if deposit.Type != models.TransactionTypeDeposit {
		p.log.Warn("notification references a non-deposit transaction", "reference", n.Reference, "type", deposit.Type)
		return OutcomeIgnored, nil
	}

	var (
		outcome Outcome
		ownerID string
	)
	err = p.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		wallet, err := tx.LockWallet(ctx, deposit.WalletID)
		if err != nil {
			return err
		}

		// Re-read under the wallet lock; a concurrent delivery may have
		// settled the deposit while this one waited.
		current, err := tx.GetTransactionByReference(ctx, n.Reference)
		if err != nil {
			return err
		}
		if current.Status != models.TransactionStatusPending {
			outcome = OutcomeDuplicate
			return nil
		}

		if n.Amount != current.Amount {
			outcome = OutcomeAmountMismatch
			return tx.UpdateTransactionStatus(ctx, current.ID, models.TransactionStatusFailed)
		}

		if wallet.Balance > math.MaxInt64-current.Amount {
			return domainerrors.Internal("wallet balance overflow", nil)
		}
		if err := tx.UpdateTransactionStatus(ctx, current.ID, models.TransactionStatusSuccess); err != nil {
			return err
		}
		if err := tx.UpdateWalletBalance(ctx, wallet.ID, wallet.Balance+current.Amount); err != nil {
			return err
		}
		outcome = OutcomeCredited
		ownerID = wallet.OwnerID
		return nil
	})
	if err != nil {
		return "", classify("failed to apply notification", err)
	}

	switch outcome {
	case OutcomeCredited:
		p.balances.InvalidateBalance(ctx, ownerID)
		p.metrics.RecordTransaction(string(models.TransactionTypeDeposit), deposit.Amount)
		p.log.Info("wallet credited", "reference", n.Reference, "amount", deposit.Amount)
	case OutcomeAmountMismatch:
		p.log.Error("deposit amount mismatch, marked failed",
			"reference", n.Reference, "expected", deposit.Amount, "received", n.Amount)
	case OutcomeDuplicate:
		p.log.Info("notification already processed", "reference", n.Reference)
	}
	return outcome, nil
}
