package transaction

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories"
	"ledger/internal/services/gateway"
)

// InitiateDeposit records a pending deposit and starts a hosted payment for
// it. A gateway failure leaves the deposit pending and credits nothing.
func (p *Processor) InitiateDeposit(ctx context.Context, principal models.Principal, amount int64) (session *gateway.Session, err error) {
	ctx, span, started := p.start(ctx, "initiate_deposit", attribute.Int64("amount", amount))
	defer func() { p.finish(span, "initiate_deposit", started, err) }()

	if principal == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if err := p.validateAmount(amount, p.minDeposit); err != nil {
		return nil, err
	}

	wallet, err := p.repo.GetWalletByOwner(ctx, principal.Owner())
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domainerrors.Internal("wallet missing for authenticated owner", err)
		}
		return nil, domainerrors.Internal("failed to look up wallet", err)
	}

	reference, err := p.newReference(DepositReferencePrefix)
	if err != nil {
		return nil, domainerrors.Internal("failed to generate reference", err)
	}
	span.SetAttributes(attribute.String("reference", reference))

	if _, err := p.repo.GetTransactionByReference(ctx, reference); err == nil {
		return nil, domainerrors.ErrDuplicateReference
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, domainerrors.Internal("failed to check reference", err)
	}

	deposit := &models.Transaction{
		WalletID:  wallet.ID,
		Amount:    amount,
		Type:      models.TransactionTypeDeposit,
		Status:    models.TransactionStatusPending,
		Reference: reference,
	}
	if err := p.repo.CreateTransaction(ctx, deposit); err != nil {
		return nil, classify("failed to record deposit", err)
	}

	gwCtx, cancel := context.WithTimeout(ctx, p.gatewayTimeout)
	defer cancel()
	session, err = p.gateway.StartPayment(gwCtx, principal.EmailAddress(), amount, reference)
	if err != nil {
		p.log.Error("payment gateway initialization failed",
			"reference", reference, "gateway", p.gateway.Name(), "error", err)
		return nil, domainerrors.Upstream("payment gateway initialization failed", err)
	}
	if session == nil {
		p.log.Error("payment gateway returned no session", "reference", reference, "gateway", p.gateway.Name())
		return nil, domainerrors.Upstream("payment gateway returned no session", nil)
	}
	session.Reference = reference

	p.log.Info("deposit initiated", "reference", reference, "owner_id", principal.Owner(), "amount", amount)
	return session, nil
}
