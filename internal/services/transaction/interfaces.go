package transaction

import (
	"context"

	"ledger/internal/models"
	"ledger/internal/services/gateway"
)

// Service is the ledger transaction engine.
type Service interface {
	InitiateDeposit(ctx context.Context, principal models.Principal, amount int64) (*gateway.Session, error)
	ProcessNotification(ctx context.Context, signature string, payload []byte) (*NotificationResult, error)
	Transfer(ctx context.Context, principal models.Principal, recipientWalletNumber string, amount int64) (*TransferResult, error)
	GetTransactionHistory(ctx context.Context, ownerID string) ([]models.TransactionHistory, error)
	GetTransactionStatus(ctx context.Context, reference string) (*models.DepositStatus, error)
}

// BalanceInvalidator drops cached balances after a commit changed them.
type BalanceInvalidator interface {
	InvalidateBalance(ctx context.Context, ownerIDs ...string)
}

type Outcome string

const (
	OutcomeCredited         Outcome = "credited"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeUnknownReference Outcome = "unknown_reference"
	OutcomeAmountMismatch   Outcome = "amount_mismatch"
)

// NotificationResult acknowledges a gateway notification. Status is false
// only when the notification was rejected for an amount mismatch.
type NotificationResult struct {
	Status  bool    `json:"status"`
	Outcome Outcome `json:"outcome"`
}

type TransferResult struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	DebitReference  string `json:"debit_reference"`
	CreditReference string `json:"credit_reference"`
}
