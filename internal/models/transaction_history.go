package models

import "time"

// TransactionHistory is the public view of one transaction in a wallet's history.
type TransactionHistory struct {
	Type      TransactionType      `json:"type"`
	Amount    int64                `json:"amount"`
	Status    TransactionStatus    `json:"status"`
	Reference string               `json:"reference"`
	CreatedAt time.Time            `json:"created_at"`
	Metadata  *TransactionMetadata `json:"metadata,omitempty"`
}

func NewTransactionHistory(t Transaction) TransactionHistory {
	return TransactionHistory{
		Type:      t.Type,
		Amount:    t.Amount,
		Status:    t.Status,
		Reference: t.Reference,
		CreatedAt: t.CreatedAt,
		Metadata:  t.Metadata,
	}
}

// DepositStatus is the point-lookup view of a transaction.
type DepositStatus struct {
	Reference string            `json:"reference"`
	Status    TransactionStatus `json:"status"`
	Amount    int64             `json:"amount"`
}
