package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeTransfer TransactionType = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

// Transaction is one balance-affecting event on a single wallet. Only Status
// changes after creation.
type Transaction struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID  uuid.UUID            `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Wallet    *Wallet              `gorm:"foreignKey:WalletID" json:"-"`
	Amount    int64                `gorm:"not null;check:amount > 0" json:"amount"`
	Type      TransactionType      `gorm:"type:varchar(16);not null" json:"type"`
	Status    TransactionStatus    `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Reference string               `gorm:"uniqueIndex;not null" json:"reference"`
	Metadata  *TransactionMetadata `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
