package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wallet holds one account's balance in minor currency units.
type Wallet struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      string    `gorm:"uniqueIndex;not null" json:"owner_id"`
	Balance      int64     `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	Currency     string    `gorm:"not null;default:'NGN'" json:"currency"`
	WalletNumber string    `gorm:"uniqueIndex;not null" json:"wallet_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Balance < 0 {
		return errors.New("wallet balance cannot be negative")
	}
	return nil
}
