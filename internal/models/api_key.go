package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey is a non-interactive credential. Keys are issued elsewhere; the
// ledger only resolves them.
type APIKey struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     string    `gorm:"index;not null"`
	Email       string    `gorm:"not null;default:''"`
	Name        string    `gorm:"default:'Unnamed Key'"`
	KeyHash     string    `gorm:"uniqueIndex;not null"`
	Permissions string    `gorm:"not null"` // comma separated scopes
	ExpiresAt   time.Time `gorm:"not null"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

func (k *APIKey) Scopes() []string {
	var scopes []string
	for _, p := range strings.Split(k.Permissions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			scopes = append(scopes, p)
		}
	}
	return scopes
}

// Usable reports whether the key may authenticate at now.
func (k *APIKey) Usable(now time.Time) bool {
	return k.IsActive && now.Before(k.ExpiresAt)
}
