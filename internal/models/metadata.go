package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type MetadataDirection string

const (
	MetadataDebit  MetadataDirection = "debit"
	MetadataCredit MetadataDirection = "credit"
)

// TransactionMetadata tags one leg of a transfer with its counterparty.
// Exactly one of ReceiverWallet (debit leg) or SenderWallet (credit leg) is set.
type TransactionMetadata struct {
	Type           MetadataDirection `json:"type"`
	ReceiverWallet *uuid.UUID        `json:"receiver_wallet,omitempty"`
	SenderWallet   *uuid.UUID        `json:"sender_wallet,omitempty"`
}

func DebitMetadata(receiver uuid.UUID) *TransactionMetadata {
	return &TransactionMetadata{Type: MetadataDebit, ReceiverWallet: &receiver}
}

func CreditMetadata(sender uuid.UUID) *TransactionMetadata {
	return &TransactionMetadata{Type: MetadataCredit, SenderWallet: &sender}
}

// Value implements the driver.Valuer interface
func (m *TransactionMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *TransactionMetadata) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}
	return json.Unmarshal(data, m)
}
