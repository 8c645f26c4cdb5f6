package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "ledger/internal/errors"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in    string
		want  int64
		valid bool
	}{
		{"5000", 5000, true},
		{"100", 100, true},
		{"0", 0, false},
		{"-10", 0, false},
		{"10.5", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := New()
			got := v.Amount("amount", json.Number(tt.in))
			assert.Equal(t, tt.valid, v.Valid())
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

type transferInput struct {
	WalletNumber string `json:"wallet_number" validate:"required,numeric,len=13"`
	Note         string `json:"note" validate:"max=5"`
}

func TestStruct(t *testing.T) {
	v := New()
	v.Struct(transferInput{WalletNumber: "12ab", Note: "too long"})
	require.False(t, v.Valid())
	assert.Equal(t, "must contain only digits", v.Errors["wallet_number"])
	assert.Equal(t, "must not be longer than 5", v.Errors["note"])

	v = New()
	v.Struct(transferInput{WalletNumber: "1234567890123"})
	assert.True(t, v.Valid())
	assert.NoError(t, v.Err())
}

func TestErr(t *testing.T) {
	v := New()
	v.Check(false, "wallet_number", "must not be empty")
	v.Check(true, "note", "never recorded")
	v.Check(false, "amount", "must be at least 100")
	v.AddError("amount", "ignored second message")

	err := v.Err()
	require.Error(t, err)
	assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))
	assert.Equal(t, "amount must be at least 100; wallet_number must not be empty", err.Error())
}
