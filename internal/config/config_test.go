package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "paystack", cfg.Gateway.Provider)
	assert.Equal(t, 15*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, int64(100), cfg.Ledger.MinDepositAmount)
	assert.Equal(t, int64(100), cfg.Ledger.MinTransferAmount)
	assert.Equal(t, "NGN", cfg.Ledger.DefaultCurrency)
	assert.Equal(t, "host=localhost user=postgres password=postgres dbname=ledger port=5432 sslmode=disable", cfg.Database.DSN())
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		ok   bool
	}{
		{"missing jwt secret", map[string]string{"PAYSTACK_SECRET_KEY": "sk"}, false},
		{"missing paystack key", map[string]string{"JWT_SECRET": "s"}, false},
		{"stripe complete", map[string]string{"JWT_SECRET": "s", "PAYMENT_GATEWAY": "stripe", "STRIPE_SECRET_KEY": "sk", "STRIPE_WEBHOOK_SECRET": "wh"}, true},
		{"stripe without webhook secret", map[string]string{"JWT_SECRET": "s", "PAYMENT_GATEWAY": "stripe", "STRIPE_SECRET_KEY": "sk"}, false},
		{"razorpay complete", map[string]string{"JWT_SECRET": "s", "PAYMENT_GATEWAY": "razorpay", "RAZORPAY_KEY": "k", "RAZORPAY_SECRET": "s", "RAZORPAY_WEBHOOK_SECRET": "w"}, true},
		{"unknown gateway", map[string]string{"JWT_SECRET": "s", "PAYMENT_GATEWAY": "paypal"}, false},
		{"non-positive minimum", map[string]string{"JWT_SECRET": "s", "PAYSTACK_SECRET_KEY": "sk", "MIN_TRANSFER_AMOUNT": "0"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("PAYSTACK_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.NoError(t, err)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
