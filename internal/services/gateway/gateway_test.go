package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/config"
	"ledger/internal/logging"
)

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.GatewayConfig{Timeout: time.Second}

	for _, provider := range []string{ProviderPaystack, ProviderStripe, ProviderRazorpay} {
		cfg.Provider = provider
		gw, err := New(cfg, "NGN", logging.Discard())
		require.NoError(t, err)
		assert.Equal(t, provider, gw.Name())
		assert.NotEmpty(t, gw.SignatureHeader())
	}

	cfg.Provider = "paypal"
	_, err := New(cfg, "NGN", logging.Discard())
	assert.Error(t, err)
}
