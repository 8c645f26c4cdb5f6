package transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"ledger/internal/telemetry"
)

func TestCommittedMoneyMovementIsExported(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := telemetry.NewOtelMetricsWithMeter(provider.Meter("ledger-test"))
	require.NoError(t, err)

	h := newHarnessWith(t, harnessOptions{metrics: metrics})
	alice, _ := h.newOwner(t, "alice")
	_, bobWallet := h.newOwner(t, "bob")
	h.fund(t, alice, 5000)

	_, err = h.processor.Transfer(context.Background(), alice, bobWallet.WalletNumber, 2000)
	require.NoError(t, err)
	// A rejected transfer moves nothing and must not count.
	_, err = h.processor.Transfer(context.Background(), alice, bobWallet.WalletNumber, 999999)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	volume := map[string]int64{}
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "ledger.transaction.volume" {
				continue
			}
			found = true
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("type")
				volume[v.AsString()] += dp.Value
			}
		}
	}
	require.True(t, found, "ledger.transaction.volume was not exported")
	assert.Equal(t, map[string]int64{"deposit": 5000, "transfer": 2000}, volume)
}
