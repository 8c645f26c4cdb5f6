package transaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/repositories/cache"
	"ledger/internal/services/wallet"
)

// gatedCache holds the first write to one key until released.
type gatedCache struct {
	cache.Cache

	key     string
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newGatedCache(inner cache.Cache, key string) *gatedCache {
	return &gatedCache{
		Cache:   inner,
		key:     key,
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == g.key {
		g.once.Do(func() {
			close(g.reached)
			<-g.release
		})
	}
	return g.Cache.SetWithTTL(ctx, key, value, ttl)
}

func TestBalanceReadRacingCreditIsNotCachedStale(t *testing.T) {
	gate := newGatedCache(cache.NewLocalCache(time.Minute), cache.BalanceKey("alice"))
	h := newHarnessWith(t, harnessOptions{cache: gate})
	alice, _ := h.newOwner(t, "alice")

	type result struct {
		balance *wallet.Balance
		err     error
	}
	done := make(chan result, 1)
	go func() {
		b, err := h.wallets.GetBalance(context.Background(), "alice")
		done <- result{b, err}
	}()

	select {
	case <-gate.reached:
	case <-time.After(5 * time.Second):
		t.Fatal("balance read never reached the cache write")
	}

	// The reader has loaded zero and is parked before caching it.
	h.fund(t, alice, 5000)
	close(gate.release)

	first := <-done
	require.NoError(t, first.err)
	assert.Equal(t, int64(0), first.balance.Balance)

	balance, err := h.wallets.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance.Balance)
	assert.Equal(t, int64(5000), h.balance(t, "alice"))
}
