package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/models"
	"ledger/internal/repositories"
)

func seedWallet(t *testing.T, s *Store, owner, number string, balance int64) *models.Wallet {
	t.Helper()
	w := &models.Wallet{OwnerID: owner, WalletNumber: number, Balance: balance, Currency: "NGN"}
	require.NoError(t, s.CreateWallet(context.Background(), w))
	return w
}

func TestCreateWalletUniqueness(t *testing.T) {
	s := NewStore()
	seedWallet(t, s, "owner-1", "1000000000001", 0)

	err := s.CreateWallet(context.Background(), &models.Wallet{OwnerID: "owner-1", WalletNumber: "1000000000002"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	err = s.CreateWallet(context.Background(), &models.Wallet{OwnerID: "owner-2", WalletNumber: "1000000000001"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	exists, err := s.WalletNumberExists(context.Background(), "1000000000001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDuplicateReferenceRejected(t *testing.T) {
	s := NewStore()
	w := seedWallet(t, s, "owner-1", "1000000000001", 0)

	tx := &models.Transaction{WalletID: w.ID, Amount: 100, Type: models.TransactionTypeDeposit, Reference: "REF-1"}
	require.NoError(t, s.CreateTransaction(context.Background(), tx))
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	dup := &models.Transaction{WalletID: w.ID, Amount: 100, Type: models.TransactionTypeDeposit, Reference: "REF-1"}
	assert.ErrorIs(t, s.CreateTransaction(context.Background(), dup), repositories.ErrDuplicateKey)
}

func TestExecuteInTransactionCommitsAllWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWallet(t, s, "owner-1", "1000000000001", 1000)

	err := s.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		locked, err := tx.LockWallet(ctx, w.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateWalletBalance(ctx, w.ID, locked.Balance-300); err != nil {
			return err
		}
		// staged writes are visible inside the unit
		again, err := tx.LockWallet(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(700), again.Balance)
		return tx.CreateTransactions(ctx, &models.Transaction{
			WalletID: w.ID, Amount: 300, Type: models.TransactionTypeTransfer,
			Status: models.TransactionStatusSuccess, Reference: "TRF-1-DB",
		})
	})
	require.NoError(t, err)

	got, err := s.GetWalletByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.Balance)

	tx, err := s.GetTransactionByReference(ctx, "TRF-1-DB")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
}

func TestExecuteInTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWallet(t, s, "owner-1", "1000000000001", 1000)
	boom := errors.New("boom")

	err := s.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		if _, err := tx.LockWallet(ctx, w.ID); err != nil {
			return err
		}
		require.NoError(t, tx.UpdateWalletBalance(ctx, w.ID, 0))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetWalletByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Balance)
}

func TestExecuteInTransactionReleasesLocksOnPanic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWallet(t, s, "owner-1", "1000000000001", 1000)

	assert.Panics(t, func() {
		_ = s.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
			_, _ = tx.LockWallet(ctx, w.ID)
			panic("handler bug")
		})
	})

	lockCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	err := s.ExecuteInTransaction(lockCtx, func(tx repositories.LedgerTx) error {
		_, err := tx.LockWallet(lockCtx, w.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestLockWaitsForHolderAndHonoursContext(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWallet(t, s, "owner-1", "1000000000001", 1000)

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
			_, err := tx.LockWallet(ctx, w.ID)
			close(held)
			<-done
			return err
		})
	}()
	<-held

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := s.ExecuteInTransaction(waitCtx, func(tx repositories.LedgerTx) error {
		_, err := tx.LockWallet(waitCtx, w.ID)
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(done)
}

func TestUpdateBalanceRequiresLockAndNonNegative(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWallet(t, s, "owner-1", "1000000000001", 10)

	err := s.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		return tx.UpdateWalletBalance(ctx, w.ID, 5)
	})
	assert.ErrorIs(t, err, errNotLocked)

	err = s.ExecuteInTransaction(ctx, func(tx repositories.LedgerTx) error {
		if _, err := tx.LockWallet(ctx, w.ID); err != nil {
			return err
		}
		return tx.UpdateWalletBalance(ctx, w.ID, -1)
	})
	assert.ErrorIs(t, err, repositories.ErrNegativeAmount)
}

func TestListTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	w := seedWallet(t, s, "owner-1", "1000000000001", 0)
	other := seedWallet(t, s, "owner-2", "1000000000002", 0)

	for _, ref := range []string{"REF-A", "REF-B", "REF-C"} {
		require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
			WalletID: w.ID, Amount: 100, Type: models.TransactionTypeDeposit, Reference: ref,
		}))
	}
	require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
		WalletID: other.ID, Amount: 100, Type: models.TransactionTypeDeposit, Reference: "REF-X",
	}))

	txs, err := s.ListTransactionsByWallet(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "REF-C", txs[0].Reference)
	assert.Equal(t, "REF-A", txs[2].Reference)

	empty, err := s.ListTransactionsByWallet(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAPIKeyLookup(t *testing.T) {
	s := NewStore()
	s.AddAPIKey(models.APIKey{OwnerID: "owner-1", KeyHash: "abc", Permissions: "read"})

	key, err := s.GetAPIKeyByHash(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", key.OwnerID)

	_, err = s.GetAPIKeyByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
}
