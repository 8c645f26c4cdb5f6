package transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories/cache"
)

func TestGetTransactionHistory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, _ := h.newOwner(t, "alice")
	_, bobWallet := h.newOwner(t, "bob")
	h.fund(t, alice, 5000)

	res, err := h.processor.Transfer(ctx, alice, bobWallet.WalletNumber, 1200)
	require.NoError(t, err)

	history, err := h.processor.GetTransactionHistory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, res.DebitReference, history[0].Reference)
	assert.Equal(t, models.TransactionTypeTransfer, history[0].Type)
	assert.Equal(t, models.MetadataDebit, history[0].Metadata.Type)
	assert.Equal(t, models.TransactionTypeDeposit, history[1].Type)
	assert.Nil(t, history[1].Metadata)

	bobHistory, err := h.processor.GetTransactionHistory(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobHistory, 1)
	assert.Equal(t, res.CreditReference, bobHistory[0].Reference)

	empty, err := h.processor.GetTransactionHistory(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetTransactionStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, _ := h.newOwner(t, "alice")

	session, err := h.processor.InitiateDeposit(ctx, alice, 5000)
	require.NoError(t, err)

	status, err := h.processor.GetTransactionStatus(ctx, session.Reference)
	require.NoError(t, err)
	assert.Equal(t, &models.DepositStatus{Reference: session.Reference, Status: models.TransactionStatusPending, Amount: 5000}, status)

	// pending statuses are not cached
	var cached models.DepositStatus
	found, err := h.processor.cache.Get(ctx, cache.StatusKey(session.Reference), &cached)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = h.notify(session.Reference, 5000)
	require.NoError(t, err)

	status, err = h.processor.GetTransactionStatus(ctx, session.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, status.Status)

	found, err = h.processor.cache.Get(ctx, cache.StatusKey(session.Reference), &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.TransactionStatusSuccess, cached.Status)

	_, err = h.processor.GetTransactionStatus(ctx, "REF-0-unknown")
	assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
}
