package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/errors"
)

func TestCancelTransactionUseCase_Execute_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	started, err := f.start.Execute(ctx, f.checkoutCommand("00001", "00002", "00003"))
	require.NoError(t, err)
	sid := started.Transaction.SID()

	txn, err := f.cancel.Execute(ctx, CancelTransactionCommand{
		TransactionSID: sid,
		Reason:         transaction.ReasonUserRequested,
	})
	require.NoError(t, err)

	assert.Equal(t, transaction.StatusCancelled, txn.Status())
	for _, n := range []string{"00001", "00002", "00003"} {
		assert.Equal(t, quota.StatusAvailable, f.ledger.status(n))
		assert.Empty(t, f.ledger.holder(n))
	}
	assert.Equal(t, []string{"pay_" + sid}, f.gateway.cancelled)
	assert.False(t, f.tracker.isTracked(sid))
	assert.Equal(t, quota.StatusAvailable, f.publisher.last().Status)
}

func TestCancelTransactionUseCase_Execute_GatewayErrorSwallowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	started, err := f.start.Execute(ctx, f.checkoutCommand("00004"))
	require.NoError(t, err)
	f.gateway.CancelChargeFunc = func(ctx context.Context, paymentID string) error {
		return stderrors.New("provider down")
	}

	txn, err := f.cancel.Execute(ctx, CancelTransactionCommand{TransactionSID: started.Transaction.SID()})

	require.NoError(t, err)
	assert.Equal(t, transaction.StatusCancelled, txn.Status())
	assert.Equal(t, quota.StatusAvailable, f.ledger.status("00004"))
	assert.True(t, f.log.has("warn", "gateway cancel failed, releasing quotas anyway"))
}

func TestCancelTransactionUseCase_Execute_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	started, err := f.start.Execute(ctx, f.checkoutCommand("00001"))
	require.NoError(t, err)
	cmd := CancelTransactionCommand{TransactionSID: started.Transaction.SID()}

	_, err = f.cancel.Execute(ctx, cmd)
	require.NoError(t, err)
	txn, err := f.cancel.Execute(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, transaction.StatusCancelled, txn.Status())
	assert.Len(t, f.gateway.cancelled, 1)
	assert.Len(t, f.metrics.closed, 1)
}

func TestCancelTransactionUseCase_Execute_ApprovedConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	started, err := f.start.Execute(ctx, f.checkoutCommand("00001"))
	require.NoError(t, err)
	sid := started.Transaction.SID()
	_, err = f.confirm.Execute(ctx, ConfirmPaymentCommand{TransactionSID: sid})
	require.NoError(t, err)

	_, err = f.cancel.Execute(ctx, CancelTransactionCommand{TransactionSID: sid})
	assert.True(t, errors.IsConflictError(err))

	txn, err := f.cancel.Execute(ctx, CancelTransactionCommand{TransactionSID: sid, Reason: transaction.ReasonExpired})
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusApproved, txn.Status())
	assert.Equal(t, quota.StatusSold, f.ledger.status("00001"))
}

func TestCancelTransactionUseCase_Execute_InvalidReason(t *testing.T) {
	f := newFixture()

	_, err := f.cancel.Execute(context.Background(), CancelTransactionCommand{
		TransactionSID: "txn_x",
		Reason:         "bored",
	})

	assert.True(t, errors.IsValidationError(err))
}
