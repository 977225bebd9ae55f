package usecases

import (
	"context"
	"fmt"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// SyncPaymentStatusUseCase implements the polling contract: ask the provider about
// a pending charge and confirm, cancel or expire the transaction when it moved.
type SyncPaymentStatusUseCase struct {
	txnRepo   transaction.Repository
	gateway   pixgateway.Gateway
	confirmer *ConfirmPaymentUseCase
	canceler  *CancelTransactionUseCase
	expirer   *ExpireTransactionsUseCase
	config    Config
	logger    logger.Interface
}

func NewSyncPaymentStatusUseCase(
	txnRepo transaction.Repository,
	gateway pixgateway.Gateway,
	confirmer *ConfirmPaymentUseCase,
	canceler *CancelTransactionUseCase,
	expirer *ExpireTransactionsUseCase,
	config Config,
	logger logger.Interface,
) *SyncPaymentStatusUseCase {
	return &SyncPaymentStatusUseCase{
		txnRepo:   txnRepo,
		gateway:   gateway,
		confirmer: confirmer,
		canceler:  canceler,
		expirer:   expirer,
		config:    config,
		logger:    logger,
	}
}

// Execute syncs one transaction and returns its current state. A provider error
// leaves the transaction untouched; the next poll tries again.
func (uc *SyncPaymentStatusUseCase) Execute(ctx context.Context, sid string) (*transaction.Transaction, error) {
	txn, err := uc.txnRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !txn.Status().IsPending() || !txn.HasCharge() {
		return txn, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.config.gatewayTimeout())
	status, err := uc.gateway.CheckStatus(callCtx, *txn.ExternalPaymentID())
	cancel()
	if err != nil {
		uc.logger.Warnw("failed to check charge status",
			"error", err,
			"transaction_sid", sid,
			"provider", txn.Provider(),
		)
		return uc.expireIfOverdue(ctx, txn)
	}

	switch status {
	case pixgateway.StatusApproved:
		return uc.confirmer.Execute(ctx, ConfirmPaymentCommand{TransactionSID: sid})
	case pixgateway.StatusCancelled:
		return uc.canceler.Execute(ctx, CancelTransactionCommand{
			TransactionSID: sid,
			Reason:         transaction.ReasonGatewayRejected,
		})
	case pixgateway.StatusExpired:
		return uc.canceler.Execute(ctx, CancelTransactionCommand{
			TransactionSID: sid,
			Reason:         transaction.ReasonExpired,
		})
	default:
		return uc.expireIfOverdue(ctx, txn)
	}
}

func (uc *SyncPaymentStatusUseCase) expireIfOverdue(ctx context.Context, txn *transaction.Transaction) (*transaction.Transaction, error) {
	if !txn.IsOverdue(biztime.NowUTC()) {
		return txn, nil
	}
	if _, err := uc.expirer.ExpireOne(ctx, txn.SID()); err != nil {
		return nil, err
	}
	return uc.txnRepo.GetBySID(ctx, txn.SID())
}

// SyncPending polls every pending transaction once. It returns how many left pending.
func (uc *SyncPaymentStatusUseCase) SyncPending(ctx context.Context) (int, error) {
	pending, err := uc.txnRepo.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	moved := 0
	for _, txn := range pending {
		if ctx.Err() != nil {
			return moved, ctx.Err()
		}
		result, err := uc.Execute(ctx, txn.SID())
		if err != nil {
			uc.logger.Warnw("failed to sync transaction", "error", err, "transaction_sid", txn.SID())
			continue
		}
		if !result.Status().IsPending() {
			moved++
		}
	}

	if moved > 0 {
		uc.logger.Infow("payment status sync finished", "pending", len(pending), "moved", moved)
	}
	return moved, nil
}
