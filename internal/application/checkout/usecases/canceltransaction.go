package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type CancelTransactionCommand struct {
	TransactionSID string
	Reason         transaction.Reason
}

type CancelTransactionUseCase struct {
	txnRepo   transaction.Repository
	ledger    quota.Ledger
	gateway   pixgateway.Gateway
	runner    TransactionRunner
	tracker   ExpirationTracker
	publisher QuotaChangePublisher
	metrics   Metrics
	config    Config
	logger    logger.Interface
}

func NewCancelTransactionUseCase(
	txnRepo transaction.Repository,
	ledger quota.Ledger,
	gateway pixgateway.Gateway,
	runner TransactionRunner,
	tracker ExpirationTracker,
	publisher QuotaChangePublisher,
	metrics Metrics,
	config Config,
	logger logger.Interface,
) *CancelTransactionUseCase {
	return &CancelTransactionUseCase{
		txnRepo:   txnRepo,
		ledger:    ledger,
		gateway:   gateway,
		runner:    runner,
		tracker:   tracker,
		publisher: publisher,
		metrics:   metricsOrNop(metrics),
		config:    config,
		logger:    logger,
	}
}

// Execute closes a pending transaction and returns its quotas to the ledger.
// The provider cancel is best effort; local reclamation always proceeds.
// ReasonExpired yields status expired, every other reason cancelled.
func (uc *CancelTransactionUseCase) Execute(ctx context.Context, cmd CancelTransactionCommand) (*transaction.Transaction, error) {
	txn, _, err := uc.close(ctx, cmd)
	return txn, err
}

// close reports whether this call performed the transition.
func (uc *CancelTransactionUseCase) close(ctx context.Context, cmd CancelTransactionCommand) (*transaction.Transaction, bool, error) {
	if cmd.Reason == "" {
		cmd.Reason = transaction.ReasonUserRequested
	}
	if !cmd.Reason.IsValid() {
		return nil, false, errors.NewValidationError("invalid cancel reason", string(cmd.Reason))
	}

	txn, err := uc.txnRepo.GetBySID(ctx, cmd.TransactionSID)
	if err != nil {
		return nil, false, err
	}

	if txn.Status().IsClosed() {
		return txn, false, nil
	}
	if txn.Status() == transaction.StatusApproved {
		txn, err = uc.approvedOutcome(txn, cmd.Reason)
		return txn, false, err
	}

	uc.cancelCharge(ctx, txn)

	if err := txn.Close(cmd.Reason); err != nil {
		return nil, false, errors.NewConflictError("transaction cannot be cancelled", err.Error())
	}

	var won bool
	err = uc.runner.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := uc.txnRepo.TransitionFromPending(ctx, txn)
		if err != nil || !ok {
			return err
		}
		won = true
		_, err = uc.ledger.Release(ctx, txn.SID())
		return err
	})
	if err != nil {
		uc.logger.Errorw("failed to cancel transaction", "error", err, "transaction_sid", txn.SID())
		return nil, false, errors.NewPersistenceError("failed to cancel transaction", err)
	}

	if !won {
		current, err := uc.txnRepo.GetBySID(ctx, txn.SID())
		if err != nil {
			return nil, false, err
		}
		uc.logger.Infow("cancellation lost race",
			"transaction_sid", txn.SID(),
			"reason", cmd.Reason,
			"status", current.Status(),
		)
		if current.Status() == transaction.StatusApproved {
			current, err = uc.approvedOutcome(current, cmd.Reason)
			return current, false, err
		}
		return current, false, nil
	}

	if uc.tracker != nil {
		uc.tracker.Untrack(txn.SID())
	}
	publishQuotaChange(ctx, uc.publisher, uc.logger, txn, quota.StatusAvailable)
	uc.metrics.TransactionClosed(txn.Status())

	uc.logger.Infow("transaction closed",
		"transaction_sid", txn.SID(),
		"status", txn.Status(),
		"reason", cmd.Reason,
		"quotas", txn.QuotaCount(),
	)
	return txn, true, nil
}

// approvedOutcome: a paid transaction beats the deadline silently, but an explicit cancel is a conflict.
func (uc *CancelTransactionUseCase) approvedOutcome(txn *transaction.Transaction, reason transaction.Reason) (*transaction.Transaction, error) {
	if reason == transaction.ReasonExpired {
		return txn, nil
	}
	return nil, errors.NewConflictError("transaction is already paid", txn.SID())
}

func (uc *CancelTransactionUseCase) cancelCharge(ctx context.Context, txn *transaction.Transaction) {
	if uc.gateway == nil || !txn.HasCharge() {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, uc.config.gatewayTimeout())
	defer cancel()

	if err := uc.gateway.CancelCharge(callCtx, *txn.ExternalPaymentID()); err != nil {
		uc.logger.Warnw("gateway cancel failed, releasing quotas anyway",
			"error", err,
			"transaction_sid", txn.SID(),
			"payment_id", *txn.ExternalPaymentID(),
		)
	}
}
