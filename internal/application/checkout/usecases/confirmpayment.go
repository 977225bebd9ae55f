package usecases

import (
	"context"
	"time"

	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/goroutine"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type ConfirmPaymentCommand struct {
	TransactionSID string
	// PaidAt defaults to now.
	PaidAt *time.Time
}

type ConfirmPaymentUseCase struct {
	txnRepo    transaction.Repository
	buyerRepo  buyer.Repository
	raffleRepo raffle.Repository
	ledger     quota.Ledger
	runner     TransactionRunner
	tracker    ExpirationTracker
	publisher  QuotaChangePublisher
	notifier   PurchaseNotifier
	metrics    Metrics
	logger     logger.Interface
}

func NewConfirmPaymentUseCase(
	txnRepo transaction.Repository,
	buyerRepo buyer.Repository,
	raffleRepo raffle.Repository,
	ledger quota.Ledger,
	runner TransactionRunner,
	tracker ExpirationTracker,
	publisher QuotaChangePublisher,
	notifier PurchaseNotifier,
	metrics Metrics,
	logger logger.Interface,
) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		txnRepo:    txnRepo,
		buyerRepo:  buyerRepo,
		raffleRepo: raffleRepo,
		ledger:     ledger,
		runner:     runner,
		tracker:    tracker,
		publisher:  publisher,
		notifier:   notifier,
		metrics:    metricsOrNop(metrics),
		logger:     logger,
	}
}

// Execute approves a pending transaction and settles its quotas. Confirming an
// approved transaction is a successful no-op.
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, cmd ConfirmPaymentCommand) (*transaction.Transaction, error) {
	txn, err := uc.txnRepo.GetBySID(ctx, cmd.TransactionSID)
	if err != nil {
		return nil, err
	}

	switch {
	case txn.Status() == transaction.StatusApproved:
		uc.logger.Debugw("transaction already approved", "transaction_sid", txn.SID())
		return txn, nil
	case txn.Status().IsClosed():
		return nil, errors.NewConflictError("transaction is no longer pending", txn.Status().String())
	}

	paidAt := biztime.NowUTC()
	if cmd.PaidAt != nil {
		paidAt = cmd.PaidAt.UTC()
	}
	if err := txn.Approve(paidAt); err != nil {
		return nil, errors.NewConflictError("transaction cannot be approved", err.Error())
	}

	var won bool
	err = uc.runner.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := uc.txnRepo.TransitionFromPending(ctx, txn)
		if err != nil || !ok {
			return err
		}
		won = true
		settled, err := uc.ledger.Settle(ctx, txn.SID(), paidAt)
		if err != nil {
			return err
		}
		if settled != int64(txn.QuotaCount()) {
			uc.logger.Warnw("settled quota count differs from transaction",
				"transaction_sid", txn.SID(),
				"settled", settled,
				"expected", txn.QuotaCount(),
			)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to confirm payment", "error", err, "transaction_sid", txn.SID())
		return nil, errors.NewPersistenceError("failed to confirm payment", err)
	}

	if !won {
		// Someone else moved it first: expiry or a concurrent confirmation.
		current, err := uc.txnRepo.GetBySID(ctx, txn.SID())
		if err != nil {
			return nil, err
		}
		if current.Status() == transaction.StatusApproved {
			return current, nil
		}
		// A payment landing after expiry is reported, never applied: the quotas may be resold already.
		uc.logger.Warnw("payment confirmation lost race",
			"transaction_sid", txn.SID(),
			"status", current.Status(),
		)
		return nil, errors.NewConflictError("transaction is no longer pending", current.Status().String())
	}

	if uc.tracker != nil {
		uc.tracker.Untrack(txn.SID())
	}
	publishQuotaChange(ctx, uc.publisher, uc.logger, txn, quota.StatusSold)
	uc.metrics.TransactionClosed(transaction.StatusApproved)

	uc.logger.Infow("payment confirmed",
		"transaction_sid", txn.SID(),
		"quotas", txn.QuotaCount(),
		"amount", txn.Amount().String(),
	)

	uc.notify(ctx, txn)
	return txn, nil
}

func (uc *ConfirmPaymentUseCase) notify(ctx context.Context, txn *transaction.Transaction) {
	if uc.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	goroutine.SafeGo(uc.logger, "purchase-notification", func() {
		b, err := uc.buyerRepo.GetByID(ctx, txn.BuyerID())
		if err != nil {
			uc.logger.Warnw("failed to load buyer for notification", "error", err, "transaction_sid", txn.SID())
			return
		}
		r, err := uc.raffleRepo.GetByID(ctx, txn.RaffleID())
		if err != nil {
			uc.logger.Warnw("failed to load raffle for notification", "error", err, "transaction_sid", txn.SID())
			return
		}
		if err := uc.notifier.NotifyPurchaseApproved(ctx, b, r, txn); err != nil {
			uc.logger.Warnw("failed to send purchase notification", "error", err, "transaction_sid", txn.SID())
		}
	})
}
