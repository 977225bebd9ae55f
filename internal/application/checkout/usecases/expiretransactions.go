package usecases

import (
	"context"
	"fmt"

	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// ExpireTransactionsUseCase reclaims quotas of checkouts whose reservation window passed.
type ExpireTransactionsUseCase struct {
	txnRepo  transaction.Repository
	canceler *CancelTransactionUseCase
	logger   logger.Interface
}

func NewExpireTransactionsUseCase(
	txnRepo transaction.Repository,
	canceler *CancelTransactionUseCase,
	logger logger.Interface,
) *ExpireTransactionsUseCase {
	return &ExpireTransactionsUseCase{
		txnRepo:  txnRepo,
		canceler: canceler,
		logger:   logger,
	}
}

// ExpireOne re-checks the transaction and expires it only if it is still pending
// and past its deadline. It reports whether this call performed the expiry.
func (uc *ExpireTransactionsUseCase) ExpireOne(ctx context.Context, sid string) (bool, error) {
	txn, err := uc.txnRepo.GetBySID(ctx, sid)
	if err != nil {
		return false, fmt.Errorf("failed to load transaction %s: %w", sid, err)
	}
	if !txn.IsOverdue(biztime.NowUTC()) {
		uc.logger.Debugw("transaction not due for expiry",
			"transaction_sid", sid,
			"status", txn.Status(),
			"expires_at", txn.ExpiresAt(),
		)
		return false, nil
	}

	_, expired, err := uc.canceler.close(ctx, CancelTransactionCommand{
		TransactionSID: sid,
		Reason:         transaction.ReasonExpired,
	})
	return expired, err
}

// Execute sweeps every overdue pending transaction. Used at startup before serving
// requests and periodically as a safety net behind the per-transaction timers.
func (uc *ExpireTransactionsUseCase) Execute(ctx context.Context) (int, error) {
	overdue, err := uc.txnRepo.ListOverdue(ctx, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("failed to list overdue transactions", "error", err)
		return 0, fmt.Errorf("failed to list overdue transactions: %w", err)
	}

	if len(overdue) == 0 {
		uc.logger.Debugw("no overdue transactions found")
		return 0, nil
	}

	uc.logger.Infow("processing overdue transactions", "count", len(overdue))

	expired := 0
	for _, txn := range overdue {
		ok, err := uc.ExpireOne(ctx, txn.SID())
		if err != nil {
			uc.logger.Errorw("failed to expire transaction", "error", err, "transaction_sid", txn.SID())
			continue
		}
		if ok {
			expired++
		}
	}

	uc.logger.Infow("overdue transactions processed",
		"total", len(overdue),
		"expired", expired)

	return expired, nil
}
