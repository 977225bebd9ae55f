package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// publishQuotaChange is fire-and-forget: a lost notification only delays a stats refresh.
func publishQuotaChange(ctx context.Context, pub QuotaChangePublisher, log logger.Interface, t *transaction.Transaction, status quota.Status) {
	if pub == nil {
		return
	}
	evt := quota.ChangeEvent{
		RaffleID:       t.RaffleID(),
		TransactionSID: t.SID(),
		Numbers:        t.QuotaNumbers(),
		Status:         status,
		OccurredAt:     biztime.NowUTC(),
	}
	if err := pub.PublishQuotaChange(ctx, evt); err != nil {
		log.Warnw("failed to publish quota change",
			"error", err,
			"transaction_sid", t.SID(),
			"status", status,
		)
	}
}
