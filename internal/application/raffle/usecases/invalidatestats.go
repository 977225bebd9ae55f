package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// InvalidateStatsUseCase reacts to quota change notifications.
type InvalidateStatsUseCase struct {
	cache  StatsCache
	logger logger.Interface
}

func NewInvalidateStatsUseCase(cache StatsCache, logger logger.Interface) *InvalidateStatsUseCase {
	return &InvalidateStatsUseCase{cache: cache, logger: logger}
}

func (uc *InvalidateStatsUseCase) Handle(ctx context.Context, evt quota.ChangeEvent) {
	if err := uc.cache.Invalidate(ctx, evt.RaffleID); err != nil {
		uc.logger.Warnw("failed to invalidate stats cache",
			"error", err,
			"raffle_id", evt.RaffleID,
			"status", evt.Status,
		)
		return
	}
	uc.logger.Debugw("stats cache invalidated", "raffle_id", evt.RaffleID, "numbers", len(evt.Numbers))
}
