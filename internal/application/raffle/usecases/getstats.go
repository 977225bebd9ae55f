package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type GetStatsUseCase struct {
	raffleRepo raffle.Repository
	ledger     quota.Ledger
	cache      StatsCache
	logger     logger.Interface
}

func NewGetStatsUseCase(raffleRepo raffle.Repository, ledger quota.Ledger, cache StatsCache, logger logger.Interface) *GetStatsUseCase {
	return &GetStatsUseCase{
		raffleRepo: raffleRepo,
		ledger:     ledger,
		cache:      cache,
		logger:     logger,
	}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context, raffleSID string) (*dto.StatsDTO, error) {
	r, err := loadRaffle(ctx, uc.raffleRepo, raffleSID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, r.ID())
		if err != nil {
			uc.logger.Warnw("stats cache read failed", "error", err, "raffle_id", r.ID())
		} else if ok {
			return cached, nil
		}
	}

	counts, err := uc.ledger.CountByStatus(ctx, r.ID())
	if err != nil {
		uc.logger.Errorw("failed to count quotas", "error", err, "raffle_id", r.ID())
		return nil, errors.NewPersistenceError("failed to compute stats", err)
	}

	stats := &dto.StatsDTO{
		RaffleSID:  r.SID(),
		Total:      counts.Total,
		Available:  counts.Available,
		Pending:    counts.Pending,
		Sold:       counts.Sold,
		Revenue:    r.PriceFor(int(counts.Sold)).Amount().StringFixed(2),
		ComputedAt: biztime.NowUTC(),
	}
	if counts.Total > 0 {
		pct := decimal.NewFromInt(counts.Sold).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(counts.Total)).Round(2)
		stats.PercentSold = pct.InexactFloat64()
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, r.ID(), stats); err != nil {
			uc.logger.Warnw("stats cache write failed", "error", err, "raffle_id", r.ID())
		}
	}
	return stats, nil
}
