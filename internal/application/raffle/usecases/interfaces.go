package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
)

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatsCache holds computed stats per raffle until a quota change invalidates them.
type StatsCache interface {
	Get(ctx context.Context, raffleID uint) (*dto.StatsDTO, bool, error)
	Set(ctx context.Context, raffleID uint, stats *dto.StatsDTO) error
	Invalidate(ctx context.Context, raffleID uint) error
}

type DescriptionRenderer interface {
	Render(markdown string) (string, error)
}

// QuotaChangeSource hands out in-process listeners for quota changes.
type QuotaChangeSource interface {
	Listen(buffer int) (<-chan quota.ChangeEvent, func())
}
