package raffle

import (
	"context"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/application/raffle/usecases"
)

type getRaffleUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.RaffleDTO, error)
}

type getStatsUseCase interface {
	Execute(ctx context.Context, raffleSID string) (*dto.StatsDTO, error)
}

type listQuotasUseCase interface {
	Execute(ctx context.Context, query usecases.ListQuotasQuery) (*usecases.ListQuotasResult, error)
}

type pickRandomUseCase interface {
	Execute(ctx context.Context, query usecases.PickRandomQuery) (*dto.RandomPickDTO, error)
}

type watchQuotasUseCase interface {
	Execute(ctx context.Context, raffleSID string) (<-chan dto.QuotaChangeDTO, error)
}
