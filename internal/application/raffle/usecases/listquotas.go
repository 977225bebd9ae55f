package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type ListQuotasQuery struct {
	RaffleSID string
	Status    string
	// Numbers restricts the listing to specific quotas; paging is ignored then.
	Numbers []string
	Offset  int
	Limit   int
}

type ListQuotasResult struct {
	Quotas []dto.QuotaDTO
	Total  int64
}

type ListQuotasUseCase struct {
	raffleRepo raffle.Repository
	ledger     quota.Ledger
	logger     logger.Interface
}

func NewListQuotasUseCase(raffleRepo raffle.Repository, ledger quota.Ledger, logger logger.Interface) *ListQuotasUseCase {
	return &ListQuotasUseCase{
		raffleRepo: raffleRepo,
		ledger:     ledger,
		logger:     logger,
	}
}

func (uc *ListQuotasUseCase) Execute(ctx context.Context, query ListQuotasQuery) (*ListQuotasResult, error) {
	r, err := loadRaffle(ctx, uc.raffleRepo, query.RaffleSID)
	if err != nil {
		return nil, err
	}

	if len(query.Numbers) > 0 {
		return uc.byNumbers(ctx, r, query.Numbers)
	}

	status, ok := quota.ParseStatus(query.Status)
	if !ok {
		return nil, errors.NewValidationError("invalid quota status", query.Status)
	}

	quotas, total, err := uc.ledger.QueryByStatus(ctx, r.ID(), status, quota.Page{Offset: query.Offset, Limit: query.Limit})
	if err != nil {
		uc.logger.Errorw("failed to list quotas", "error", err, "raffle_id", r.ID())
		return nil, errors.NewPersistenceError("failed to list quotas", err)
	}
	return &ListQuotasResult{Quotas: dto.ToQuotaDTOs(quotas), Total: total}, nil
}

func (uc *ListQuotasUseCase) byNumbers(ctx context.Context, r *raffle.Raffle, raw []string) (*ListQuotasResult, error) {
	numbers, err := r.NormalizeNumbers(raw)
	if err != nil {
		return nil, err
	}

	quotas, err := uc.ledger.QueryByNumbers(ctx, r.ID(), numbers)
	if err != nil {
		var missing *quota.MissingError
		if stderrors.As(err, &missing) {
			return nil, errors.NewNotFoundError("quotas not found", strings.Join(missing.Numbers, ","))
		}
		return nil, errors.NewPersistenceError("failed to query quotas", err)
	}
	return &ListQuotasResult{Quotas: dto.ToQuotaDTOs(quotas), Total: int64(len(quotas))}, nil
}
