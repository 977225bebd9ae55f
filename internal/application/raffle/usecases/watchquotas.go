package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/shared/goroutine"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const watchBuffer = 32

type WatchQuotasUseCase struct {
	raffleRepo raffle.Repository
	source     QuotaChangeSource
	logger     logger.Interface
}

func NewWatchQuotasUseCase(raffleRepo raffle.Repository, source QuotaChangeSource, logger logger.Interface) *WatchQuotasUseCase {
	return &WatchQuotasUseCase{
		raffleRepo: raffleRepo,
		source:     source,
		logger:     logger,
	}
}

// Execute streams quota changes of one raffle until ctx is done, then closes
// the channel. Transaction ids are not forwarded.
func (uc *WatchQuotasUseCase) Execute(ctx context.Context, raffleSID string) (<-chan dto.QuotaChangeDTO, error) {
	r, err := loadRaffle(ctx, uc.raffleRepo, raffleSID)
	if err != nil {
		return nil, err
	}

	events, stop := uc.source.Listen(watchBuffer)
	out := make(chan dto.QuotaChangeDTO, watchBuffer)
	raffleID, sid := r.ID(), r.SID()

	goroutine.SafeGo(uc.logger, "watch-quotas", func() {
		defer close(out)
		defer stop()

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				if evt.RaffleID != raffleID {
					continue
				}
				change := dto.QuotaChangeDTO{
					RaffleSID:  sid,
					Numbers:    evt.Numbers,
					Status:     evt.Status.String(),
					OccurredAt: evt.OccurredAt,
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	})

	return out, nil
}
