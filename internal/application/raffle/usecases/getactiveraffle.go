package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type GetRaffleUseCase struct {
	raffleRepo raffle.Repository
	renderer   DescriptionRenderer
	logger     logger.Interface
}

func NewGetRaffleUseCase(raffleRepo raffle.Repository, renderer DescriptionRenderer, logger logger.Interface) *GetRaffleUseCase {
	return &GetRaffleUseCase{
		raffleRepo: raffleRepo,
		renderer:   renderer,
		logger:     logger,
	}
}

// Execute returns the raffle by SID, or the active raffle when sid is empty.
func (uc *GetRaffleUseCase) Execute(ctx context.Context, sid string) (*dto.RaffleDTO, error) {
	r, err := loadRaffle(ctx, uc.raffleRepo, sid)
	if err != nil {
		return nil, err
	}

	html := ""
	if uc.renderer != nil {
		html, err = uc.renderer.Render(r.Description())
		if err != nil {
			// The raw markdown is still returned.
			uc.logger.Warnw("failed to render raffle description", "error", err, "raffle_sid", r.SID())
			html = ""
		}
	}
	return dto.ToRaffleDTO(r, html), nil
}
