package mappers

import (
	"github.com/samvyt/rifa/internal/domain/raffle"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
)

func RaffleToModel(r *raffle.Raffle) *models.RaffleModel {
	return &models.RaffleModel{
		ID:          r.ID(),
		SID:         r.SID(),
		Name:        r.Name(),
		Prize:       r.Prize(),
		Description: r.Description(),
		ImageURL:    r.ImageURL(),
		TotalQuotas: r.TotalQuotas(),
		NumberWidth: r.NumberWidth(),
		PriceCents:  r.Price().Cents(),
		Currency:    r.Price().Currency(),
		DrawDate:    r.DrawDate(),
		DrawMethod:  r.DrawMethod(),
		Status:      r.Status().String(),
		Version:     r.Version(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func RaffleToDomain(model *models.RaffleModel) (*raffle.Raffle, error) {
	return raffle.ReconstructRaffle(raffle.ReconstructParams{
		ID:          model.ID,
		SID:         model.SID,
		Name:        model.Name,
		Prize:       model.Prize,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		TotalQuotas: model.TotalQuotas,
		NumberWidth: model.NumberWidth,
		Price:       vo.MoneyFromCents(model.PriceCents, model.Currency),
		DrawDate:    model.DrawDate,
		DrawMethod:  model.DrawMethod,
		Status:      raffle.Status(model.Status),
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}
