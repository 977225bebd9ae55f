package mappers

import (
	"fmt"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
)

func QuotaToDomain(model *models.QuotaModel) (*quota.Quota, error) {
	return quota.Reconstruct(quota.ReconstructParams{
		RaffleID:       model.RaffleID,
		Number:         model.Number,
		Status:         quota.Status(model.Status),
		BuyerID:        model.BuyerID,
		TransactionSID: model.TransactionSID,
		PurchasedAt:    model.PurchasedAt,
	})
}

func QuotasToDomain(rows []models.QuotaModel) ([]*quota.Quota, error) {
	out := make([]*quota.Quota, len(rows))
	for i := range rows {
		q, err := QuotaToDomain(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("quota %s: %w", rows[i].Number, err)
		}
		out[i] = q
	}
	return out, nil
}

// NewAvailableQuotaModels builds the rows inserted at raffle setup.
func NewAvailableQuotaModels(raffleID uint, numbers []string) []models.QuotaModel {
	rows := make([]models.QuotaModel, len(numbers))
	for i, n := range numbers {
		rows[i] = models.QuotaModel{
			RaffleID: raffleID,
			Number:   n,
			Status:   quota.StatusAvailable.String(),
		}
	}
	return rows
}
