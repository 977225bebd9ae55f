package mappers

import (
	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
)

func BuyerToModel(b *buyer.Buyer) *models.BuyerModel {
	return &models.BuyerModel{
		ID:        b.ID(),
		SID:       b.SID(),
		Name:      b.Name(),
		Email:     b.Email(),
		Phone:     b.Phone(),
		Document:  b.Document(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func BuyerToDomain(model *models.BuyerModel) *buyer.Buyer {
	return buyer.ReconstructBuyer(model.ID, model.SID, model.Name, model.Email,
		model.Phone, model.Document, model.CreatedAt, model.UpdatedAt)
}
