package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/mappers"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
	"github.com/samvyt/rifa/internal/shared/db"
	"github.com/samvyt/rifa/internal/shared/errors"
)

type RaffleRepository struct {
	db *gorm.DB
}

func NewRaffleRepository(db *gorm.DB) *RaffleRepository {
	return &RaffleRepository{db: db}
}

func (r *RaffleRepository) Create(ctx context.Context, rf *raffle.Raffle) error {
	model := mappers.RaffleToModel(rf)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create raffle: %w", err)
	}

	rf.SetID(model.ID)
	return nil
}

// Update writes the mutable configuration. total_quotas and number_width never change after setup.
func (r *RaffleRepository) Update(ctx context.Context, rf *raffle.Raffle) error {
	model := mappers.RaffleToModel(rf)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RaffleModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"prize":       model.Prize,
			"description": model.Description,
			"image_url":   model.ImageURL,
			"price_cents": model.PriceCents,
			"currency":    model.Currency,
			"draw_date":   model.DrawDate,
			"draw_method": model.DrawMethod,
			"status":      model.Status,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update raffle: %w", result.Error)
	}
	return nil
}

func (r *RaffleRepository) GetByID(ctx context.Context, id uint) (*raffle.Raffle, error) {
	return r.first(ctx, "raffle not found", "id = ?", id)
}

func (r *RaffleRepository) GetBySID(ctx context.Context, sid string) (*raffle.Raffle, error) {
	return r.first(ctx, "raffle not found", "sid = ?", sid)
}

// GetActive returns the most recent active raffle.
func (r *RaffleRepository) GetActive(ctx context.Context) (*raffle.Raffle, error) {
	return r.first(ctx, "no active raffle", "status = ?", raffle.StatusActive.String())
}

func (r *RaffleRepository) first(ctx context.Context, notFound string, query string, args ...interface{}) (*raffle.Raffle, error) {
	var model models.RaffleModel

	err := db.GetTxFromContext(ctx, r.db).
		Where(query, args...).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(notFound)
		}
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}

	return mappers.RaffleToDomain(&model)
}
