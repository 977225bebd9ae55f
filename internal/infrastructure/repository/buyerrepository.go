package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/mappers"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
	"github.com/samvyt/rifa/internal/shared/db"
	"github.com/samvyt/rifa/internal/shared/errors"
)

type BuyerRepository struct {
	db *gorm.DB
}

func NewBuyerRepository(db *gorm.DB) *BuyerRepository {
	return &BuyerRepository{db: db}
}

// Upsert inserts the buyer or refreshes the contact fields of the row with the same
// email. An empty document keeps the stored one. b receives the stored id, sid and created_at.
func (r *BuyerRepository) Upsert(ctx context.Context, b *buyer.Buyer) error {
	model := mappers.BuyerToModel(b)
	tx := db.GetTxFromContext(ctx, r.db)

	columns := []string{"name", "phone", "updated_at"}
	if model.Document != "" {
		columns = append(columns, "document")
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert buyer: %w", err)
	}

	// The conflict path does not return the existing id on every dialect.
	var stored models.BuyerModel
	if err := tx.Where("email = ?", model.Email).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload buyer: %w", err)
	}
	*b = *mappers.BuyerToDomain(&stored)
	return nil
}

func (r *BuyerRepository) GetByID(ctx context.Context, id uint) (*buyer.Buyer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BuyerRepository) GetByEmail(ctx context.Context, email string) (*buyer.Buyer, error) {
	return r.first(ctx, "email = ?", buyer.NormalizeEmail(email))
}

func (r *BuyerRepository) first(ctx context.Context, query string, args ...interface{}) (*buyer.Buyer, error) {
	var model models.BuyerModel

	if err := db.GetTxFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("buyer not found")
		}
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}
	return mappers.BuyerToDomain(&model), nil
}
