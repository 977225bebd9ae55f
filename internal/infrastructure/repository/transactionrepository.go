package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/mappers"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
	"github.com/samvyt/rifa/internal/shared/db"
	"github.com/samvyt/rifa/internal/shared/errors"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	model, err := mappers.TransactionToModel(t)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	t.SetID(model.ID)
	return nil
}

// Update stores the charge attached to a pending transaction.
func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	model, err := mappers.TransactionToModel(t)
	if err != nil {
		return err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("sid = ?", model.SID).
		Updates(map[string]interface{}{
			"provider":            model.Provider,
			"external_payment_id": model.ExternalPaymentID,
			"pix_payload":         model.PixPayload,
			"qr_image":            model.QRImage,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("transaction not found", model.SID)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, sid string) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("sid = ?", sid).
		Delete(&models.TransactionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetBySID(ctx context.Context, sid string) (*transaction.Transaction, error) {
	var model models.TransactionModel

	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("transaction not found", sid)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return mappers.TransactionToDomain(&model)
}

// TransitionFromPending is a compare-and-set on status. Exactly one of several
// concurrent writers observes true.
func (r *TransactionRepository) TransitionFromPending(ctx context.Context, t *transaction.Transaction) (bool, error) {
	model, err := mappers.TransactionToModel(t)
	if err != nil {
		return false, err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("sid = ? AND status = ?", model.SID, transaction.StatusPending.String()).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"cancel_reason": model.CancelReason,
			"paid_at":       model.PaidAt,
			"closed_at":     model.ClosedAt,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition transaction: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *TransactionRepository) ListPending(ctx context.Context) ([]*transaction.Transaction, error) {
	return r.find(ctx, "expires_at ASC", "status = ?", transaction.StatusPending.String())
}

func (r *TransactionRepository) ListOverdue(ctx context.Context, now time.Time) ([]*transaction.Transaction, error) {
	return r.find(ctx, "expires_at ASC", "status = ? AND expires_at <= ?", transaction.StatusPending.String(), now)
}

func (r *TransactionRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*transaction.Transaction, error) {
	return r.find(ctx, "created_at DESC, id DESC", "buyer_id = ?", buyerID)
}

func (r *TransactionRepository) find(ctx context.Context, order string, query string, args ...interface{}) ([]*transaction.Transaction, error) {
	var rows []models.TransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where(query, args...).
		Order(order).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]*transaction.Transaction, len(rows))
	for i := range rows {
		t, err := mappers.TransactionToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
