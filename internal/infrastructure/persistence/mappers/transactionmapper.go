package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
)

func TransactionToModel(t *transaction.Transaction) (*models.TransactionModel, error) {
	numbers, err := json.Marshal(t.QuotaNumbers())
	if err != nil {
		return nil, fmt.Errorf("failed to encode quota numbers: %w", err)
	}

	model := &models.TransactionModel{
		ID:                t.ID(),
		SID:               t.SID(),
		RaffleID:          t.RaffleID(),
		BuyerID:           t.BuyerID(),
		QuotaNumbers:      datatypes.JSON(numbers),
		QuotaCount:        t.QuotaCount(),
		AmountCents:       t.Amount().Cents(),
		Currency:          t.Amount().Currency(),
		Status:            t.Status().String(),
		PaymentMethod:     t.PaymentMethod(),
		Provider:          t.Provider(),
		ExternalPaymentID: t.ExternalPaymentID(),
		PixPayload:        t.PixPayload(),
		QRImage:           t.QRImage(),
		ExpiresAt:         t.ExpiresAt(),
		PaidAt:            t.PaidAt(),
		ClosedAt:          t.ClosedAt(),
		Version:           t.Version(),
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
	if reason := t.CancelReason(); reason != nil {
		s := string(*reason)
		model.CancelReason = &s
	}
	return model, nil
}

func TransactionToDomain(model *models.TransactionModel) (*transaction.Transaction, error) {
	var numbers []string
	if len(model.QuotaNumbers) > 0 {
		if err := json.Unmarshal(model.QuotaNumbers, &numbers); err != nil {
			return nil, fmt.Errorf("failed to decode quota numbers of %s: %w", model.SID, err)
		}
	}

	var reason *transaction.Reason
	if model.CancelReason != nil {
		r := transaction.Reason(*model.CancelReason)
		reason = &r
	}

	return transaction.ReconstructTransaction(transaction.ReconstructParams{
		ID:                model.ID,
		SID:               model.SID,
		RaffleID:          model.RaffleID,
		BuyerID:           model.BuyerID,
		QuotaNumbers:      numbers,
		Amount:            vo.MoneyFromCents(model.AmountCents, model.Currency),
		Status:            transaction.Status(model.Status),
		PaymentMethod:     model.PaymentMethod,
		Provider:          model.Provider,
		ExternalPaymentID: model.ExternalPaymentID,
		PixPayload:        model.PixPayload,
		QRImage:           model.QRImage,
		CancelReason:      reason,
		CreatedAt:         model.CreatedAt,
		ExpiresAt:         model.ExpiresAt,
		PaidAt:            model.PaidAt,
		ClosedAt:          model.ClosedAt,
		Version:           model.Version,
		UpdatedAt:         model.UpdatedAt,
	})
}
