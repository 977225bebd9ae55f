package models

import (
	"time"

	"gorm.io/datatypes"
)

type TransactionModel struct {
	ID                uint           `gorm:"primaryKey"`
	SID               string         `gorm:"column:sid;uniqueIndex;size:32;not null"`
	RaffleID          uint           `gorm:"index;not null"`
	BuyerID           uint           `gorm:"index;not null"`
	QuotaNumbers      datatypes.JSON `gorm:"not null"`
	QuotaCount        int            `gorm:"not null"`
	AmountCents       int64          `gorm:"not null"`
	Currency          string         `gorm:"size:10;not null;default:'BRL'"`
	Status            string         `gorm:"size:20;not null;index:idx_transaction_status_expires,priority:1"`
	PaymentMethod     string         `gorm:"size:20;not null"`
	Provider          string         `gorm:"size:32"`
	ExternalPaymentID *string        `gorm:"size:128;index"`
	PixPayload        *string        `gorm:"type:text"`
	QRImage           *string        `gorm:"column:qr_image;type:text"`
	CancelReason      *string        `gorm:"size:32"`
	ExpiresAt         time.Time      `gorm:"not null;index:idx_transaction_status_expires,priority:2"`
	PaidAt            *time.Time
	ClosedAt          *time.Time
	Version           int `gorm:"default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}
