package models

import "time"

// QuotaModel is one row per numbered quota. (raffle_id, number) is unique and
// (raffle_id, status) backs the per-status listings and counts.
type QuotaModel struct {
	ID             uint    `gorm:"primaryKey"`
	RaffleID       uint    `gorm:"not null;uniqueIndex:idx_quota_raffle_number,priority:1;index:idx_quota_raffle_status,priority:1"`
	Number         string  `gorm:"size:16;not null;uniqueIndex:idx_quota_raffle_number,priority:2"`
	Status         string  `gorm:"size:20;not null;index:idx_quota_raffle_status,priority:2"`
	BuyerID        *uint   `gorm:"index"`
	TransactionSID *string `gorm:"column:transaction_sid;size:32;index"`
	PurchasedAt    *time.Time
	UpdatedAt      time.Time
}

func (QuotaModel) TableName() string {
	return "quotas"
}
