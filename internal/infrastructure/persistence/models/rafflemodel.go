package models

import "time"

type RaffleModel struct {
	ID          uint   `gorm:"primaryKey"`
	SID         string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	Name        string `gorm:"size:200;not null"`
	Prize       string `gorm:"size:500"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"size:500"`
	TotalQuotas int    `gorm:"not null"`
	NumberWidth int    `gorm:"not null"`
	PriceCents  int64  `gorm:"not null"`
	Currency    string `gorm:"size:10;not null;default:'BRL'"`
	DrawDate    *time.Time
	DrawMethod  string `gorm:"size:200"`
	Status      string `gorm:"size:20;not null;index"`
	Version     int    `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RaffleModel) TableName() string {
	return "raffles"
}
