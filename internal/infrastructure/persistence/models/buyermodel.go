package models

import "time"

type BuyerModel struct {
	ID        uint   `gorm:"primaryKey"`
	SID       string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	Name      string `gorm:"size:120;not null"`
	Email     string `gorm:"uniqueIndex;size:191;not null"`
	Phone     string `gorm:"size:20"`
	Document  string `gorm:"size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BuyerModel) TableName() string {
	return "buyers"
}
