package models

import (
	"time"
)

type Wallet struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	ChatID         string  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Balance        float64 `gorm:"default:0" json:"balance"`
	PendingBalance float64 `gorm:"default:0" json:"pending_balance"`
	Currency       string  `gorm:"default:'INR'" json:"currency"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
