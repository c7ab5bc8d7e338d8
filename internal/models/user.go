package models

import (
	"time"
)

// User statuses
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

type User struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	ChatID       string  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username     string  `json:"username"`
	Avatar       string  `json:"avatar"`
	Status       string  `gorm:"default:'active'" json:"status"`
	ReferralCode string  `gorm:"size:6;uniqueIndex;not null" json:"referral_code"`
	ReferredBy   *string `gorm:"size:6" json:"referred_by"` // inviter's code, set once at creation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
