package models

import (
	"time"
)

// Referral is the inviter-side aggregate: one record per inviter chatId.
type Referral struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ChatID        string         `gorm:"uniqueIndex;not null" json:"chat_id"`
	ReferralCode  string         `gorm:"size:6;index;not null" json:"referral_code"`
	TotalEarned   float64        `gorm:"default:0" json:"total_earned"`
	PendingEarned float64        `gorm:"default:0" json:"pending_earned"`
	ReferredUsers []ReferredUser `gorm:"foreignKey:ReferralID" json:"referred_users"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReferredUser is one invitee under an inviter's Referral record.
// The composite unique index makes linkage at-most-once per invitee,
// and appending is a single row insert rather than a rewrite of the list.
type ReferredUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ReferralID   uint      `gorm:"uniqueIndex:idx_referral_invitee;not null" json:"-"`
	UserID       string    `gorm:"uniqueIndex:idx_referral_invitee;not null" json:"user_id"`
	Username     string    `json:"username"`
	JoinedAt     time.Time `json:"joined_at"`
	EarnedAmount float64   `gorm:"default:0" json:"earned_amount"`
	IsActive     bool      `gorm:"default:false" json:"is_active"`
}
