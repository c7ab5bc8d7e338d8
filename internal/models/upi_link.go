package models

import (
	"time"
)

// UpiLink holds the payout destination for a user. Updates are merges:
// only fields present in a request overwrite the stored ones.
type UpiLink struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	ChatID     string     `gorm:"uniqueIndex;not null" json:"chat_id"`
	VPA        string     `gorm:"column:vpa" json:"vpa"`
	BankName   string     `json:"bank_name"`
	IsVerified bool       `gorm:"default:false" json:"is_verified"`
	LinkedAt   *time.Time `json:"linked_at"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
