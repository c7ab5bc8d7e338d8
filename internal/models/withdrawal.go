package models

import (
	"time"
)

// Withdrawal statuses. A withdrawal is always created pending; the
// external settlement process moves it to a terminal state.
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusFailed    = "failed"
)

type Withdrawal struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	ChatID        string     `gorm:"index;not null" json:"chat_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	VPA           string     `gorm:"column:vpa;not null" json:"vpa"`
	Fee           float64    `gorm:"not null" json:"fee"`
	NetAmount     float64    `gorm:"not null" json:"net_amount"`
	Status        string     `gorm:"not null;default:'pending'" json:"status"`
	Reference     string     `gorm:"uniqueIndex" json:"reference"`
	InitiatedAt   time.Time  `json:"initiated_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	TransactionID string     `json:"transaction_id"` // payout rail reference, supplied by settlement
	FailureReason string     `json:"failure_reason"`
}
