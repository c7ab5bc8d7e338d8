package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Transaction statuses
const (
	TransactionStatusSuccess = "success"
	TransactionStatusPending = "pending"
	TransactionStatusFailed  = "failed"
)

// Transaction is an immutable ledger entry. Rows are only ever appended.
type Transaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ChatID      string    `gorm:"index;not null" json:"chat_id"`
	Type        string    `gorm:"not null" json:"type"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `json:"description"`
	Status      string    `gorm:"not null;default:'pending'" json:"status"`
	Reference   string    `gorm:"uniqueIndex" json:"reference"` // external reference ID
	Metadata    JSON      `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
}
