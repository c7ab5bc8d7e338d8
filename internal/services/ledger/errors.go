package ledger

import "errors"

// Service errors
var (
	ErrMissingChatID          = errors.New("chat id is required")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)
