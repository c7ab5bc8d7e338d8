package withdrawal

import "errors"

// Service errors
var (
	ErrMissingChatID = errors.New("chat id is required")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrMissingVPA    = errors.New("vpa is required")

	ErrMissingReference = errors.New("withdrawal reference is required")
)
