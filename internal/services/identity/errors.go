package identity

import "errors"

// Service errors
var (
	ErrMissingChatID   = errors.New("chat id is required")
	ErrCodeAllocation  = errors.New("could not allocate a unique referral code")
	ErrReferralLinkage = errors.New("failed to record referral linkage")
)
