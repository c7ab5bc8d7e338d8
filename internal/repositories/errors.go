package repositories

import "errors"

// Repository errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrReferralNotFound   = errors.New("referral not found")
	ErrUpiLinkNotFound    = errors.New("upi link not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrDuplicateRecord    = errors.New("record already exists")
)
