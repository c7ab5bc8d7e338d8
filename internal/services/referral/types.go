package referral

// Config holds the referral program parameters.
type Config struct {
	// LinkBase is the fixed deep-link prefix; the user's own referral
	// code is appended to build their invite link.
	LinkBase string

	// CommissionPerReferral is the flat payout advertised per successful
	// referral, in currency units.
	CommissionPerReferral float64
}

// Summary is the inviter-side view of the referral program.
type Summary struct {
	Code                  string  `json:"code"`
	Link                  string  `json:"link"`
	TotalReferrals        int64   `json:"total_referrals"`
	SuccessfulReferrals   int64   `json:"successful_referrals"`
	TotalEarned           float64 `json:"total_earned"`
	PendingEarned         float64 `json:"pending_earned"`
	CommissionPerReferral float64 `json:"commission_per_referral"`
}
