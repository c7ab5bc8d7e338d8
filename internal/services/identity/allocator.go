package identity

import (
	"math/rand"
	"strconv"
)

// codeAllocationAttempts bounds the reserve-on-insert retry loop. With
// 900000 possible codes, collisions are rare until the user base is a
// sizeable fraction of the space; a handful of retries covers that.
const codeAllocationAttempts = 5

// randomReferralCode returns a uniformly random 6-digit numeric string
// in 100000..999999.
func randomReferralCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
