package service

import (
	"fmt"
	"math/rand"
	"time"

	"meetspot/core/constants"
)

// uniqueNickname returns a nickname not present in taken, preferring
// the requested one. On collision it appends a random two-digit suffix
// (requested_NN). Returns the resolved name and whether it differs
// from the request.
func uniqueNickname(requested string, taken map[string]bool) (string, bool) {
	if !taken[requested] {
		return requested, false
	}

	span := constants.NicknameSuffixMax - constants.NicknameSuffixMin + 1
	for i := 0; i < constants.NicknameMaxAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d", requested, constants.NicknameSuffixMin+rand.Intn(span))
		if !taken[candidate] {
			return candidate, true
		}
	}

	// Suffix space exhausted for this base name. Fall back to a
	// time-derived suffix, the repository unique constraint is the
	// real guard.
	return fmt.Sprintf("%s_%02d", requested, time.Now().UnixNano()%100), true
}
