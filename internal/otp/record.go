package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Record is the transient verification state for one email address. At
// most one live record exists per email; issuing a new code replaces it.
type Record struct {
	Code          string    `json:"code"`
	ExpiresAt     time.Time `json:"expires_at"`
	PendingUserID *uint     `json:"pending_user_id,omitempty"`
}

// Expired reports whether the record is past its expiry at the supplied
// instant. Taking the clock as a parameter keeps expiry testable without
// real-time waits.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// GenerateCode draws a 6-digit code uniformly from [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
