package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeTTL bounds how long an emailed verification code stays redeemable.
const CodeTTL = 15 * time.Minute

// CodeDigits is the fixed width of generated codes.
const CodeDigits = 6

type Code struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateCode returns a zero-padded numeric code of CodeDigits width.
func GenerateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < CodeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeDigits, n), nil
}
