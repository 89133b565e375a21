package verification

import "context"

// Repo persists one-time verification codes. Rows are append-only: consuming a
// code flips its flag and the transition is never reversed.
type Repo interface {
	Create(ctx context.Context, c *Code) error

	// ConsumeLatest marks the newest unconsumed, unexpired (userID, code) row
	// as consumed. It reports false when no such row exists, including when a
	// concurrent caller already consumed it.
	ConsumeLatest(ctx context.Context, userID int64, code string) (bool, error)
}
