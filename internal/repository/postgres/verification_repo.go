package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/Cookbook/internal/domain/verification"
)

var _ verification.Repo = (*VerificationRepo)(nil)

type VerificationRepo struct {
	db *DB
}

func NewVerificationRepo(db *DB) *VerificationRepo { return &VerificationRepo{db: db} }

const (
	qCodeInsert = `
INSERT INTO email_verifications (user_id, code, expires_at)
VALUES ($1, $2, $3)
RETURNING id, created_at;`

	// The flag flip is the linearization point for single use: the row lock
	// taken by UPDATE re-evaluates consumed = FALSE after a concurrent writer
	// commits, so exactly one of N simultaneous callers gets RowsAffected = 1.
	qCodeConsumeLatest = `
UPDATE email_verifications
SET consumed = TRUE
WHERE id = (
    SELECT id
    FROM email_verifications
    WHERE user_id = $1
      AND code = $2
      AND consumed = FALSE
      AND expires_at > NOW()
    ORDER BY id DESC
    LIMIT 1
)
  AND consumed = FALSE;`
)

func (r *VerificationRepo) Create(ctx context.Context, c *verification.Code) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.execQueryer(ctx).QueryRow(ctx, qCodeInsert, c.UserID, c.Code, c.ExpiresAt).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("verification insert: %w", err)
	}
	return nil
}

func (r *VerificationRepo) ConsumeLatest(ctx context.Context, userID int64, code string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.execQueryer(ctx).Exec(ctx, qCodeConsumeLatest, userID, code)
	if err != nil {
		return false, fmt.Errorf("verification consume: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
