package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/NordCoder/Cookbook/internal/domain/auth"
)

type fakeRevocations struct{ revoked map[string]bool }

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) bool { return f.revoked[jti] }

func newTestValidator(t *testing.T) (*Codec, *Issuer, *Validator, *fakeRevocations) {
	t.Helper()
	c := NewCodec(testSecret)
	rev := &fakeRevocations{revoked: map[string]bool{}}
	return c, NewIssuer(c, 15*time.Minute, 30*time.Minute), NewValidator(c, rev), rev
}

func TestValidatorAcceptsFreshAccessToken(t *testing.T) {
	_, iss, v, _ := newTestValidator(t)
	ctx := context.Background()

	raw, err := iss.IssueAccess(42)
	require.NoError(t, err)

	subject, err := v.ValidateAccess(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), subject)

	subject, ok := v.TryValidateAccess(ctx, raw)
	require.True(t, ok)
	require.Equal(t, int64(42), subject)
}

func TestValidatorRejectsWrongKind(t *testing.T) {
	_, iss, v, _ := newTestValidator(t)
	ctx := context.Background()

	access, err := iss.IssueAccess(1)
	require.NoError(t, err)
	reset, err := iss.IssueReset(1)
	require.NoError(t, err)

	_, err = v.ValidateAccess(ctx, reset)
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
	_, err = v.ValidateReset(ctx, access)
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestValidatorRejectsExpiredToken(t *testing.T) {
	_, iss, v, _ := newTestValidator(t)

	raw, err := iss.IssueAccess(1)
	require.NoError(t, err)

	v = v.WithNow(func() time.Time { return time.Now().Add(16 * time.Minute) })
	_, err = v.ValidateAccess(context.Background(), raw)
	require.ErrorIs(t, err, domainauth.ErrExpiredToken)

	_, ok := v.TryValidateAccess(context.Background(), raw)
	require.False(t, ok)
}

func TestValidatorRejectsRevokedToken(t *testing.T) {
	c, iss, v, rev := newTestValidator(t)
	ctx := context.Background()

	raw, err := iss.IssueAccess(1)
	require.NoError(t, err)
	tok, err := c.Decode(raw)
	require.NoError(t, err)

	rev.revoked[tok.ID] = true
	_, err = v.ValidateAccess(ctx, raw)
	require.ErrorIs(t, err, domainauth.ErrRevokedToken)
}

func TestValidatorRevocationIsPerToken(t *testing.T) {
	c, iss, v, rev := newTestValidator(t)
	ctx := context.Background()

	raw1, err := iss.IssueAccess(1)
	require.NoError(t, err)
	raw2, err := iss.IssueAccess(1)
	require.NoError(t, err)

	tok1, err := c.Decode(raw1)
	require.NoError(t, err)
	rev.revoked[tok1.ID] = true

	_, err = v.ValidateAccess(ctx, raw1)
	require.ErrorIs(t, err, domainauth.ErrRevokedToken)

	// Same subject, different jti: unaffected.
	subject, err := v.ValidateAccess(ctx, raw2)
	require.NoError(t, err)
	require.Equal(t, int64(1), subject)
}
