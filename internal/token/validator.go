package token

import (
	"context"
	"time"

	domainauth "github.com/NordCoder/Cookbook/internal/domain/auth"
)

// Revocations answers whether a jti has been invalidated. Implemented by the
// revocation store; the validator only ever asks membership questions.
type Revocations interface {
	IsRevoked(ctx context.Context, jti string) bool
}

// Validator turns a bearer string into a subject id. Checks run in a fixed
// order: signature, kind, expiry, revocation.
type Validator struct {
	codec   *Codec
	revoked Revocations
	now     func() time.Time
}

func NewValidator(codec *Codec, revoked Revocations) *Validator {
	return &Validator{
		codec:   codec,
		revoked: revoked,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock, for tests.
func (v *Validator) WithNow(now func() time.Time) *Validator {
	cp := *v
	cp.now = now
	return &cp
}

func (v *Validator) ValidateAccess(ctx context.Context, raw string) (int64, error) {
	return v.validate(ctx, raw, KindAccess)
}

func (v *Validator) ValidateReset(ctx context.Context, raw string) (int64, error) {
	return v.validate(ctx, raw, KindReset)
}

// TryValidateAccess is ValidateAccess with every failure collapsed into !ok,
// for endpoints where authentication is optional.
func (v *Validator) TryValidateAccess(ctx context.Context, raw string) (int64, bool) {
	subject, err := v.ValidateAccess(ctx, raw)
	if err != nil {
		return 0, false
	}
	return subject, true
}

func (v *Validator) validate(ctx context.Context, raw string, kind Kind) (int64, error) {
	tok, err := v.codec.Decode(raw)
	if err != nil {
		return 0, err
	}
	if tok.Kind != kind {
		return 0, domainauth.ErrInvalidToken
	}
	if !tok.ExpiresAt.After(v.now()) {
		return 0, domainauth.ErrExpiredToken
	}
	if v.revoked.IsRevoked(ctx, tok.ID) {
		return 0, domainauth.ErrRevokedToken
	}
	return tok.Subject, nil
}
