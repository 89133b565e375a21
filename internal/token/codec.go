package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/NordCoder/Cookbook/internal/domain/auth"
)

type Kind string

const (
	KindAccess Kind = "access"
	KindReset  Kind = "reset"
)

// Claims is the fixed claim set carried by every issued token. Kind
// distinguishes access tokens from password-reset tokens so one can never be
// accepted where the other is required.
type Claims struct {
	Kind Kind `json:"type"`
	jwt.RegisteredClaims
}

// Token is the decoded form. ID is the jti and is the unit of revocation.
type Token struct {
	Subject   int64
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// Remaining is how long the token would stay valid past now. Revocation
// entries only need to live this long.
func (t *Token) Remaining(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}

// Codec signs and parses tokens. It is stateless apart from the immutable
// signing secret; expiry and revocation are the validator's concern.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: func() time.Time { return time.Now().UTC() }}
}

// WithNow overrides the clock, for tests.
func (c *Codec) WithNow(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Codec) Encode(subject int64, kind Kind, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and structural validity only. A structurally
// sound token past its expiry still decodes; expiry is a value check the
// caller performs against ExpiresAt.
func (c *Codec) Decode(raw string) (*Token, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domainauth.ErrInvalidToken
	}

	if claims.Kind != KindAccess && claims.Kind != KindReset {
		return nil, domainauth.ErrInvalidToken
	}
	if claims.ID == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, domainauth.ErrInvalidToken
	}
	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domainauth.ErrInvalidToken
	}

	return &Token{
		Subject:   subject,
		Kind:      claims.Kind,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
