package token

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	domainauth "github.com/NordCoder/Cookbook/internal/domain/auth"
)

var testSecret = []byte("test-secret")

func TestCodecRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCodec(testSecret).WithNow(func() time.Time { return at })

	raw, err := c.Encode(42, KindAccess, 15*time.Minute)
	require.NoError(t, err)

	tok, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), tok.Subject)
	require.Equal(t, KindAccess, tok.Kind)
	require.NotEmpty(t, tok.ID)
	// Numeric dates round-trip through Unix seconds; compare instants, not
	// time.Time representations.
	require.True(t, tok.IssuedAt.Equal(at))
	require.True(t, tok.ExpiresAt.Equal(at.Add(15*time.Minute)))
	require.Equal(t, 15*time.Minute, tok.Remaining(at))
}

func TestCodecFreshJTIPerToken(t *testing.T) {
	c := NewCodec(testSecret)

	raw1, err := c.Encode(1, KindAccess, time.Minute)
	require.NoError(t, err)
	raw2, err := c.Encode(1, KindAccess, time.Minute)
	require.NoError(t, err)

	t1, err := c.Decode(raw1)
	require.NoError(t, err)
	t2, err := c.Decode(raw2)
	require.NoError(t, err)
	require.NotEqual(t, t1.ID, t2.ID)
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	raw, err := NewCodec([]byte("one")).Encode(7, KindReset, time.Minute)
	require.NoError(t, err)

	_, err = NewCodec([]byte("two")).Decode(raw)
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestCodecRejectsGarbage(t *testing.T) {
	c := NewCodec(testSecret)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := c.Decode(raw)
		require.ErrorIs(t, err, domainauth.ErrInvalidToken)
	}
}

func TestCodecRejectsUnknownKind(t *testing.T) {
	raw := signRaw(t, jwt.MapClaims{
		"sub":  "7",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Minute).Unix(),
		"jti":  "some-jti",
		"type": "refresh",
	})

	_, err := NewCodec(testSecret).Decode(raw)
	require.ErrorIs(t, err, domainauth.ErrInvalidToken)
}

func TestCodecRejectsMissingClaims(t *testing.T) {
	now := time.Now()
	cases := map[string]jwt.MapClaims{
		"no jti": {"sub": "7", "iat": now.Unix(), "exp": now.Add(time.Minute).Unix(), "type": "access"},
		"no iat": {"sub": "7", "exp": now.Add(time.Minute).Unix(), "jti": "x", "type": "access"},
		"no exp": {"sub": "7", "iat": now.Unix(), "jti": "x", "type": "access"},
		"bad sub": {
			"sub": "not-a-number", "iat": now.Unix(), "exp": now.Add(time.Minute).Unix(),
			"jti": "x", "type": "access",
		},
	}
	c := NewCodec(testSecret)
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(signRaw(t, claims))
			require.ErrorIs(t, err, domainauth.ErrInvalidToken)
		})
	}
}

func TestCodecDecodesExpiredToken(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	c := NewCodec(testSecret)
	raw, err := c.WithNow(func() time.Time { return past }).Encode(7, KindAccess, time.Minute)
	require.NoError(t, err)

	// Expiry is the validator's concern; the codec still parses.
	tok, err := c.Decode(raw)
	require.NoError(t, err)
	require.Negative(t, tok.Remaining(time.Now()))
}

func TestIssuerUsesConfiguredTTLs(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCodec(testSecret).WithNow(func() time.Time { return at })
	iss := NewIssuer(c, 15*time.Minute, 30*time.Minute)

	raw, err := iss.IssueAccess(1)
	require.NoError(t, err)
	tok, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindAccess, tok.Kind)
	require.True(t, tok.ExpiresAt.Equal(at.Add(15*time.Minute)))

	raw, err = iss.IssueReset(1)
	require.NoError(t, err)
	tok, err = c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindReset, tok.Kind)
	require.True(t, tok.ExpiresAt.Equal(at.Add(30*time.Minute)))
	require.Equal(t, "1", strconv.FormatInt(tok.Subject, 10))
}

func signRaw(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}
