package token

import "time"

// Issuer mints access and reset tokens with their configured TTLs. Every call
// produces a fresh jti, even for the same subject within the same instant.
type Issuer struct {
	codec     *Codec
	accessTTL time.Duration
	resetTTL  time.Duration
}

func NewIssuer(codec *Codec, accessTTL, resetTTL time.Duration) *Issuer {
	return &Issuer{codec: codec, accessTTL: accessTTL, resetTTL: resetTTL}
}

func (i *Issuer) IssueAccess(subject int64) (string, error) {
	return i.codec.Encode(subject, KindAccess, i.accessTTL)
}

func (i *Issuer) IssueReset(subject int64) (string, error) {
	return i.codec.Encode(subject, KindReset, i.resetTTL)
}
