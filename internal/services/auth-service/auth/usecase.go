package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/NordCoder/Cookbook/internal/domain/auth"
	"github.com/NordCoder/Cookbook/internal/domain/mail"
	"github.com/NordCoder/Cookbook/internal/domain/user"
	"github.com/NordCoder/Cookbook/internal/domain/verification"
	pg "github.com/NordCoder/Cookbook/internal/repository/postgres"
	"github.com/NordCoder/Cookbook/internal/token"
)

// Caller-visible success messages. ForgotPassword and ResendCode return the
// same string no matter whether the account exists, so responses cannot be
// used to enumerate accounts.
const (
	MsgRegistered    = "Registered. Check your email for the verification code."
	MsgLoggedOut     = "Logged out"
	MsgResetSent     = "If the email exists, a reset link has been sent."
	MsgCodeResent    = "If the email exists and is unverified, a new code has been sent."
	MsgPasswordReset = "Password has been reset successfully."
)

// Revoker is the denylist the usecase writes to on logout and password reset.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration)
	IsRevoked(ctx context.Context, jti string) bool
}

// Transactor runs fn inside a database transaction. Satisfied by
// postgres.NewTransactor; tests use a pass-through.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config struct {
	FrontendURL string
	Now         func() time.Time
}

type Deps struct {
	Users     user.Repo
	Codes     verification.Repo
	Tx        Transactor
	Issuer    *token.Issuer
	Validator *token.Validator
	Codec     *token.Codec
	Revoked   Revoker
	Mail      mail.Dispatcher
	Logger    *zap.Logger
}

// Usecase drives a user's credential lifecycle:
// Unregistered -> PendingVerification (Register) -> Active (Verify),
// then Login/Logout and ForgotPassword -> ResetPassword.
type Usecase struct {
	users     user.Repo
	codes     verification.Repo
	tx        Transactor
	issuer    *token.Issuer
	validator *token.Validator
	codec     *token.Codec
	revoked   Revoker
	mail      mail.Dispatcher
	log       *zap.Logger
	cfg       Config
}

func NewUsecase(d Deps, cfg Config) *Usecase {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	log := d.Logger
	if log == nil {
		log = zap.L()
	}
	return &Usecase{
		users:     d.Users,
		codes:     d.Codes,
		tx:        d.Tx,
		issuer:    d.Issuer,
		validator: d.Validator,
		codec:     d.Codec,
		revoked:   d.Revoked,
		mail:      d.Mail,
		log:       log.With(zap.String("component", "auth.usecase")),
		cfg:       cfg,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates an inactive account and emails a verification code. A
// failed dispatch fails the whole call: the row stays behind, and the caller
// recovers through ResendCode.
func (u *Usecase) Register(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return "", domainauth.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{Email: email, PasswordHash: string(hash)}
	if err := u.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, pg.ErrConflict) {
			return "", domainauth.ErrEmailExists
		}
		return "", err
	}

	if err := u.issueAndDispatchCode(ctx, newUser); err != nil {
		return "", err
	}
	return MsgRegistered, nil
}

// ResendCode re-issues a verification code for a still-unverified account.
// The reply is generic: dispatch problems and unknown emails look identical.
func (u *Usecase) ResendCode(ctx context.Context, email string) string {
	email = normalizeEmail(email)

	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil || rec.IsActive {
		return MsgCodeResent
	}
	if err := u.issueAndDispatchCode(ctx, rec); err != nil {
		u.log.Warn("resend code", zap.Error(err))
	}
	return MsgCodeResent
}

// Verify consumes a code and activates the account. Consumption and
// activation commit together, and return a fresh access token.
func (u *Usecase) Verify(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)

	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return "", domainauth.ErrUserNotFound
	}

	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := u.codes.ConsumeLatest(ctx, rec.ID, code)
		if err != nil {
			return err
		}
		if !ok {
			return domainauth.ErrInvalidCode
		}
		return u.users.SetActive(ctx, rec.ID, true)
	})
	if err != nil {
		if errors.Is(err, domainauth.ErrInvalidCode) {
			return "", domainauth.ErrInvalidCode
		}
		return "", err
	}

	return u.issuer.IssueAccess(rec.ID)
}

// Login checks the password and returns an access token for active accounts.
func (u *Usecase) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return "", domainauth.ErrIncorrectCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return "", domainauth.ErrIncorrectCredentials
	}
	if !rec.IsActive {
		return "", domainauth.ErrEmailNotVerified
	}
	return u.issuer.IssueAccess(rec.ID)
}

// Logout is best-effort: a token that decodes gets its jti denylisted for the
// rest of its lifetime; a garbled token is not the caller's problem.
func (u *Usecase) Logout(ctx context.Context, raw string) string {
	if tok, err := u.codec.Decode(raw); err == nil {
		u.revoked.Revoke(ctx, tok.ID, tok.Remaining(u.cfg.Now()))
	}
	return MsgLoggedOut
}

// ForgotPassword replies with the same message for every input. When the
// account exists and is active, a reset link goes out; dispatch failures are
// logged and swallowed so the reply stays indistinguishable.
func (u *Usecase) ForgotPassword(ctx context.Context, email string) string {
	email = normalizeEmail(email)

	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil || !rec.IsActive {
		return MsgResetSent
	}

	reset, err := u.issuer.IssueReset(rec.ID)
	if err != nil {
		u.log.Error("issue reset token", zap.Error(err))
		return MsgResetSent
	}
	link := strings.TrimRight(u.cfg.FrontendURL, "/") + "/reset-password?token=" + reset
	if err := u.mail.SendResetLink(ctx, rec.Email, link); err != nil {
		u.log.Warn("send reset link", zap.Error(err))
	}
	return MsgResetSent
}

// InspectResetToken lets the front end decide whether to render the reset
// form before the user submits a new password.
func (u *Usecase) InspectResetToken(ctx context.Context, raw string) bool {
	_, err := u.validator.ValidateReset(ctx, raw)
	return err == nil
}

// ResetPassword replaces the credential and immediately denylists the reset
// token's jti: the token stays structurally valid until its natural expiry,
// so the denylist entry is what makes it single use.
func (u *Usecase) ResetPassword(ctx context.Context, raw, newPassword string) (string, error) {
	subject, err := u.validator.ValidateReset(ctx, raw)
	if err != nil {
		return "", err
	}

	rec, err := u.users.GetByID(ctx, subject)
	if err != nil {
		return "", domainauth.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := u.users.SetPasswordHash(ctx, rec.ID, string(hash)); err != nil {
		return "", err
	}

	if tok, err := u.codec.Decode(raw); err == nil {
		u.revoked.Revoke(ctx, tok.ID, tok.Remaining(u.cfg.Now()))
	}
	return MsgPasswordReset, nil
}

// ValidateAccess resolves a bearer token to a subject id for the
// request-authentication layer.
func (u *Usecase) ValidateAccess(ctx context.Context, raw string) (int64, error) {
	return u.validator.ValidateAccess(ctx, raw)
}

// TryValidateAccess is the optional-auth variant: any failure is just "no
// caller identity".
func (u *Usecase) TryValidateAccess(ctx context.Context, raw string) (int64, bool) {
	return u.validator.TryValidateAccess(ctx, raw)
}

func (u *Usecase) issueAndDispatchCode(ctx context.Context, rec *user.User) error {
	code, err := verification.GenerateCode()
	if err != nil {
		return err
	}
	vc := &verification.Code{
		UserID:    rec.ID,
		Code:      code,
		ExpiresAt: u.cfg.Now().Add(verification.CodeTTL),
	}
	if err := u.codes.Create(ctx, vc); err != nil {
		return err
	}
	if err := u.mail.SendVerification(ctx, rec.Email, code); err != nil {
		u.log.Error("send verification code", zap.Error(err))
		return domainauth.ErrDispatchFailed
	}
	return nil
}
