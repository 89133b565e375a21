package auth

import "errors"

// Error is an expected authentication outcome carrying a stable
// machine-readable code alongside a human message. The transport layer keys
// its responses off Code; Message is safe to show to the caller.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrEmailExists          = &Error{Code: "EMAIL_EXISTS", Message: "Email already registered"}
	ErrUserNotFound         = &Error{Code: "USER_NOT_FOUND", Message: "User not found"}
	ErrInvalidCode          = &Error{Code: "INVALID_CODE", Message: "Invalid or expired code"}
	ErrIncorrectCredentials = &Error{Code: "INCORRECT_CREDENTIALS", Message: "Incorrect email or password"}
	ErrEmailNotVerified     = &Error{Code: "EMAIL_NOT_VERIFIED", Message: "Email not verified"}
	ErrInvalidToken         = &Error{Code: "INVALID_TOKEN", Message: "Invalid token"}
	ErrExpiredToken         = &Error{Code: "EXPIRED_TOKEN", Message: "Token expired"}
	ErrRevokedToken         = &Error{Code: "REVOKED_TOKEN", Message: "Token revoked"}
	ErrNotAuthenticated     = &Error{Code: "NOT_AUTHENTICATED", Message: "Not authenticated"}
	ErrForbidden            = &Error{Code: "FORBIDDEN", Message: "Forbidden"}
	ErrDispatchFailed       = &Error{Code: "DISPATCH_FAILED", Message: "Could not send email, try again later"}
)

// IsTokenFailure reports whether err is one of the token validation outcomes.
// Callers present all of them uniformly as "not authenticated" so a probing
// client cannot tell a revoked token from a forged one.
func IsTokenFailure(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	switch ae {
	case ErrInvalidToken, ErrExpiredToken, ErrRevokedToken:
		return true
	}
	return false
}
