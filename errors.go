package session

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidCredentials   = "auth_invalid_credentials"
	TextCodeNoActiveSession      = "auth_no_active_session"
	TextCodeSignUpFailed         = "auth_signup_failed"
	TextCodeSignOutFailed        = "auth_signout_failed"
	TextCodePasswordUpdateFailed = "auth_password_update_failed"
	TextCodeProviderUnavailable  = "auth_provider_unavailable"
	TextCodeProfileNotFound      = "profile_not_found"
	TextCodeProfileReadFailed    = "profile_read_failed"
	TextCodeProfileWriteFailed   = "profile_write_failed"
)

// ErrInvalidCredentials is returned when the provider rejects a login.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNoActiveSession is returned when an operation requires a logged in user.
var ErrNoActiveSession = errors.New("no active session", errors.CategoryAuth).
	WithTextCode(TextCodeNoActiveSession).
	WithCode(errors.CodeUnauthorized)

// ErrSignUpFailed is returned when account creation fails at the provider.
var ErrSignUpFailed = errors.New("account creation failed", errors.CategoryAuth).
	WithTextCode(TextCodeSignUpFailed).
	WithCode(errors.CodeUnauthorized)

// ErrSignOutFailed is returned when the provider fails to end the session.
var ErrSignOutFailed = errors.New("sign out failed", errors.CategoryAuth).
	WithTextCode(TextCodeSignOutFailed).
	WithCode(errors.CodeUnauthorized)

// ErrPasswordUpdateFailed is returned when the provider rejects a password change.
var ErrPasswordUpdateFailed = errors.New("password update failed", errors.CategoryAuth).
	WithTextCode(TextCodePasswordUpdateFailed).
	WithCode(errors.CodeUnauthorized)

// ErrProfileNotFound is returned when no profile row exists for an id.
var ErrProfileNotFound = errors.New("profile not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProfileNotFound).
	WithCode(errors.CodeNotFound)

// ErrProfileReadFailed is returned when the profile store read fails.
var ErrProfileReadFailed = errors.New("failed to read profile", errors.CategoryOperation).
	WithTextCode(TextCodeProfileReadFailed).
	WithCode(errors.CodeInternal)

// ErrProfileWriteFailed is returned when the profile store write fails.
var ErrProfileWriteFailed = errors.New("failed to write profile", errors.CategoryOperation).
	WithTextCode(TextCodeProfileWriteFailed).
	WithCode(errors.CodeInternal)

// IsAuthError reports whether err originated in the identity provider layer.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// IsProfileError reports whether err originated in the profile store layer.
func IsProfileError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	switch richErr.TextCode {
	case TextCodeProfileNotFound, TextCodeProfileReadFailed, TextCodeProfileWriteFailed:
		return true
	}
	return false
}
