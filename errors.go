package auth

import (
	"github.com/goliatone/go-errors"
)

// ErrUserExists is returned when registration targets an already active account
var ErrUserExists = errors.New("an account with that identifier already exists", errors.CategoryConflict).
	WithTextCode("USER_EXISTS")

// ErrUserNotFound is returned when an account lookup by a caller-supplied id comes up empty
var ErrUserNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("USER_NOT_FOUND")

// ErrInvalidCode covers every verification code failure: unknown
// identifier, no pending code, expired code, and mismatched code all
// look the same to the caller.
var ErrInvalidCode = errors.New("verification code is invalid or expired", errors.CategoryAuth).
	WithTextCode("INVALID_CODE")

// ErrInvalidCredentials covers every credential failure during login:
// unknown identifier, inactive account, and wrong password are
// indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS")

// ErrAccountBlocked is returned after credentials check out but the account is blocked
var ErrAccountBlocked = errors.New("account is blocked", errors.CategoryAuth).
	WithTextCode("ACCOUNT_BLOCKED")

// ErrTooManyLoginAttempts is returned while the login attempt cool down is in force
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode("TOO_MANY_ATTEMPTS")

// ErrCouldNotCreateUser is returned when a code issuing upsert neither matched nor created a row
var ErrCouldNotCreateUser = errors.New("could not create or update account", errors.CategoryInternal).
	WithTextCode("COULD_NOT_CREATE_USER")

// ErrTokensNotMatching is returned when a refresh token verifies but is
// not the one bound to the account, or no session is bound at all.
var ErrTokensNotMatching = errors.New("refresh token does not match active session", errors.CategoryAuth).
	WithTextCode("TOKENS_NOT_MATCHING")

// ErrTokenExpired is returned for structurally valid but expired tokens
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned for tokens that fail signature or shape checks
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// ErrInvalidInput is returned when an identifier cannot be resolved to
// an email, phone number, or account id.
var ErrInvalidInput = errors.New("identifier is not an email, phone number, or id", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_INPUT")

// ErrNoEmptyString is returned when a hash is requested for an empty value
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithTextCode("INVALID_INPUT")

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error
var ErrMismatchedHashAndPassword = errors.New("hash does not match value", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS")

// wrapInternal keeps rich errors intact and converts everything else
// into the package error shape at the operation boundary.
func wrapInternal(err error, msg string) error {
	if err == nil {
		return nil
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}

	return errors.Wrap(err, errors.CategoryInternal, msg).
		WithTextCode("INTERNAL_ERROR")
}
