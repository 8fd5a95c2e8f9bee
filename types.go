package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetVerificationCodeTTL() time.Duration
}

// Hasher hashes and verifies secrets. Compare must be constant time
// for equal length inputs.
type Hasher interface {
	Hash(value string) (string, error)
	Compare(value, hash string) error
}

// TokenSigner signs and verifies the access/refresh token pair. Verify
// methods reject tokens whose use claim does not match.
type TokenSigner interface {
	SignAccess(payload TokenPayload) (string, error)
	SignRefresh(payload TokenPayload) (string, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
}

// CodePurpose tags what a verification code was issued for
type CodePurpose string

const (
	CodePurposeActivation    CodePurpose = "activation"
	CodePurposePasswordReset CodePurpose = "password_reset"
	CodePurposeEmailChange   CodePurpose = "email_change"
)

// CodeSender delivers verification codes. Send failures are logged by
// the engine but never roll back code issuance.
type CodeSender interface {
	SendCode(ctx context.Context, account *Account, code string, purpose CodePurpose) error
}

// TokenPayload is the claim material stamped into both tokens of a pair
type TokenPayload struct {
	UserID    string
	SessionID string
	Role      string
	Status    AccountStatus
}

// TokenPair is an access/refresh token pair sharing a session id.
// ExpiresAt is the access token expiry read back from the signed token.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	SessionID    string    `json:"session_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResult is what Login and Rotate hand back: the pair plus the
// scrubbed account it was issued for.
type LoginResult struct {
	Pair    *TokenPair `json:"tokens"`
	Account *Account   `json:"account"`
}

// RefreshSession is a validated refresh token: its decoded claims and
// the scrubbed account they belong to.
type RefreshSession struct {
	Claims  *TokenClaims
	Account *Account
}

// AccountFilter selects accounts. Zero fields are ignored; Active is a
// tri-state so lookups can be restricted to active accounts.
type AccountFilter struct {
	ID     uuid.UUID
	Email  string
	Phone  string
	Active *bool
}

// AccountPatch is a partial update. Pointer fields distinguish "leave
// alone" from "set to zero", so clearing a stored secret to "" is
// expressible.
type AccountPatch struct {
	Role                    *string
	FirstName               *string
	LastName                *string
	Username                *string
	Email                   *string
	Phone                   *string
	NewEmail                *string
	PasswordHash            *string
	Status                  *AccountStatus
	Active                  *bool
	HashedRefreshToken      *string
	VerificationCodeHash    *string
	VerificationCodeExpires *int64
}

// UpsertResult reports what an UpsertOne did. Counts must be accurate,
// the engine uses them to detect lost races instead of re-reading.
type UpsertResult struct {
	Matched  int64
	Modified int64
	Upserted int64
}

// AccountStore is the persistence contract the engine runs against
type AccountStore interface {
	FindOne(ctx context.Context, filter AccountFilter, includeSecrets bool) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindOneAndUpdate(ctx context.Context, filter AccountFilter, patch AccountPatch) (*Account, error)
	UpsertOne(ctx context.Context, filter AccountFilter, patch AccountPatch) (UpsertResult, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch AccountPatch) (int64, error)
	TrackAttemptedLogin(ctx context.Context, account *Account) error
	TrackSuccessfulLogin(ctx context.Context, account *Account) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
