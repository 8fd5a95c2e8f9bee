package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountRole is the account's role
type AccountRole = string

const (
	// RoleGuest is a guest role (ie. view)
	RoleGuest AccountRole = "guest"
	// RoleMember is a member (i.e. view, edit)
	RoleMember AccountRole = "member"
	// RoleAdmin is an admin role (i.e. view, edit, create)
	RoleAdmin AccountRole = "admin"
	// RoleOwner is an owner role (i.e. view, edit, create, delete)
	RoleOwner AccountRole = "owner"
)

// AccountStatus is the moderation state of an account
type AccountStatus = string

const (
	// AccountUnapproved is the state between registration and activation
	AccountUnapproved AccountStatus = "unapproved"
	// AccountApproved is a verified account
	AccountApproved AccountStatus = "approved"
	// AccountBlocked can authenticate a password but never a session
	AccountBlocked AccountStatus = "blocked"
)

// Account is the account model. PasswordHash, HashedRefreshToken,
// VerificationCodeHash, and VerificationCodeExpires are trust artifacts
// and must never leave the package; hand out Public() projections.
type Account struct {
	bun.BaseModel           `bun:"table:accounts,alias:acc"`
	ID                      uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role                    AccountRole   `bun:"role,notnull" json:"role,omitempty"`
	FirstName               string        `bun:"first_name" json:"first_name,omitempty"`
	LastName                string        `bun:"last_name" json:"last_name,omitempty"`
	Username                string        `bun:"username,notnull,unique" json:"username,omitempty"`
	Email                   string        `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone                   string        `bun:"phone_number" json:"phone_number,omitempty"`
	NewEmail                string        `bun:"new_email" json:"-"`
	PasswordHash            string        `bun:"password_hash" json:"-"`
	Status                  AccountStatus `bun:"status,notnull" json:"status,omitempty"`
	Active                  bool          `bun:"active" json:"active"`
	HashedRefreshToken      string        `bun:"hashed_refresh_token" json:"-"`
	VerificationCodeHash    string        `bun:"verification_code_hash" json:"-"`
	VerificationCodeExpires int64         `bun:"verification_code_expires" json:"-"`
	LoginAttempts           int           `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt          *time.Time    `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt              *time.Time    `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt               *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt               *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt               *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Public returns a copy with every trust artifact cleared. This is the
// only shape the engine hands outward.
func (a *Account) Public() *Account {
	if a == nil {
		return nil
	}

	pub := *a
	pub.PasswordHash = ""
	pub.HashedRefreshToken = ""
	pub.VerificationCodeHash = ""
	pub.VerificationCodeExpires = 0
	pub.NewEmail = ""

	return &pub
}

// EnsureStatus backfills the zero value to unapproved
func (a *Account) EnsureStatus() {
	if a.Status == "" {
		a.Status = AccountUnapproved
	}
}

// HasVerificationCode reports whether a code is pending, without
// judging its expiry.
func (a *Account) HasVerificationCode() bool {
	return a != nil && a.VerificationCodeHash != ""
}

// CodeExpired reports whether the pending code lapsed at the given
// instant. Expiry is stored as epoch milliseconds.
func (a *Account) CodeExpired(now time.Time) bool {
	return a.VerificationCodeExpires > 0 && now.UnixMilli() > a.VerificationCodeExpires
}

func statusAuthError(status AccountStatus) error {
	if status == AccountBlocked {
		return ErrAccountBlocked
	}
	return nil
}
