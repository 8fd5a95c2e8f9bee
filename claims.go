package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token use claim values. A refresh token never passes access
// verification and vice versa.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// TokenClaims are the claims stamped into both tokens of a pair
type TokenClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	SessionID string `json:"sid,omitempty"`
	UserRole  string `json:"role,omitempty"`
	Status    string `json:"status,omitempty"`
	TokenUse  string `json:"use,omitempty"`
}

// UserID returns the account id, falling back to the subject claim
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// UserUUID parses the account id claim
func (c *TokenClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// Payload rebuilds the claim material, so rotation can re-issue a pair
// under the same session id.
func (c *TokenClaims) Payload() TokenPayload {
	return TokenPayload{
		UserID:    c.UserID(),
		SessionID: c.SessionID,
		Role:      c.UserRole,
		Status:    AccountStatus(c.Status),
	}
}

// HasRole checks if the claims carry a specific role
func (c *TokenClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the claims' role is at least the minimum required role
func (c *TokenClaims) IsAtLeast(minRole AccountRole) bool {
	return RoleIsAtLeast(AccountRole(c.UserRole), minRole)
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *TokenClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
