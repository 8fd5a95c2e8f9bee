package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionObject is a transport neutral projection of verified token
// claims for consumers that do not want to touch JWTs.
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	SessionID      string     `json:"session_id,omitempty"`
	Role           string     `json:"role,omitempty"`
	Status         string     `json:"status,omitempty"`
	Audience       []string   `json:"audience,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

// IsAtLeast checks if the session's role is at least the minimum required role
func (s *SessionObject) IsAtLeast(minRole AccountRole) bool {
	return RoleIsAtLeast(AccountRole(s.Role), minRole)
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s sid=%s role=%s iss=%s iat=%s",
		s.UserID,
		s.SessionID,
		s.Role,
		s.Issuer,
		issuedAt,
	)
}

// NewSessionFromClaims projects verified token claims into a SessionObject
func NewSessionFromClaims(claims *TokenClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	var audience []string
	for _, aud := range claims.RegisteredClaims.Audience {
		audience = append(audience, aud)
	}

	issuedAt := claims.Issued()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		SessionID:      claims.SessionID,
		Role:           claims.UserRole,
		Status:         claims.Status,
		Audience:       audience,
		Issuer:         claims.RegisteredClaims.Issuer,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
