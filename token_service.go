package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenSignerImpl implements the TokenSigner interface over HS256
type TokenSignerImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenSigner creates a new TokenSigner instance
func NewTokenSigner(cfg Config, logger Logger) TokenSigner {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenSignerImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		accessTTL:  durationOrDefault(cfg.GetAccessTokenTTL(), DefaultAccessTokenTTL),
		refreshTTL: durationOrDefault(cfg.GetRefreshTokenTTL(), DefaultRefreshTokenTTL),
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     logger,
	}
}

// SignAccess signs an access token for the payload
func (ts *TokenSignerImpl) SignAccess(payload TokenPayload) (string, error) {
	return ts.sign(payload, TokenUseAccess, ts.accessTTL)
}

// SignRefresh signs a refresh token for the payload
func (ts *TokenSignerImpl) SignRefresh(payload TokenPayload) (string, error) {
	return ts.sign(payload, TokenUseRefresh, ts.refreshTTL)
}

func (ts *TokenSignerImpl) sign(payload TokenPayload, use string, ttl time.Duration) (string, error) {
	if payload.UserID == "" {
		return "", errors.New("token payload has no user id", errors.CategoryInternal)
	}

	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   payload.UserID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:       payload.UserID,
		SessionID: payload.SessionID,
		UserRole:  payload.Role,
		Status:    string(payload.Status),
		TokenUse:  use,
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// VerifyAccess parses and validates an access token
func (ts *TokenSignerImpl) VerifyAccess(token string) (*TokenClaims, error) {
	return ts.verify(token, TokenUseAccess)
}

// VerifyRefresh parses and validates a refresh token
func (ts *TokenSignerImpl) VerifyRefresh(token string) (*TokenClaims, error) {
	return ts.verify(token, TokenUseRefresh)
}

func (ts *TokenSignerImpl) verify(tokenString, use string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenSigner verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenSigner verify could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	if claims.TokenUse != use {
		return nil, errors.New("token presented for the wrong use", ErrTokenMalformed.Category).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithMetadata(map[string]any{"want": use, "got": claims.TokenUse})
	}

	return claims, nil
}
