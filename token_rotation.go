package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// ValidateRefresh verifies a refresh token cryptographically and then
// against the session bound to the account. A verified token whose
// digest does not match the stored hash, or an account with no bound
// session, fails with ErrTokensNotMatching. A token whose account no
// longer exists fails with ErrUserNotFound.
func (s *Auther) ValidateRefresh(ctx context.Context, token string) (*RefreshSession, error) {
	claims, err := s.signer.VerifyRefresh(token)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenMalformed
	}

	account, err := s.store.FindOne(ctx, AccountFilter{ID: id}, true)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapInternal(err, "failed to retrieve account for refresh validation")
	}

	if account.HashedRefreshToken == "" {
		return nil, ErrTokensNotMatching
	}

	if err := s.hasher.Compare(tokenDigest(token), account.HashedRefreshToken); err != nil {
		return nil, ErrTokensNotMatching
	}

	return &RefreshSession{Claims: claims, Account: account.Public()}, nil
}

// Logout invalidates the refresh session. The token must still be the
// bound one; clearing a session that was already cleared or rebound is
// an error, not a silent success.
func (s *Auther) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	empty := ""
	n, err := s.store.UpdateByID(ctx, session.Account.ID, AccountPatch{HashedRefreshToken: &empty})
	if err != nil {
		return wrapInternal(err, "failed to clear refresh session")
	}

	if n < 1 {
		return goerrors.New("refresh session was not cleared", goerrors.CategoryInternal).
			WithTextCode("INTERNAL_ERROR").
			WithMetadata(map[string]any{"account_id": session.Account.ID.String()})
	}

	return nil
}

// Rotate exchanges a valid refresh token for a fresh pair under the
// same session id and rebinds the stored refresh hash. The old refresh
// token is dead the moment the bind lands.
func (s *Auther) Rotate(ctx context.Context, refreshToken string) (*LoginResult, error) {
	session, err := s.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.IssueTokens(session.Claims.Payload(), true)
	if err != nil {
		return nil, err
	}

	if err := s.bindRefreshToken(ctx, session.Account.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{Pair: pair, Account: session.Account}, nil
}
