package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// RequestPasswordReset issues a reset code to the account behind the
// email. Overwrites any pending code, latest code wins.
func (s *Auther) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	ident, err := ResolveIdentifier(email)
	if err != nil || ident.Kind != IdentifierEmail {
		return "", ErrInvalidInput
	}

	active := true
	account, err := s.store.FindOne(ctx, AccountFilter{Email: ident.Value, Active: &active}, false)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", wrapInternal(err, "failed to retrieve account for password reset")
	}

	return s.issueVerification(ctx, AccountFilter{ID: account.ID}, AccountPatch{}, account, CodePurposePasswordReset)
}

// ResetPassword consumes a reset code and replaces the password. The
// stored refresh session is cleared in the same update, a reset always
// forces a fresh login.
func (s *Auther) ResetPassword(ctx context.Context, payload ResetPasswordPayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload").
			WithTextCode("INVALID_INPUT")
	}

	account, err := s.VerifyCode(ctx, payload.Email, payload.Code)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return wrapInternal(err, "failed to hash password")
	}

	empty := ""
	var zero int64
	n, err := s.store.UpdateByID(ctx, account.ID, AccountPatch{
		PasswordHash:            &hash,
		HashedRefreshToken:      &empty,
		VerificationCodeHash:    &empty,
		VerificationCodeExpires: &zero,
	})
	if err != nil {
		return wrapInternal(err, "failed to reset password")
	}

	if n < 1 {
		return goerrors.New("password reset was not persisted", goerrors.CategoryInternal).
			WithTextCode("INTERNAL_ERROR").
			WithMetadata(map[string]any{"account_id": account.ID.String()})
	}

	return nil
}
