package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RequestEmailChange stages a new address on the account and issues a
// verification code to it. The current address stays live until the
// change is confirmed.
func (s *Auther) RequestEmailChange(ctx context.Context, id uuid.UUID, newEmail string) (string, error) {
	ident, err := ResolveIdentifier(newEmail)
	if err != nil || ident.Kind != IdentifierEmail {
		return "", ErrInvalidInput
	}
	newEmail = ident.Value

	active := true
	account, err := s.store.FindOne(ctx, AccountFilter{ID: id, Active: &active}, false)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", wrapInternal(err, "failed to retrieve account for email change")
	}

	if newEmail == account.Email {
		return "", ErrInvalidInput
	}

	taken, err := s.store.FindOne(ctx, AccountFilter{Email: newEmail}, false)
	if err != nil && !goerrors.IsNotFound(err) {
		return "", wrapInternal(err, "failed to check new email availability")
	}
	if taken != nil && taken.ID != account.ID {
		return "", ErrUserExists
	}

	// the sender must target the address being claimed
	notify := *account
	notify.Email = newEmail

	return s.issueVerification(ctx, AccountFilter{ID: account.ID}, AccountPatch{
		NewEmail: &newEmail,
	}, &notify, CodePurposeEmailChange)
}

// ConfirmEmailChange swaps the staged address in after re-verifying
// the password and the code. The refresh session is cleared so every
// client re-authenticates under the new address.
func (s *Auther) ConfirmEmailChange(ctx context.Context, id uuid.UUID, payload ConfirmEmailChangePayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid email change payload").
			WithTextCode("INVALID_INPUT")
	}

	account, err := s.store.FindOne(ctx, AccountFilter{ID: id}, true)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return wrapInternal(err, "failed to retrieve account for email change confirmation")
	}

	if err := s.hasher.Compare(payload.Password, account.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	if account.NewEmail == "" {
		return ErrInvalidCode
	}

	if !account.HasVerificationCode() || account.CodeExpired(time.Now()) {
		return ErrInvalidCode
	}

	if err := s.hasher.Compare(payload.Code, account.VerificationCodeHash); err != nil {
		return ErrInvalidCode
	}

	email := account.NewEmail
	empty := ""
	var zero int64
	n, err := s.store.UpdateByID(ctx, account.ID, AccountPatch{
		Email:                   &email,
		NewEmail:                &empty,
		HashedRefreshToken:      &empty,
		VerificationCodeHash:    &empty,
		VerificationCodeExpires: &zero,
	})
	if err != nil {
		return wrapInternal(err, "failed to confirm email change")
	}

	if n < 1 {
		return goerrors.New("email change was not persisted", goerrors.CategoryInternal).
			WithTextCode("INTERNAL_ERROR").
			WithMetadata(map[string]any{"account_id": account.ID.String()})
	}

	return nil
}
