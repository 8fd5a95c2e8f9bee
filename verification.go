package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultCodeLength is the number of digits in a verification code
const DefaultCodeLength = 6

// randomCode draws n decimal digits from crypto/rand
func randomCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification code")
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}

// issueVerification is the single code issuing path shared by
// registration, password reset, and email change. It overwrites
// whatever code was pending (latest code wins), upserts through the
// store, and hands the cleartext code to the sender. A sender failure
// is logged, never propagated.
func (s *Auther) issueVerification(ctx context.Context, filter AccountFilter, patch AccountPatch, account *Account, purpose CodePurpose) (string, error) {
	code, err := randomCode(DefaultCodeLength)
	if err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", wrapInternal(err, "failed to hash verification code")
	}

	expires := time.Now().Add(s.codeTTL).UnixMilli()
	patch.VerificationCodeHash = &hash
	patch.VerificationCodeExpires = &expires

	res, err := s.store.UpsertOne(ctx, filter, patch)
	if err != nil {
		return "", wrapInternal(err, "failed to persist verification code")
	}

	if res.Matched == 0 && res.Upserted == 0 {
		return "", ErrCouldNotCreateUser
	}

	if err := s.sender.SendCode(ctx, account, code, purpose); err != nil {
		s.logger.Warn("failed to deliver %s verification code: %v", purpose, err)
	}

	return code, nil
}

// VerifyCode checks a verification code against the pending code hash.
// Unknown identifier, missing code, expired code, and mismatched code
// all return ErrInvalidCode. The account comes back scrubbed and the
// pending code stays in place, callers that consume it clear it in
// their own update.
func (s *Auther) VerifyCode(ctx context.Context, identifier, code string) (*Account, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}

	ident, err := ResolveIdentifier(identifier)
	if err != nil {
		return nil, ErrInvalidCode
	}

	account, err := s.store.FindOne(ctx, ident.Filter(), true)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCode
		}
		return nil, wrapInternal(err, "failed to retrieve account for code verification")
	}

	if !account.HasVerificationCode() || account.CodeExpired(time.Now()) {
		return nil, ErrInvalidCode
	}

	if err := s.hasher.Compare(code, account.VerificationCodeHash); err != nil {
		return nil, ErrInvalidCode
	}

	return account.Public(), nil
}
