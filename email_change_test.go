package auth_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/goliatone/go-authflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestEmailChange(t *testing.T) {
	ctx := context.Background()
	newEmail := "pepe.nuevo@example.com"

	t.Run("stages the new address and issues a code", func(t *testing.T) {
		account := activeAccount()

		store := &MockAccountStore{}
		store.On("FindOne", ctx, auth.AccountFilter{ID: account.ID, Active: boolPtr(true)}, false).
			Return(account.Public(), nil)
		store.On("FindOne", ctx, auth.AccountFilter{Email: newEmail}, false).
			Return(nil, notFoundErr())

		var captured auth.AccountPatch
		store.On("UpsertOne", ctx, auth.AccountFilter{ID: account.ID}, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(auth.AccountPatch)
			}).
			Return(auth.UpsertResult{Matched: 1, Modified: 1}, nil)

		auther := newTestAuther(store)

		code, err := auther.RequestEmailChange(ctx, account.ID, newEmail)
		require.NoError(t, err)
		assert.Len(t, code, auth.DefaultCodeLength)

		require.NotNil(t, captured.NewEmail)
		assert.Equal(t, newEmail, *captured.NewEmail)
		require.NotNil(t, captured.VerificationCodeHash)
		assert.Equal(t, "hashed:"+code, *captured.VerificationCodeHash)
	})

	t.Run("the code goes to the address being claimed", func(t *testing.T) {
		account := activeAccount()

		store := &MockAccountStore{}
		store.On("FindOne", ctx, mock.Anything, false).
			Return(account.Public(), nil).Once()
		store.On("FindOne", ctx, auth.AccountFilter{Email: newEmail}, false).
			Return(nil, notFoundErr())
		store.On("UpsertOne", ctx, mock.Anything, mock.Anything).
			Return(auth.UpsertResult{Matched: 1, Modified: 1}, nil)

		sender := &MockSender{}
		var sentTo string
		sender.On("SendCode", mock.Anything, mock.Anything, mock.Anything, auth.CodePurposeEmailChange).
			Run(func(args mock.Arguments) {
				sentTo = args.Get(1).(*auth.Account).Email
			}).
			Return(nil)

		auther := auth.NewAuthenticator(store, testConfig()).
			WithHasher(plainHasher{}).
			WithSender(sender)

		_, err := auther.RequestEmailChange(ctx, account.ID, newEmail)
		require.NoError(t, err)
		assert.Equal(t, newEmail, sentTo)
	})

	t.Run("the current address is rejected", func(t *testing.T) {
		account := activeAccount()

		store := &MockAccountStore{}
		store.On("FindOne", ctx, auth.AccountFilter{ID: account.ID, Active: boolPtr(true)}, false).
			Return(account.Public(), nil)

		auther := newTestAuther(store)

		_, err := auther.RequestEmailChange(ctx, account.ID, account.Email)
		require.ErrorIs(t, err, auth.ErrInvalidInput)
		store.AssertNotCalled(t, "UpsertOne", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an address held by another account is rejected", func(t *testing.T) {
		account := activeAccount()
		other := activeAccount()
		other.Email = newEmail

		store := &MockAccountStore{}
		store.On("FindOne", ctx, auth.AccountFilter{ID: account.ID, Active: boolPtr(true)}, false).
			Return(account.Public(), nil)
		store.On("FindOne", ctx, auth.AccountFilter{Email: newEmail}, false).
			Return(other.Public(), nil)

		auther := newTestAuther(store)

		_, err := auther.RequestEmailChange(ctx, account.ID, newEmail)
		require.ErrorIs(t, err, auth.ErrUserExists)
		store.AssertNotCalled(t, "UpsertOne", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed address", func(t *testing.T) {
		auther := newTestAuther(&MockAccountStore{})

		_, err := auther.RequestEmailChange(ctx, activeAccount().ID, "not-an-email")
		require.ErrorIs(t, err, auth.ErrInvalidInput)
	})
}

func TestConfirmEmailChange(t *testing.T) {
	ctx := context.Background()
	newEmail := "pepe.nuevo@example.com"

	staged := func() *auth.Account {
		account := activeAccount()
		account.NewEmail = newEmail
		account.VerificationCodeHash = "hashed:123456"
		account.VerificationCodeExpires = time.Now().Add(10 * time.Minute).UnixMilli()
		return account
	}

	payload := auth.ConfirmEmailChangePayload{
		Code:     "123456",
		Password: "secret-password",
	}

	t.Run("swaps the address and clears the session", func(t *testing.T) {
		account := staged()

		store := &MockAccountStore{}
		store.On("FindOne", ctx, auth.AccountFilter{ID: account.ID}, true).
			Return(account, nil)

		var captured auth.AccountPatch
		store.On("UpdateByID", ctx, account.ID, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(auth.AccountPatch)
			}).
			Return(int64(1), nil)

		auther := newTestAuther(store)

		require.NoError(t, auther.ConfirmEmailChange(ctx, account.ID, payload))

		require.NotNil(t, captured.Email)
		assert.Equal(t, newEmail, *captured.Email)
		require.NotNil(t, captured.NewEmail)
		assert.Empty(t, *captured.NewEmail)
		require.NotNil(t, captured.HashedRefreshToken)
		assert.Empty(t, *captured.HashedRefreshToken)
		require.NotNil(t, captured.VerificationCodeHash)
		assert.Empty(t, *captured.VerificationCodeHash)
	})

	t.Run("wrong password fails before the code is considered", func(t *testing.T) {
		account := staged()

		store := &MockAccountStore{}
		store.On("FindOne", ctx, mock.Anything, true).Return(account, nil)

		auther := newTestAuther(store)

		err := auther.ConfirmEmailChange(ctx, account.ID, auth.ConfirmEmailChangePayload{
			Code:     "123456",
			Password: "wrong-password",
		})
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		store.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no staged address reads as an invalid code", func(t *testing.T) {
		account := staged()
		account.NewEmail = ""

		store := &MockAccountStore{}
		store.On("FindOne", ctx, mock.Anything, true).Return(account, nil)

		auther := newTestAuther(store)

		err := auther.ConfirmEmailChange(ctx, account.ID, payload)
		require.ErrorIs(t, err, auth.ErrInvalidCode)
	})

	t.Run("expired code fails", func(t *testing.T) {
		account := staged()
		account.VerificationCodeExpires = time.Now().Add(-time.Minute).UnixMilli()

		store := &MockAccountStore{}
		store.On("FindOne", ctx, mock.Anything, true).Return(account, nil)

		auther := newTestAuther(store)

		err := auther.ConfirmEmailChange(ctx, account.ID, payload)
		require.ErrorIs(t, err, auth.ErrInvalidCode)
	})
}
