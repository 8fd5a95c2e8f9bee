package auth_test

import (
	"context"
	"fmt"
	"time"

	auth "github.com/goliatone/go-authflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements auth.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindOne(ctx context.Context, filter auth.AccountFilter, includeSecrets bool) (*auth.Account, error) {
	args := m.Called(ctx, filter, includeSecrets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockAccountStore) FindOneAndUpdate(ctx context.Context, filter auth.AccountFilter, patch auth.AccountPatch) (*auth.Account, error) {
	args := m.Called(ctx, filter, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockAccountStore) UpsertOne(ctx context.Context, filter auth.AccountFilter, patch auth.AccountPatch) (auth.UpsertResult, error) {
	args := m.Called(ctx, filter, patch)
	return args.Get(0).(auth.UpsertResult), args.Error(1)
}

func (m *MockAccountStore) UpdateByID(ctx context.Context, id uuid.UUID, patch auth.AccountPatch) (int64, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) TrackAttemptedLogin(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) TrackSuccessfulLogin(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockSender implements auth.CodeSender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendCode(ctx context.Context, account *auth.Account, code string, purpose auth.CodePurpose) error {
	args := m.Called(ctx, account, code, purpose)
	return args.Error(0)
}

// plainHasher trades bcrypt for string prefixing so engine tests do
// not pay the hashing cost.
type plainHasher struct{}

func (plainHasher) Hash(value string) (string, error) {
	if value == "" {
		return "", auth.ErrNoEmptyString
	}
	return "hashed:" + value, nil
}

func (plainHasher) Compare(value, hash string) error {
	if "hashed:"+value != hash {
		return auth.ErrMismatchedHashAndPassword
	}
	return nil
}

// captureLogger renders entries the way the default printf logger
// does, so tests can assert on the formatted output.
type captureLogger struct {
	entries []string
}

func (l *captureLogger) record(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Debug(format string, args ...any) { l.record(format, args...) }
func (l *captureLogger) Info(format string, args ...any)  { l.record(format, args...) }
func (l *captureLogger) Warn(format string, args ...any)  { l.record(format, args...) }
func (l *captureLogger) Error(format string, args ...any) { l.record(format, args...) }

func testConfig() auth.SimpleConfig {
	return auth.SimpleConfig{
		SigningKey:          "test-signing-key",
		Issuer:              "authflow-test",
		Audience:            []string{"api"},
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     24 * time.Hour,
		VerificationCodeTTL: 30 * time.Minute,
	}
}

func newTestAuther(store auth.AccountStore) *auth.Auther {
	sender := &MockSender{}
	sender.On("SendCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	return auth.NewAuthenticator(store, testConfig()).
		WithHasher(plainHasher{}).
		WithSender(sender)
}

func activeAccount() *auth.Account {
	id := uuid.New()
	return &auth.Account{
		ID:           id,
		Email:        "pepe.rone@example.com",
		Username:     "pepe.rone",
		Role:         auth.RoleMember,
		Status:       auth.AccountApproved,
		Active:       true,
		PasswordHash: "hashed:secret-password",
	}
}

func boolPtr(b bool) *bool { return &b }
