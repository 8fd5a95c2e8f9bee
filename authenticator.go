package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MaxLoginAttempts is the maximum number of attempts an account gets
// in a cool down period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// Auther drives the account lifecycle against an AccountStore
type Auther struct {
	store   AccountStore
	hasher  Hasher
	signer  TokenSigner
	sender  CodeSender
	logger  Logger
	codeTTL time.Duration
}

// NewAuthenticator returns a new Auther wired with the default bcrypt
// hasher, HS256 signer, and logging code sender.
func NewAuthenticator(store AccountStore, opts Config) *Auther {
	logger := defLogger{}

	return &Auther{
		store:   store,
		hasher:  bcryptHasher{},
		signer:  NewTokenSigner(opts, logger),
		sender:  &logSender{logger: logger},
		logger:  logger,
		codeTTL: durationOrDefault(opts.GetVerificationCodeTTL(), DefaultVerificationCodeTTL),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithHasher swaps the secret hasher
func (s *Auther) WithHasher(hasher Hasher) *Auther {
	s.hasher = hasher
	return s
}

// WithSigner swaps the token signer
func (s *Auther) WithSigner(signer TokenSigner) *Auther {
	s.signer = signer
	return s
}

// WithSender swaps the verification code sender
func (s *Auther) WithSender(sender CodeSender) *Auther {
	s.sender = sender
	return s
}

// Signer returns the TokenSigner instance used by this Auther
func (s *Auther) Signer() TokenSigner {
	return s.signer
}

// Register creates an unapproved, inactive account and issues its
// activation code. Registering an identifier that already has an
// inactive account quietly re-issues the code; only an active account
// makes registration fail.
func (s *Auther) Register(ctx context.Context, payload RegisterPayload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithTextCode("INVALID_INPUT")
	}

	email := normalizeEmail(payload.Email)

	existing, err := s.store.FindOne(ctx, AccountFilter{Email: email}, false)
	if err != nil && !goerrors.IsNotFound(err) {
		return "", wrapInternal(err, "failed to check for existing account")
	}

	if existing != nil && existing.Active {
		return "", ErrUserExists
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return "", wrapInternal(err, "failed to hash password")
	}

	account := &Account{
		Email:     email,
		Phone:     payload.Phone,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Username:  getUsername(payload.Username, email),
	}
	prepareAccountDefaults(account)

	status := AccountUnapproved
	active := false
	patch := AccountPatch{
		Role:         &account.Role,
		FirstName:    &account.FirstName,
		LastName:     &account.LastName,
		Username:     &account.Username,
		Phone:        &account.Phone,
		PasswordHash: &hash,
		Status:       &status,
		Active:       &active,
	}

	return s.issueVerification(ctx, AccountFilter{Email: email}, patch, account, CodePurposeActivation)
}

// Activate consumes a pending activation code: the account becomes
// approved and active and the code is cleared. An account that is
// already active cannot be activated again, even with a valid code.
func (s *Auther) Activate(ctx context.Context, identifier, code string) (*Account, error) {
	account, err := s.VerifyCode(ctx, identifier, code)
	if err != nil {
		return nil, err
	}

	if account.Active {
		return nil, ErrUserExists
	}

	status := AccountApproved
	active := true
	empty := ""
	var zero int64

	updated, err := s.store.FindOneAndUpdate(ctx, AccountFilter{ID: account.ID}, AccountPatch{
		Status:                  &status,
		Active:                  &active,
		VerificationCodeHash:    &empty,
		VerificationCodeExpires: &zero,
	})
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCode
		}
		return nil, wrapInternal(err, "failed to activate account")
	}

	return updated.Public(), nil
}

// Login authenticates credentials against an active account and binds
// a fresh refresh session. Check order is fixed: lookup, attempt cool
// down, password, blocked status, token issuance, session bind.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	ident, err := ResolveIdentifier(identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	filter := ident.Filter()
	active := true
	filter.Active = &active

	account, err := s.store.FindOne(ctx, filter, true)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrapInternal(err, "failed to retrieve account during login")
	}

	if account.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*account.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, wrapInternal(err, "failed to calculate login attempt cooldown")
		}

		if expired {
			account.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if account.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := s.hasher.Compare(password, account.PasswordHash); err != nil {
		if err2 := s.store.TrackAttemptedLogin(ctx, account); err2 != nil {
			return nil, wrapInternal(err2, "failed to track login attempt")
		}
		return nil, ErrInvalidCredentials
	}

	// blocked is reported only after the password checks out
	if err := statusAuthError(account.Status); err != nil {
		return nil, err
	}

	if err := s.store.TrackSuccessfulLogin(ctx, account); err != nil {
		s.logger.Error("failed to track successful login: %v", err)
	}

	pair, err := s.IssueTokens(TokenPayload{
		UserID: account.ID.String(),
		Role:   account.Role,
		Status: account.Status,
	}, false)
	if err != nil {
		return nil, err
	}

	if err := s.bindRefreshToken(ctx, account.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{Pair: pair, Account: account.Public()}, nil
}

// IssueTokens signs an access/refresh pair. With rotate the payload's
// session id is kept; otherwise a new session id is minted. ExpiresAt
// is read back from the signed access token rather than recomputed.
func (s *Auther) IssueTokens(payload TokenPayload, rotate bool) (*TokenPair, error) {
	if !rotate || payload.SessionID == "" {
		payload.SessionID = uuid.NewString()
	}

	access, err := s.signer.SignAccess(payload)
	if err != nil {
		return nil, wrapInternal(err, "failed to sign access token")
	}

	refresh, err := s.signer.SignRefresh(payload)
	if err != nil {
		return nil, wrapInternal(err, "failed to sign refresh token")
	}

	claims, err := s.signer.VerifyAccess(access)
	if err != nil {
		return nil, wrapInternal(err, "failed to read back access token expiry")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		SessionID:    payload.SessionID,
		ExpiresAt:    claims.Expires(),
	}, nil
}

// AccountFromAccessToken verifies an access token and loads the
// scrubbed account it was issued for.
func (s *Auther) AccountFromAccessToken(ctx context.Context, token string) (*Account, error) {
	claims, err := s.signer.VerifyAccess(token)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenMalformed
	}

	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapInternal(err, "failed to retrieve account from token")
	}

	return account.Public(), nil
}

// bindRefreshToken makes the given refresh token the one valid session
// for the account. The update has to land on exactly one row, a zero
// count means we lost a race with a concurrent logout or reset.
func (s *Auther) bindRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	hash, err := s.hasher.Hash(tokenDigest(refreshToken))
	if err != nil {
		return wrapInternal(err, "failed to hash refresh token")
	}

	n, err := s.store.UpdateByID(ctx, id, AccountPatch{HashedRefreshToken: &hash})
	if err != nil {
		return wrapInternal(err, "failed to persist refresh session")
	}

	if n < 1 {
		return goerrors.New("refresh session was not persisted", goerrors.CategoryInternal).
			WithTextCode("INTERNAL_ERROR").
			WithMetadata(map[string]any{"account_id": id.String()})
	}

	return nil
}

func normalizeEmail(email string) string {
	ident, err := ResolveIdentifier(email)
	if err != nil || ident.Kind != IdentifierEmail {
		return email
	}
	return ident.Value
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleGuest
	}

	record.EnsureStatus()

	if record.ID == uuid.Nil {
		record.ID = newAccountID(record.Email)
	}
}
