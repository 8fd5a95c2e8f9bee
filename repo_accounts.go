package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// secretColumns are excluded from lookups unless the caller asks for
// trust artifacts explicitly.
var secretColumns = []string{
	"password_hash",
	"hashed_refresh_token",
	"verification_code_hash",
	"verification_code_expires",
	"new_email",
}

// Accounts is the Bun backed account repository. It satisfies
// AccountStore plus the generic repository surface for callers that
// need direct record access.
type Accounts interface {
	repository.Repository[*Account]
	AccountStore

	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, account *Account) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, account *Account) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts                        = (*accounts)(nil)
	_ AccountStore                    = (*accounts)(nil)
	_ repository.Repository[*Account] = (*accounts)(nil)
)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *accounts) FindOne(ctx context.Context, filter AccountFilter, includeSecrets bool) (*Account, error) {
	record := &Account{}
	q := a.db.NewSelect().Model(record)

	if !includeSecrets {
		q.ExcludeColumn(secretColumns...)
	}

	if !applyAccountFilter(q, filter) {
		return nil, accountNotFound(filter)
	}

	if err := q.Limit(1).Scan(ctx); err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, accountNotFound(filter)
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return a.FindOne(ctx, AccountFilter{ID: id}, false)
}

func (a *accounts) FindOneAndUpdate(ctx context.Context, filter AccountFilter, patch AccountPatch) (*Account, error) {
	record := &Account{}
	q := a.db.NewUpdate().Model(record).
		Where("?TableAlias.deleted_at IS NULL")

	if !applyAccountUpdateFilter(q, filter) {
		return nil, accountNotFound(filter)
	}

	applyAccountPatch(q, patch)

	res, err := q.Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, accountNotFound(filter)
	}

	return record, nil
}

// UpsertOne updates the matching account or creates one from the
// filter plus patch. Counts come straight from the driver so callers
// can detect a lost race; an insert racing a concurrent insert
// surfaces the unique constraint error.
func (a *accounts) UpsertOne(ctx context.Context, filter AccountFilter, patch AccountPatch) (UpsertResult, error) {
	existing, err := a.FindOne(ctx, filter, true)
	if err == nil {
		n, err := a.UpdateByID(ctx, existing.ID, patch)
		if err != nil {
			return UpsertResult{}, err
		}
		return UpsertResult{Matched: 1, Modified: n}, nil
	}

	if !goerrors.IsNotFound(err) {
		return UpsertResult{}, err
	}

	record := &Account{
		ID:    filter.ID,
		Email: filter.Email,
		Phone: filter.Phone,
	}
	patch.apply(record)

	if _, err := a.Create(ctx, record); err != nil {
		return UpsertResult{}, err
	}

	return UpsertResult{Upserted: 1}, nil
}

func (a *accounts) UpdateByID(ctx context.Context, id uuid.UUID, patch AccountPatch) (int64, error) {
	q := a.db.NewUpdate().Model((*Account)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL")

	applyAccountPatch(q, patch)

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (a *accounts) TrackAttemptedLogin(ctx context.Context, account *Account) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, account)
}

func (a *accounts) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, account *Account) error {
	now := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "accounts" AS "acc"
		SET
			"login_attempts" = ?,
			"login_attempt_at" = ?
		WHERE
			("acc".id = ?)
			AND "acc"."deleted_at" IS NULL;
	`, account.LoginAttempts+1, now, account.ID).Exec(ctx)

	return err
}

func (a *accounts) TrackSuccessfulLogin(ctx context.Context, account *Account) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, account)
}

func (a *accounts) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, account *Account) error {
	// NOTE: updating through the ORM fails to reset the nullable
	// login_attempt_at column, hence raw SQL.
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "accounts" AS "acc"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("acc".id = ?)
			AND "acc"."deleted_at" IS NULL;
	`, loggedInAt, account.ID).Exec(ctx)

	return err
}

// applyAccountFilter narrows a select to the filter. Returns false for
// an empty filter so lookups never scan the whole table.
func applyAccountFilter(q *bun.SelectQuery, filter AccountFilter) bool {
	matched := false

	if filter.ID != uuid.Nil {
		q.Where("?TableAlias.id = ?", filter.ID)
		matched = true
	}

	if filter.Email != "" {
		q.Where("?TableAlias.email = ?", filter.Email)
		matched = true
	}

	if filter.Phone != "" {
		q.Where("?TableAlias.phone_number = ?", filter.Phone)
		matched = true
	}

	if filter.Active != nil {
		q.Where("?TableAlias.active = ?", *filter.Active)
	}

	return matched
}

func applyAccountUpdateFilter(q *bun.UpdateQuery, filter AccountFilter) bool {
	matched := false

	if filter.ID != uuid.Nil {
		q.Where("?TableAlias.id = ?", filter.ID)
		matched = true
	}

	if filter.Email != "" {
		q.Where("?TableAlias.email = ?", filter.Email)
		matched = true
	}

	if filter.Phone != "" {
		q.Where("?TableAlias.phone_number = ?", filter.Phone)
		matched = true
	}

	if filter.Active != nil {
		q.Where("?TableAlias.active = ?", *filter.Active)
	}

	return matched
}

func applyAccountPatch(q *bun.UpdateQuery, patch AccountPatch) {
	for _, c := range patch.columns() {
		q.Set("? = ?", bun.Ident(c.col), c.val)
	}
	q.Set("? = ?", bun.Ident("updated_at"), time.Now())
}

// accountNotFound maps a missing row to the not found category the
// engine tests with goerrors.IsNotFound. The raw repository not found
// carries a database specific category the engine does not recognize.
func accountNotFound(filter AccountFilter) error {
	return goerrors.New("account not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode("RECORD_NOT_FOUND").
		WithMetadata(accountFilterMetadata(filter))
}

func accountFilterMetadata(filter AccountFilter) map[string]any {
	meta := map[string]any{}
	if filter.ID != uuid.Nil {
		meta["id"] = filter.ID.String()
	}
	if filter.Email != "" {
		meta["email"] = filter.Email
	}
	if filter.Phone != "" {
		meta["phone"] = filter.Phone
	}
	return meta
}

type patchColumn struct {
	col string
	val any
}

// columns flattens set fields in a fixed order so generated SQL is
// deterministic.
func (p AccountPatch) columns() []patchColumn {
	cols := make([]patchColumn, 0, 13)

	if p.Role != nil {
		cols = append(cols, patchColumn{"role", *p.Role})
	}
	if p.FirstName != nil {
		cols = append(cols, patchColumn{"first_name", *p.FirstName})
	}
	if p.LastName != nil {
		cols = append(cols, patchColumn{"last_name", *p.LastName})
	}
	if p.Username != nil {
		cols = append(cols, patchColumn{"username", *p.Username})
	}
	if p.Email != nil {
		cols = append(cols, patchColumn{"email", *p.Email})
	}
	if p.Phone != nil {
		cols = append(cols, patchColumn{"phone_number", *p.Phone})
	}
	if p.NewEmail != nil {
		cols = append(cols, patchColumn{"new_email", *p.NewEmail})
	}
	if p.PasswordHash != nil {
		cols = append(cols, patchColumn{"password_hash", *p.PasswordHash})
	}
	if p.Status != nil {
		cols = append(cols, patchColumn{"status", *p.Status})
	}
	if p.Active != nil {
		cols = append(cols, patchColumn{"active", *p.Active})
	}
	if p.HashedRefreshToken != nil {
		cols = append(cols, patchColumn{"hashed_refresh_token", *p.HashedRefreshToken})
	}
	if p.VerificationCodeHash != nil {
		cols = append(cols, patchColumn{"verification_code_hash", *p.VerificationCodeHash})
	}
	if p.VerificationCodeExpires != nil {
		cols = append(cols, patchColumn{"verification_code_expires", *p.VerificationCodeExpires})
	}

	return cols
}

// apply copies set fields onto a record, used when an upsert falls
// through to an insert.
func (p AccountPatch) apply(a *Account) {
	if p.Role != nil {
		a.Role = *p.Role
	}
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.NewEmail != nil {
		a.NewEmail = *p.NewEmail
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	if p.HashedRefreshToken != nil {
		a.HashedRefreshToken = *p.HashedRefreshToken
	}
	if p.VerificationCodeHash != nil {
		a.VerificationCodeHash = *p.VerificationCodeHash
	}
	if p.VerificationCodeExpires != nil {
		a.VerificationCodeExpires = *p.VerificationCodeExpires
	}
}
