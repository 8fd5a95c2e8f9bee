package auth

import "context"

type contextKey string

const (
	sessionContextKey contextKey = "auth:session"
	accountContextKey contextKey = "auth:account"
)

// WithSession stores a session in the context
func WithSession(ctx context.Context, session *SessionObject) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext retrieves a session stored by WithSession
func SessionFromContext(ctx context.Context) (*SessionObject, bool) {
	session, ok := ctx.Value(sessionContextKey).(*SessionObject)
	return session, ok
}

// WithAccount stores a scrubbed account in the context
func WithAccount(ctx context.Context, account *Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext retrieves an account stored by WithAccount
func AccountFromContext(ctx context.Context) (*Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*Account)
	return account, ok
}
