package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-authflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.SessionFromContext(ctx)
	assert.False(t, ok)

	session := &auth.SessionObject{UserID: "user-1", Role: auth.RoleMember}
	ctx = auth.WithSession(ctx, session)

	got, ok := auth.SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, session, got)
}

func TestAccountContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.AccountFromContext(ctx)
	assert.False(t, ok)

	account := activeAccount().Public()
	ctx = auth.WithAccount(ctx, account)

	got, ok := auth.AccountFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, account.ID, got.ID)
}
