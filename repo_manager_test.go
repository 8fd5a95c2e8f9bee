package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-authflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestRepositoryManager(t *testing.T) {
	db := setupDB(t)
	manager := auth.NewRepositoryManager(db)

	require.NoError(t, manager.Validate())
	require.NotNil(t, manager.Accounts())

	t.Run("runs work in a transaction", func(t *testing.T) {
		ctx := context.Background()

		err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			record := &auth.Account{
				Email:    "tx@example.com",
				Username: "tx",
			}
			_, err := manager.Accounts().CreateTx(ctx, tx, record)
			return err
		})
		require.NoError(t, err)

		got, err := manager.Accounts().FindOne(ctx, auth.AccountFilter{Email: "tx@example.com"}, false)
		require.NoError(t, err)
		assert.Equal(t, "tx", got.Username)
	})

	t.Run("honors a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return nil
		})
		require.Error(t, err)
	})
}
