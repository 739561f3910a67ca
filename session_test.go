package userstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arllen133/userstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionCommit(t *testing.T) {
	_, session := setupTestDB(t)
	ctx := context.Background()

	err := session.Transaction(ctx, func(tx *userstore.Session) error {
		repo := userstore.NewUserRepository(tx)
		_, err := repo.CreateUser(ctx, "Alice", 30)
		return err
	})
	require.NoError(t, err)

	users, err := userstore.NewUserRepository(session).ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestTransactionRollback(t *testing.T) {
	_, session := setupTestDB(t)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := session.Transaction(ctx, func(tx *userstore.Session) error {
		repo := userstore.NewUserRepository(tx)
		if _, err := repo.CreateUser(ctx, "Ghost", 1); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	users, err := userstore.NewUserRepository(session).ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users, "rolled back insert must not be visible")
}

func TestCommitOutsideTransaction(t *testing.T) {
	_, session := setupTestDB(t)

	assert.Error(t, session.Commit())
	assert.Error(t, session.Rollback())
}
