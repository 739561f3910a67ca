package userstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arllen133/userstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)
	require.NotZero(t, created.ID, "generated id should be surfaced")
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, 30, created.Age)

	fetched, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, 30, fetched.Age)
}

func TestCreateUserThenList(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	before, err := repo.ListUsers(ctx)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, "Bob", 42)
	require.NoError(t, err)

	after, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	matches := 0
	for _, u := range after {
		if u.Name == "Bob" && u.Age == 42 {
			matches++
		}
	}
	assert.Equal(t, 1, matches, "exactly one new entry with the created name and age")
}

func TestListUsersEmpty(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users, "empty table yields an empty slice, not an error")
}

func TestGetUserByIDAbsent(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)

	_, err := repo.GetUserByID(context.Background(), 9999999)
	require.ErrorIs(t, err, userstore.ErrNotFound)

	var qerr *userstore.QueryError
	assert.False(t, errors.As(err, &qerr), "absence is not a query failure")
}

func TestUpdateUserAge(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)

	affected, err := repo.UpdateUserAge(ctx, created.ID, 31)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	fetched, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Name, "name must be untouched")
	assert.Equal(t, 31, fetched.Age)
}

func TestUpdateUserAgeMissingID(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)

	affected, err := repo.UpdateUserAge(context.Background(), 9999999, 1)
	require.NoError(t, err, "missing id is a no-op, not an error")
	assert.Equal(t, int64(0), affected)
}

func TestDeleteUserByID(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, "Bob", 42)
	require.NoError(t, err)

	before, err := repo.ListUsers(ctx)
	require.NoError(t, err)

	affected, err := repo.DeleteUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = repo.GetUserByID(ctx, created.ID)
	require.ErrorIs(t, err, userstore.ErrNotFound)

	after, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)-1, "exactly one row removed")
}

func TestDeleteUserByIDIdempotent(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)

	affected, err := repo.DeleteUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	affected, err = repo.DeleteUserByID(ctx, created.ID)
	require.NoError(t, err, "second delete still succeeds")
	assert.Equal(t, int64(0), affected)
}

func TestQueryErrorWrapping(t *testing.T) {
	db, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	_, err := db.Exec("DROP TABLE users")
	require.NoError(t, err)

	_, err = repo.ListUsers(ctx)
	require.Error(t, err)

	var qerr *userstore.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "list users", qerr.Op)
	assert.NotNil(t, qerr.Unwrap())
}

// TestDemoSequence mirrors the demo binary: seed a first user so id 1
// exists, create another, then walk fetch, update, delete against id 1.
func TestDemoSequence(t *testing.T) {
	_, session := setupTestDB(t)
	repo := userstore.NewUserRepository(session)
	ctx := context.Background()

	alice, err := repo.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID, "fresh table assigns id 1 first")

	_, err = repo.CreateUser(ctx, "Htet Lin Maung", 27)
	require.NoError(t, err)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	fetched, err := repo.GetUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Name)

	affected, err := repo.UpdateUserAge(ctx, 1, 31)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	fetched, err = repo.GetUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, 31, fetched.Age)

	affected, err = repo.DeleteUserByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	_, err = repo.GetUserByID(ctx, 1)
	require.ErrorIs(t, err, userstore.ErrNotFound)
}
