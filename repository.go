// Package userstore persists users in a relational database.
// This file implements the UserRepository type, providing the store's CRUD operations.
//
// UserRepository is a thin facade over a Session: each operation is one
// parameterized SQL statement, executed and decoded, with no cache and
// no local retry. Operations propagate failures immediately as
// *QueryError; absence of a row is signalled with ErrNotFound, which is
// outside the QueryError taxonomy.
package userstore

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

const usersTable = "users"

// UserRepository manages the users table.
//
// Usage example:
//
//	repo := userstore.NewUserRepository(session)
//
//	user, err := repo.CreateUser(ctx, "Alice", 30)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("created user id:", user.ID)
//
//	users, err := repo.ListUsers(ctx)
//
//	affected, err := repo.UpdateUserAge(ctx, user.ID, 31)
//
//	affected, err = repo.DeleteUserByID(ctx, user.ID)
type UserRepository struct {
	session *Session
}

// NewUserRepository creates a UserRepository backed by session.
// The session may be a regular session or a transaction session.
func NewUserRepository(session *Session) *UserRepository {
	return &UserRepository{session: session}
}

// CreateUser inserts a new user and returns it with the
// database-assigned id filled in.
//
// No validation is applied to name or age at this layer; whatever
// constraints the schema defines are the only ones enforced. On
// dialects with RETURNING support the id comes back on the insert
// itself, otherwise it is read through LastInsertId.
func (r *UserRepository) CreateUser(ctx context.Context, name string, age int) (*User, error) {
	builder := sq.Insert(usersTable).
		Columns("name", "age").
		Values(name, age).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat())

	user := &User{Name: name, Age: age}

	if returning := r.session.dialect.ReturningClause("id"); returning != "" {
		query, args, err := builder.Suffix(returning).ToSql()
		if err != nil {
			return nil, queryErr("create user", err)
		}
		if err := r.session.Get(ctx, &user.ID, query, args...); err != nil {
			return nil, queryErr("create user", err)
		}
		return user, nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, queryErr("create user", err)
	}
	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return nil, queryErr("create user", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		user.ID = id
	}
	return user, nil
}

// ListUsers returns all users as a materialized slice.
//
// No ORDER BY is issued: row order is whatever the database chooses
// and must not be relied on. An empty table yields an empty slice,
// not an error.
func (r *UserRepository) ListUsers(ctx context.Context) ([]User, error) {
	query, args, err := sq.Select("id", "name", "age").
		From(usersTable).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return nil, queryErr("list users", err)
	}

	users := make([]User, 0)
	if err := r.session.Select(ctx, &users, query, args...); err != nil {
		return nil, queryErr("list users", err)
	}
	return users, nil
}

// GetUserByID returns the user with the given id, or ErrNotFound when
// no row matches.
//
// Should the table ever hold more than one row for the same id, only
// the first row returned by the database is decoded; that situation
// signals a broken uniqueness constraint upstream and callers must not
// depend on which row wins.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	query, args, err := sq.Select("id", "name", "age").
		From(usersTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return nil, queryErr("get user by id", err)
	}

	var user User
	if err := r.session.Get(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, queryErr("get user by id", err)
	}
	return &user, nil
}

// UpdateUserAge sets the age of the user with the given id and returns
// the number of rows affected.
//
// A missing id is not an error: the statement simply matches nothing
// and zero is returned. The caller decides whether zero matters.
func (r *UserRepository) UpdateUserAge(ctx context.Context, id int64, newAge int) (int64, error) {
	query, args, err := sq.Update(usersTable).
		Set("age", newAge).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return 0, queryErr("update user age", err)
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return 0, queryErr("update user age", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, queryErr("update user age", err)
	}
	return affected, nil
}

// DeleteUserByID deletes the user with the given id and returns the
// number of rows affected. Deleting an id that does not exist succeeds
// with zero affected rows, so the operation is idempotent.
func (r *UserRepository) DeleteUserByID(ctx context.Context, id int64) (int64, error) {
	query, args, err := sq.Delete(usersTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return 0, queryErr("delete user by id", err)
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return 0, queryErr("delete user by id", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, queryErr("delete user by id", err)
	}
	return affected, nil
}
