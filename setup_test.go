package userstore_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/arllen133/userstore"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T, opts ...userstore.SessionOption) (*sql.DB, *userstore.Session) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// An in-memory SQLite database exists per connection; pin the pool
	// to one so the migration and the tests see the same database.
	db.SetMaxOpenConns(1)

	session := userstore.NewSession(db, &userstore.SQLiteDialect{}, opts...)
	if err := userstore.Migrate(context.Background(), session); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { session.Close() })
	return db, session
}
