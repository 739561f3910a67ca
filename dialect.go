// Package userstore persists users in a relational database.
// This file implements database dialect abstraction to handle SQL differences between databases.
//
// Dialect is the abstraction that lets the store run against more than one
// database, responsible for:
//   - Database identification (PostgreSQL, SQLite)
//   - database/sql driver selection ("pgx" vs "sqlite3")
//   - Placeholder format ($1, $2 vs ?)
//   - RETURNING support for surfacing generated keys
//
// Currently supported databases:
//   - PostgreSQL 12+
//   - SQLite 3.35+ (with RETURNING support)
package userstore

import (
	sq "github.com/Masterminds/squirrel"
)

var (
	SQLite     = SQLiteDialect{}
	PostgreSQL = PostgreSQLDialect{}
)

// Dialect abstracts database-specific SQL features.
//
// Main differences handled:
//   - Placeholder format: SQLite uses ?, PostgreSQL uses $1, $2
//   - Generated-key retrieval: both dialects here support RETURNING;
//     a dialect that does not can return "" and the repository falls
//     back to LastInsertId
type Dialect interface {
	// Name returns the database type name ("postgres", "sqlite3").
	// Used for logging, metrics attributes, and migration dialect selection.
	Name() string

	// DriverName returns the database/sql driver the dialect connects
	// through. The pgx stdlib adapter registers as "pgx", not "postgres",
	// so this is distinct from Name.
	DriverName() string

	// PlaceholderFormat returns the placeholder format used by the database.
	// Squirrel uses this format to generate parameterized queries.
	PlaceholderFormat() sq.PlaceholderFormat

	// ReturningClause generates the clause appended to an INSERT so the
	// database hands back the generated column. Returns "" when the
	// database cannot do this in one round trip, in which case the
	// caller must use sql.Result.LastInsertId.
	ReturningClause(column string) string
}

// PostgreSQLDialect implements the PostgreSQL database dialect.
//
// PostgreSQL features:
//   - Uses $1, $2, $3 as placeholders
//   - INSERT ... RETURNING for generated keys (LastInsertId is not
//     supported by the pgx stdlib driver)
type PostgreSQLDialect struct{}

// Name returns the PostgreSQL dialect name.
func (d *PostgreSQLDialect) Name() string { return "postgres" }

// DriverName returns the pgx stdlib driver name.
func (d *PostgreSQLDialect) DriverName() string { return "pgx" }

// PlaceholderFormat returns PostgreSQL's placeholder format ($1, $2, ...).
func (d *PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

// ReturningClause generates PostgreSQL's RETURNING clause.
func (d *PostgreSQLDialect) ReturningClause(column string) string {
	return "RETURNING " + column
}

// SQLiteDialect implements the SQLite database dialect.
//
// SQLite features:
//   - Uses ? as placeholder
//   - RETURNING supported since 3.35
//   - Commonly used in testing and development environments
type SQLiteDialect struct{}

// Name returns the SQLite dialect name.
func (d *SQLiteDialect) Name() string { return "sqlite3" }

// DriverName returns the SQLite driver name.
func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

// PlaceholderFormat returns SQLite's placeholder format (?).
func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

// ReturningClause generates SQLite's RETURNING clause (3.35+).
func (d *SQLiteDialect) ReturningClause(column string) string {
	return "RETURNING " + column
}
