package userstore

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package-level state.
var gooseMu sync.Mutex

// Migrate creates the users table by applying the embedded migrations
// for the session's dialect.
//
// It is never run implicitly: whether the table pre-exists or is
// provisioned by this helper is the operator's decision. Running it
// against an already-migrated database is a no-op.
func Migrate(ctx context.Context, session *Session) error {
	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()

	goose.SetBaseFS(migrationsFS)
	dialect := session.Dialect().Name()
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("userstore: set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, session.DB(), "migrations/"+dialect); err != nil {
		return fmt.Errorf("userstore: apply migrations: %w", err)
	}
	return nil
}
