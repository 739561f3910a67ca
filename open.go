package userstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register the drivers the dialects connect through.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const pingTimeout = 3 * time.Second

// Open establishes a database connection for the configured dialect
// and returns a Session ready for use.
//
// The connection is verified with a ping before the session is handed
// out, so a bad host or bad credentials fail here rather than on the
// first statement. The driver owns the network transport from this
// point on; any later connection failure surfaces synchronously as a
// QueryError on the operation that hit it.
func Open(ctx context.Context, cfg *Config, opts ...SessionOption) (*Session, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("userstore: open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("userstore: ping database: %w", err)
	}

	session := NewSession(db, dialect, opts...)
	if session.obs.Logger != nil {
		session.obs.Logger.Info("database connection established",
			"driver", dialect.DriverName(),
			"host", cfg.Host,
			"dbname", cfg.DBName,
		)
	}
	return session, nil
}
