package userstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Executor defines the common database operations for both DB and Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Session manages the database connection and current transaction
type Session struct {
	db       *sqlx.DB // Underlying DB for starting transactions
	executor Executor // Current executor (DB or Tx)
	dialect  Dialect
	obs      *ObservabilityConfig
}

func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	xdb := sqlx.NewDb(db, dialect.DriverName())
	s := &Session{
		db:       xdb,
		executor: xdb,
		dialect:  dialect,
		obs:      defaultObservabilityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the dialect the session was opened with.
func (s *Session) Dialect() Dialect { return s.dialect }

// DB returns the underlying *sql.DB, e.g. for migration tooling.
func (s *Session) DB() *sql.DB { return s.db.DB }

// Close releases the underlying connection pool.
func (s *Session) Close() error { return s.db.Close() }

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, span := s.startSpan(ctx, "userstore.query",
		trace.WithAttributes(attribute.String("db.system", s.dialect.Name())))
	defer span.End()

	start := time.Now()
	rows, err := s.executor.QueryContext(ctx, query, args...)
	s.finish(ctx, span, "query", query, start, err)
	return rows, err
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.executor.QueryRowContext(ctx, query, args...)
}

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, span := s.startSpan(ctx, "userstore.exec",
		trace.WithAttributes(attribute.String("db.system", s.dialect.Name())))
	defer span.End()

	start := time.Now()
	result, err := s.executor.ExecContext(ctx, query, args...)
	s.finish(ctx, span, "exec", query, start, err)
	return result, err
}

func (s *Session) Select(ctx context.Context, dest any, query string, args ...any) error {
	ctx, span := s.startSpan(ctx, "userstore.select",
		trace.WithAttributes(attribute.String("db.system", s.dialect.Name())))
	defer span.End()

	start := time.Now()
	err := s.executor.SelectContext(ctx, dest, query, args...)
	s.finish(ctx, span, "select", query, start, err)
	return err
}

func (s *Session) Get(ctx context.Context, dest any, query string, args ...any) error {
	ctx, span := s.startSpan(ctx, "userstore.get",
		trace.WithAttributes(attribute.String("db.system", s.dialect.Name())))
	defer span.End()

	start := time.Now()
	err := s.executor.GetContext(ctx, dest, query, args...)
	s.finish(ctx, span, "get", query, start, err)
	return err
}

// finish records the outcome of an executed statement on the span,
// metrics, and log. sql.ErrNoRows is not recorded as a failure: absence
// is an expected answer, not a broken statement.
func (s *Session) finish(ctx context.Context, span spanWrapper, op, query string, start time.Time, err error) {
	duration := time.Since(start)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordMetrics(ctx, op, duration, err)
		s.logQuery(ctx, op, query, duration, err)
		return
	}
	s.recordMetrics(ctx, op, duration, nil)
	s.logQuery(ctx, op, query, duration, nil)
}

func (s *Session) Begin(ctx context.Context) (*Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Return new Session where executor is the transaction
	return &Session{
		db:       s.db,
		executor: tx,
		dialect:  s.dialect,
		obs:      s.obs,
	}, nil
}

func (s *Session) Commit() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return sql.ErrTxDone
}

func (s *Session) Rollback() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return sql.ErrTxDone
}

// Transaction executes a function within a transaction
func (s *Session) Transaction(ctx context.Context, fn func(txSession *Session) error) (err error) {
	// Check if already in transaction
	if _, ok := s.executor.(*sqlx.Tx); ok {
		return fn(s)
	}

	txSession, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txSession.Rollback()
			panic(p)
		} else if err != nil {
			_ = txSession.Rollback()
		}
	}()

	err = fn(txSession)
	if err != nil {
		return err
	}

	return txSession.Commit()
}
