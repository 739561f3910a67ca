package userstore

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no user matched the requested id.
//
// Absence is not a query failure: callers are expected to branch on it
// with errors.Is rather than treat it as fatal.
//
// Example:
//
//	user, err := repo.GetUserByID(ctx, 42)
//	if errors.Is(err, userstore.ErrNotFound) {
//	    // no such user
//	}
var ErrNotFound = errors.New("userstore: user not found")

// QueryError wraps any failure reported by the database client while
// executing a statement: connection loss, authentication failure, SQL
// errors, constraint violations. They are deliberately collapsed into
// one kind; Unwrap exposes the driver error for callers that need to
// inspect it.
type QueryError struct {
	Op  string // logical operation, e.g. "create user"
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("userstore: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func queryErr(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}
