package database

import (
	"context"
)

// Row is the single-row result of QueryRow. Errors are deferred until Scan.
// Implemented by pgx.Row and *sql.Row.
type Row interface {
	Scan(dest ...any) error
}

// Conn is a connection borrowed from a Pool. It must be released exactly once.
type Conn interface {
	// QueryRow runs sql with @name placeholders bound from params.
	QueryRow(ctx context.Context, sql string, params map[string]any) Row
	// Release returns the connection to the pool.
	Release()
}

// Pool hands out connections for the duration of one statement.
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close()
}

// errRow is returned by QueryRow when the statement could not be sent.
type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
