package database

import "errors"

var (
	// ErrConnectionUnavailable is returned when the pool cannot hand out a
	// connection (exhausted, closed, or the database is unreachable).
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrQueryExecution wraps failures reported by the database while running
	// the statement.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrEmptyResultRow is returned when the wrapped statement yields no row.
	ErrEmptyResultRow = errors.New("query returned no rows")

	// ErrNullResult is returned when the aggregated column is NULL.
	ErrNullResult = errors.New("query returned null result")

	// ErrDecode is returned when the aggregated column is not valid JSON of
	// the expected shape.
	ErrDecode = errors.New("cannot decode query result")

	// ErrInvalidStatement is returned for SQL that is not a single read statement.
	ErrInvalidStatement = errors.New("invalid statement")

	// ErrMissingParam is returned when a @placeholder has no bound value.
	ErrMissingParam = errors.New("missing query parameter")
)
