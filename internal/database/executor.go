package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"activity_srv/internal/domain/query"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// Executor runs read statements and returns their rows as decoded JSON.
// The database performs the JSON aggregation, so every call fetches exactly
// one row with one column.
type Executor struct {
	pool    Pool
	dialect Dialect
	logger  *logrus.Logger
}

// NewExecutor creates an executor borrowing connections from pool.
func NewExecutor(pool Pool, dialect Dialect, logger *logrus.Logger) *Executor {
	return &Executor{pool: pool, dialect: dialect, logger: logger}
}

// QueryArrayJSON runs sql and returns all of its rows. A statement that
// matches nothing yields an empty, non-nil slice.
func (e *Executor) QueryArrayJSON(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error) {
	raw, err := e.queryJSON(ctx, "array", sql, params, e.dialect.WrapArray)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	e.logger.WithField("result_length", len(rows)).Info("Query array completed")
	return rows, nil
}

// QueryObjectJSON runs sql and returns its first row as an object.
func (e *Executor) QueryObjectJSON(ctx context.Context, sql string, params map[string]any) (map[string]any, error) {
	raw, err := e.queryJSON(ctx, "object", sql, params, e.dialect.WrapObject)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if obj == nil {
		return nil, ErrNullResult
	}
	return obj, nil
}

func (e *Executor) queryJSON(
	ctx context.Context,
	kind string,
	statement string,
	params map[string]any,
	wrap func(string) string,
) (json.RawMessage, error) {
	statement = query.TrimTerminator(statement)
	if err := query.Validate(statement); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatement, err)
	}
	if missing := query.Missing(statement, params); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingParam, strings.Join(missing, ", "))
	}

	wrapped := wrap(statement)
	logger := e.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"dialect": e.dialect.Name(),
	})
	logger.WithField("sql", wrapped).Debug("SQL statement")

	start := time.Now()
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to acquire connection")
		return nil, fmt.Errorf("%w: %w", ErrConnectionUnavailable, err)
	}
	defer conn.Release()

	var payload jsonPayload
	if err := conn.QueryRow(ctx, wrapped, params).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmptyResultRow
		}
		logger.WithError(err).Error("Query failed")
		return nil, fmt.Errorf("%w: %w", ErrQueryExecution, err)
	}

	if payload == nil {
		return nil, ErrNullResult
	}

	logger.WithField("duration", time.Since(start)).Debug("Query executed")
	return json.RawMessage(payload), nil
}

// jsonPayload scans a json/jsonb/text column without interpreting it.
// A NULL column leaves it nil.
type jsonPayload []byte

// Scan implements the sql.Scanner interface.
func (p *jsonPayload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*p = append((*p)[:0], v...)
	case string:
		*p = jsonPayload(v)
	default:
		return fmt.Errorf("cannot scan %T into JSON", value)
	}
	return nil
}
