package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres when APP_TEST_DATABASE_DSN is set.
func setupPgxPool(t *testing.T, maxConns int32) *PgxPool {
	dsn := os.Getenv("APP_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("APP_TEST_DATABASE_DSN not set, skipping postgres integration test")
	}

	pool, err := NewPgxPool(context.Background(), PgxConfig{
		DSN:            dsn,
		MaxConns:       maxConns,
		AcquireTimeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPgxPoolQueryArray(t *testing.T) {
	pool := setupPgxPool(t, 2)
	exec := NewExecutor(pool, Postgres, setupTestLogger())

	sql := `SELECT g AS n, 'row ' || g AS label FROM generate_series(1, @count::int) AS g`

	rows, err := exec.QueryArrayJSON(context.Background(), sql, map[string]any{"count": 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "row 1", rows[0]["label"])

	rows, err = exec.QueryArrayJSON(context.Background(), sql, map[string]any{"count": 0})
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, int32(0), pool.pool.Stat().AcquiredConns())
}

func TestPgxPoolQueryObject(t *testing.T) {
	pool := setupPgxPool(t, 1)
	exec := NewExecutor(pool, Postgres, setupTestLogger())

	obj, err := exec.QueryObjectJSON(context.Background(), `SELECT @handle::text AS handle`, map[string]any{"handle": "andrewbrown"})
	require.NoError(t, err)
	assert.Equal(t, "andrewbrown", obj["handle"])

	_, err = exec.QueryObjectJSON(context.Background(), `SELECT 1 AS one WHERE false`, nil)
	assert.ErrorIs(t, err, ErrEmptyResultRow)
}

func TestPgxPoolExhausted(t *testing.T) {
	pool := setupPgxPool(t, 1)
	exec := NewExecutor(pool, Postgres, setupTestLogger())

	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer held.Release()

	_, err = exec.QueryArrayJSON(context.Background(), `SELECT 1 AS one`, nil)
	assert.ErrorIs(t, err, ErrConnectionUnavailable)
}
