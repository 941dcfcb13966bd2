package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConfig holds pgxpool settings.
type PgxConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	AcquireTimeout  time.Duration
}

// PgxPool implements Pool on top of *pgxpool.Pool.
type PgxPool struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewPgxPool creates the pool. Connections are opened lazily apart from MinConns.
func NewPgxPool(ctx context.Context, cfg PgxConfig) (*PgxPool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &PgxPool{pool: pool, acquireTimeout: cfg.AcquireTimeout}, nil
}

// Acquire borrows a connection, waiting at most the configured acquire timeout.
func (p *PgxPool) Acquire(ctx context.Context) (Conn, error) {
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pgxConn{conn: conn}, nil
}

// Ping verifies the database is reachable.
func (p *PgxPool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes all connections. Blocks until borrowed connections are released.
func (p *PgxPool) Close() {
	p.pool.Close()
}

type pgxConn struct {
	conn *pgxpool.Conn
}

func (c pgxConn) QueryRow(ctx context.Context, sql string, params map[string]any) Row {
	if len(params) == 0 {
		return c.conn.QueryRow(ctx, sql)
	}
	return c.conn.QueryRow(ctx, sql, pgx.NamedArgs(params))
}

func (c pgxConn) Release() {
	c.conn.Release()
}
