package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig holds the database/sql pool settings used by the gorm backends.
type GormConfig struct {
	Driver          string
	DSN             string
	Debug           bool
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// NewGormDatabase opens a gorm connection for the postgres or sqlite driver
// and applies the pool settings.
func NewGormDatabase(cfg GormConfig, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported gorm driver: %s", cfg.Driver)
	}

	logLevel := logger.Error
	if cfg.Debug {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	}
	sqlDB.SetMaxIdleConns(int(max(cfg.MinConns, 2)))
	if cfg.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}

	return db, nil
}

// GormPool implements Pool on top of the *sql.DB owned by gorm. Each borrowed
// Conn pins one *sql.Conn so the statement runs on a dedicated connection.
type GormPool struct {
	db             *gorm.DB
	acquireTimeout time.Duration
}

// NewGormPool wraps db.
func NewGormPool(db *gorm.DB, acquireTimeout time.Duration) *GormPool {
	return &GormPool{db: db, acquireTimeout: acquireTimeout}
}

// Acquire borrows a dedicated connection from database/sql.
func (p *GormPool) Acquire(ctx context.Context) (Conn, error) {
	sqlDB, err := p.db.DB()
	if err != nil {
		return nil, err
	}

	actx := ctx
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	conn, err := sqlDB.Conn(actx)
	if err != nil {
		return nil, err
	}
	return &gormConn{db: p.db, conn: conn}, nil
}

// Ping verifies the database is reachable.
func (p *GormPool) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying *sql.DB.
func (p *GormPool) Close() {
	if sqlDB, err := p.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Stats exposes database/sql pool counters.
func (p *GormPool) Stats() sql.DBStats {
	sqlDB, err := p.db.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

type gormConn struct {
	db   *gorm.DB
	conn *sql.Conn
}

// QueryRow binds @name placeholders through gorm's named expressions, which
// render the dialect's own bind variables ($n for postgres, ? for sqlite).
// Without placeholders the map is not passed: gorm would append it as a
// positional argument.
func (c *gormConn) QueryRow(ctx context.Context, query string, params map[string]any) Row {
	tx := c.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = c.conn

	if len(params) > 0 && strings.Contains(query, "@") {
		tx = tx.Raw(query, map[string]interface{}(params))
	} else {
		tx = tx.Raw(query)
	}
	if tx.Error != nil {
		return errRow{err: tx.Error}
	}

	row := tx.Row()
	if row == nil {
		return errRow{err: fmt.Errorf("no row returned by driver")}
	}
	return row
}

func (c *gormConn) Release() {
	_ = c.conn.Close()
}
