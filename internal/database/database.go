package database

import (
	"context"
	"fmt"

	"activity_srv/internal/config"

	"github.com/sirupsen/logrus"
)

// Open creates the process-wide connection pool for the configured driver
// together with the dialect its templates are written in. The caller owns
// the pool and must Close it on shutdown.
func Open(ctx context.Context, cfg config.Config, logger *logrus.Logger) (Pool, Dialect, error) {
	dialect, err := DialectByName(cfg.Dialect())
	if err != nil {
		return nil, nil, err
	}

	logger.WithFields(logrus.Fields{
		"driver":    cfg.DB.Driver,
		"dialect":   dialect.Name(),
		"max_conns": cfg.DB.MaxConns,
	}).Info("Opening database pool")

	switch cfg.DB.Driver {
	case config.DriverPgx:
		pool, err := NewPgxPool(ctx, PgxConfig{
			DSN:             cfg.DB.DSN,
			MaxConns:        cfg.DB.MaxConns,
			MinConns:        cfg.DB.MinConns,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
			AcquireTimeout:  cfg.DB.AcquireTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return pool, dialect, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := NewGormDatabase(GormConfig{
			Driver:          cfg.DB.Driver,
			DSN:             cfg.DB.DSN,
			Debug:           cfg.Server.Debug,
			MaxConns:        cfg.DB.MaxConns,
			MinConns:        cfg.DB.MinConns,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewGormPool(db, cfg.DB.AcquireTimeout), dialect, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.DB.Driver)
	}
}
