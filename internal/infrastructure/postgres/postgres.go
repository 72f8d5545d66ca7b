// Package postgres manages the PostgreSQL connection pool, schema
// migrations, and the molecule registry repository.
package postgres

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/pkg/errors"
)

// DB owns the pgx connection pool and its database/sql adapter.  The pool is
// the source of truth; the *sql.DB view exists for the repository layer and
// the migrator, which work against database/sql.
type DB struct {
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	logger logging.Logger
	once   sync.Once
}

// New connects to PostgreSQL with the pool settings from cfg and verifies
// the connection before returning.
func New(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "parse database configuration")
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.CodeDatabase, "database connection failed")
	}

	logger.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
	)

	return &DB{
		pool:   pool,
		sqlDB:  stdlib.OpenDBFromPool(pool),
		logger: logger,
	}, nil
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool { return d.pool }

// SQL returns the database/sql view of the pool.
func (d *DB) SQL() *sql.DB { return d.sqlDB }

// HealthCheck pings the database and warns on pool exhaustion.
func (d *DB) HealthCheck(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "database health check failed")
	}

	stat := d.pool.Stat()
	if stat.TotalConns() > 0 && float64(stat.AcquiredConns())/float64(stat.TotalConns()) > 0.8 {
		d.logger.Warn("database connection pool near capacity",
			logging.Int("acquired", int(stat.AcquiredConns())),
			logging.Int("total", int(stat.TotalConns())),
		)
	}
	return nil
}

// Close releases the pool.  Safe to call more than once.
func (d *DB) Close() {
	d.once.Do(func() {
		_ = d.sqlDB.Close()
		d.pool.Close()
		d.logger.Info("closed PostgreSQL connection pool")
	})
}
