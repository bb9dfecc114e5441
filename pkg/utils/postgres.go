package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// pgxDriver is the database/sql driver name registered by the pgx stdlib
// import in cmd/api.
const pgxDriver = "pgx"

// PostgresPoolConfig controls database/sql pool behavior. Zero values fall
// back to defaults sized for a single API process.
type PostgresPoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

func (c PostgresPoolConfig) withDefaults() PostgresPoolConfig {
	def := func(n *int, fallback int) {
		if *n <= 0 {
			*n = fallback
		}
	}
	defDur := func(d *time.Duration, fallback time.Duration) {
		if *d <= 0 {
			*d = fallback
		}
	}
	def(&c.MaxOpenConns, 25)
	def(&c.MaxIdleConns, 25)
	defDur(&c.ConnMaxLifetime, 30*time.Minute)
	defDur(&c.ConnMaxIdleTime, 5*time.Minute)
	defDur(&c.PingTimeout, 5*time.Second)
	return c
}

// OpenPostgres opens a pooled connection through the pgx stdlib driver and
// verifies connectivity before returning. The DSN carries credentials and
// must never be logged.
func OpenPostgres(ctx context.Context, dsn string, pool PostgresPoolConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool = pool.withDefaults()

	db, err := sql.Open(pgxDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if err := HealthCheck(ctx, db, pool.PingTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// HealthCheck pings the database within timeout. Serves /healthz.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

// TxFunc is the unit of work executed inside a transaction.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// WithTx runs fn inside a transaction and commits only when fn returns nil.
// An error or panic from fn rolls the transaction back; panics are re-thrown
// after the rollback. Repositories use it for coupled writes such as an
// asset row with its history entry or a backup log with its routine update.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
