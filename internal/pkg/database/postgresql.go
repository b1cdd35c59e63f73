package database

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConnected is returned by repositories while the pool is still
// unavailable; handlers map it to 503 so SQL-free routes keep working.
var ErrNotConnected = errors.New("database not connected")

const (
	reconnectBaseDelay = 30 * time.Second
	reconnectMaxDelay  = 2 * time.Minute
	maxConnectAttempts = 10
)

type DB struct {
	mu   sync.RWMutex
	pool *pgxpool.Pool
}

// NewPostgreSQLDB connects immediately and fails fast on error.
func NewPostgreSQLDB(dsn string) (*DB, error) {
	pool, err := connect(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{pool: pool}, nil
}

// NewPostgreSQLDBWithRetry returns a DB handle right away and keeps trying
// to connect in the background with a growing delay, giving up after
// maxConnectAttempts. The process serves routes that do not need SQL in
// the meantime.
func NewPostgreSQLDBWithRetry(ctx context.Context, dsn string) *DB {
	db := &DB{}

	go func() {
		for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
			pool, err := connect(ctx, dsn)
			if err == nil {
				db.mu.Lock()
				db.pool = pool
				db.mu.Unlock()
				slog.Info("database connected", "attempt", attempt)
				return
			}

			delay := min(reconnectBaseDelay*time.Duration(attempt), reconnectMaxDelay)
			slog.Error("database connection failed", "attempt", attempt, "retry_in", delay, "error", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
		slog.Error("database connection retries exhausted; serving without SQL")
	}()

	return db
}

func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	config.MaxConns = 20
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Querier returns the pool, or ErrNotConnected while it is unavailable.
func (db *DB) Querier() (Querier, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.pool == nil {
		return nil, ErrNotConnected
	}
	return db.pool, nil
}

// Connected reports whether the pool is usable.
func (db *DB) Connected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool != nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	db.mu.RLock()
	pool := db.pool
	db.mu.RUnlock()
	if pool == nil {
		return nil, ErrNotConnected
	}
	return pool.Begin(ctx)
}

func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
