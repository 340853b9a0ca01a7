package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/enumigo/enumigo/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// GetPool returns the process-wide connection pool, creating it on first use
// from DATABASE_URL.
func GetPool() (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		utils.LoadEnv()
		connStr, err := utils.DatabaseURL()
		if err != nil {
			poolErr = err
			return
		}

		cfg, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			poolErr = fmt.Errorf("parsing DATABASE_URL: %w", err)
			return
		}
		cfg.ConnConfig.RuntimeParams["application_name"] = "enumigo"

		ctx := context.Background()
		pool, poolErr = pgxpool.NewWithConfig(ctx, cfg)
		if poolErr != nil {
			poolErr = fmt.Errorf("creating connection pool: %w", poolErr)
			return
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			pool = nil
			poolErr = fmt.Errorf("pinging database: %w", err)
		}
	})

	return pool, poolErr
}

// GetConnection returns a single connection from the pool.
func GetConnection(ctx context.Context) (*pgx.Conn, error) {
	p, err := GetPool()
	if err != nil {
		return nil, err
	}

	conn, err := p.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}

	return conn.Conn(), nil
}

// ClosePool closes the connection pool on application shutdown.
func ClosePool() {
	if pool != nil {
		pool.Close()
	}
}
