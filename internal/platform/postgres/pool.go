// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the API's pgx pool and runs repository
// transactions.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/zled/internal/platform/constants"
)

const (
	applicationName = "zled-api"
	minConns        = 2
	connMaxLifetime = time.Hour
	connMaxIdleTime = 10 * time.Minute
	healthPeriod    = time.Minute
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// PoolOptions tunes [NewPool]. Zero values take the defaults.
type PoolOptions struct {
	MaxConns int32

	// StatementTimeout is set per session so a slow document query cannot
	// outlive the request that issued it.
	StatementTimeout time.Duration
}

// NewPool connects to dsn and pings the server before returning.
func NewPool(context context.Context, dsn string, options PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfig(dsn, options)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

func poolConfig(dsn string, options PoolOptions) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	if options.MaxConns > 0 {
		config.MaxConns = options.MaxConns
	}
	config.MinConns = min(minConns, config.MaxConns)
	config.MaxConnLifetime = connMaxLifetime
	config.MaxConnIdleTime = connMaxIdleTime
	config.HealthCheckPeriod = healthPeriod
	config.ConnConfig.ConnectTimeout = connectTimeout

	timeout := options.StatementTimeout
	if timeout <= 0 {
		timeout = constants.GlobalRequestTimeout
	}
	params := config.ConnConfig.RuntimeParams
	params["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)
	if params["application_name"] == "" {
		params["application_name"] = applicationName
	}

	return config, nil
}

// Ping fails when the pool cannot reach the server within a short deadline.
func Ping(parent context.Context, pool *pgxpool.Pool) error {
	context, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := pool.Ping(context); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// WithTx commits when fn returns nil and rolls back otherwise.
func WithTx(context context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
