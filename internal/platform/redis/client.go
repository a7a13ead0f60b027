// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the API to Redis and exposes the JSON [Cache] that
sits in front of the playlist query. Players poll far more often than
administrators edit, so most playlist reads never reach PostgreSQL.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName   = "zled-api"
	poolSize     = 10
	minIdleConns = 2
	ioTimeout    = 2 * time.Second
	dialTimeout  = 3 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient opens a client for redisURL ("redis://host:6379/0") and pings it.
func NewClient(context context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	options.ClientName = clientName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Ping fails when Redis does not answer within a short deadline.
func Ping(parent context.Context, client *redis.Client) error {
	context, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := client.Ping(context).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}
