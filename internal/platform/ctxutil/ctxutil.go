// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries per-request values through [context.Context]:
// the correlation ID, the request-scoped logger and the caller's claims.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/zled/internal/platform/sec"
)

// key is unexported so no other package can read or overwrite these values.
type key uint8

const (
	keyRequestID key = iota
	keyLogger
	keyClaims
)

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(parent context.Context, id string) context.Context {
	return context.WithValue(parent, keyRequestID, id)
}

// RequestID returns the request ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// WithLogger attaches a request-scoped logger.
func WithLogger(parent context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(parent, keyLogger, logger)
}

// Logger returns the request-scoped logger, falling back to [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithClaims attaches the verified token claims of the caller.
func WithClaims(parent context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(parent, keyClaims, claims)
}

// Claims returns the caller's claims, or nil for anonymous requests.
func Claims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(keyClaims).(*sec.AuthClaims)
	return claims
}
