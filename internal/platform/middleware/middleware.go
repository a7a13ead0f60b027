// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP chain shared by every API route.

Order used by the server:

	RequestID → StructuredLogger → RateLimiter → PanicRecovery → Authenticate → CORS

Role checks ([RequireAuth], [RequireRole]) are mounted per route group.
*/
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/ctxutil"
	"github.com/taibuivan/zled/internal/platform/respond"
	"github.com/taibuivan/zled/internal/platform/sec"
	"github.com/taibuivan/zled/pkg/uuid"
)

// # Request Tracing

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *statusRecorder) Write(payload []byte) (int, error) {
	written, err := recorder.ResponseWriter.Write(payload)
	recorder.bytes += int64(written)
	return written, err
}

// Unwrap exposes the underlying writer to [http.ResponseController], which
// the event stream needs for flushing and per-request deadlines.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// caller is filled in by [Authenticate] so the access log can name the account.
type caller struct {
	claims *sec.AuthClaims
}

type callerKey struct{}

func callerSlot(request *http.Request) *caller {
	slot, _ := request.Context().Value(callerKey{}).(*caller)
	return slot
}

/*
StructuredLogger stores a request-scoped logger in the context and logs one
"http_request_finished" line per request.

Successful requests made by screen accounts are logged at debug level: kiosks
poll their playlist continuously.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.RequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			slot := &caller{}
			ctx := context.WithValue(ctxutil.WithLogger(request.Context(), requestLogger), callerKey{}, slot)

			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(recorder, request.WithContext(ctx))

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int64("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if slot.claims != nil {
				attrs = append(attrs, slog.String("account_id", slot.claims.UserID), slog.String("role", slot.claims.Role))
			}

			requestLogger.Log(ctx, levelFor(recorder.status, slot.claims), "http_request_finished", attrs...)
		})
	}
}

func levelFor(status int, claims *sec.AuthClaims) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case claims != nil && sec.UserRole(claims.Role) == sec.RoleScreen:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter returns a limiter allowing rps requests per second per IP.
// Idle entries are evicted until context is cancelled.
func NewRateLimiter(context context.Context, rps float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
	go limiter.evict(context, constants.RateLimitCleanupInterval, constants.RateLimitClientTTL)
	return limiter
}

// Handler is the middleware form of the limiter.
func (limiter *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.allow(RealIP(request), time.Now()) {
			writer.Header().Set("Retry-After", "1")
			respond.Error(writer, request, apperr.RateLimited(1))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (limiter *RateLimiter) allow(ip string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, found := limiter.visitors[ip]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.visitors[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (limiter *RateLimiter) evict(context context.Context, every, ttl time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case now := <-ticker.C:
			limiter.mu.Lock()
			for ip, entry := range limiter.visitors {
				if now.Sub(entry.lastSeen) > ttl {
					delete(limiter.visitors, ip)
				}
			}
			limiter.mu.Unlock()
		}
	}
}

// # Reliability

// PanicRecovery turns a handler panic into a 500 and logs the stack.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					// The server aborts the connection itself.
					panic(recovered)
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				ctxutil.Logger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stack)),
				)
				respond.JSON(writer, http.StatusInternalServerError, respond.ErrorEnvelope{
					Error: "An unexpected error occurred",
					Code:  apperr.CodeInternal,
				})
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is what [CORS] needs from the application config.
type AppConfig interface {
	IsDevelopment() bool
	Origins() []string
}

// corsExposed lists the response headers the dashboard and the browser player read.
var corsExposed = strings.Join([]string{
	"Content-Length",
	constants.HeaderXRequestID,
	constants.HeaderXFrameSeq,
	constants.HeaderXFrameCSSWidth,
	constants.HeaderXFrameCSSHeight,
}, ", ")

// CORS allows configured origins; any origin is allowed in development.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if cfg.IsDevelopment() || lo.Contains(cfg.Origins(), origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, "+constants.HeaderXRequestID)
				header.Set("Access-Control-Expose-Headers", corsExposed)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", constants.HeaderOrigin)
			}

			if request.Method == http.MethodOptions && request.Header.Get("Access-Control-Request-Method") != "" {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Helpers

// RealIP returns the client address, preferring proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
