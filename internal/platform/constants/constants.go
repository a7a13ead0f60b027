// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the tunables shared by the API and the kiosk player:
server timeouts, rate limits, token lifetimes, upload caps, playback limits
and cache keys.

Engine defaults such as the tick interval belong to package player.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "zled-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "zled"

	// AccessTokenTTL is the lifetime of an access token. Screens log in once
	// per kiosk boot, so tokens are long-lived.
	AccessTokenTTL = 12 * time.Hour

	// TokenTypeBearer is returned alongside access tokens.
	TokenTypeBearer = "Bearer"

	// PasswordHashCost is the bcrypt cost for account passwords.
	PasswordHashCost = 12
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderOrigin          = "Origin"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderAuthorization   = "Authorization"
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderDisposition     = "Content-Disposition"
	HeaderXFrameSeq       = "X-Frame-Seq"
	HeaderXFrameCSSWidth  = "X-Frame-Css-Width"
	HeaderXFrameCSSHeight = "X-Frame-Css-Height"

	ContentTypePDF         = "application/pdf"
	ContentTypePNG         = "image/png"
	ContentTypeEventStream = "text/event-stream"

	// ContentCacheControl is sent with proxied document content.
	ContentCacheControl = "public, max-age=3600"
)

// # Documents & Settings

const (
	// MaxUploadBytes caps one multipart upload request.
	MaxUploadBytes = 256 << 20

	// UploadMemoryBytes is kept in memory before multipart parts spill to disk.
	UploadMemoryBytes = 32 << 20

	// TransferTimeout replaces the server read/write timeouts for uploads and
	// proxied document content.
	TransferTimeout = 5 * time.Minute

	// UploadFormField is the multipart field carrying the PDF files.
	UploadFormField = "files"

	// DefaultPageDuration is the per-page display time of a new screen, in seconds.
	DefaultPageDuration = 60

	// MaxPageDuration bounds the per-page display time (one day).
	MaxPageDuration = 86400
)

// # Playback

const (
	// DefaultSessionTTL ends player sessions without any request for this long.
	DefaultSessionTTL = 10 * time.Minute

	// DefaultMaxSessions caps concurrently running player sessions.
	DefaultMaxSessions = 32

	// SessionReapInterval is how often idle sessions are looked for.
	SessionReapInterval = 30 * time.Second

	// EventStreamMaxDuration bounds one SSE connection, below GlobalRequestTimeout.
	EventStreamMaxDuration = 25 * time.Second

	// EventStreamRetry is the reconnect delay advertised to SSE clients, in ms.
	EventStreamRetry = 1000

	// ServiceRetryAfter is advertised on 503 responses, e.g. when the session limit is reached.
	ServiceRetryAfter = 5 * time.Second
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixPlaylist = "playlist:"

	// PlaylistCacheTTL bounds staleness of a cached playlist.
	PlaylistCacheTTL = 5 * time.Minute
)
