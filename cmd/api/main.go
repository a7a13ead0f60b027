// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command api serves the Zled signage API: accounts, screens, documents,
playlists and hosted player sessions.

Configuration comes from the environment (see internal/platform/config).
Startup connects PostgreSQL and Redis, applies the embedded migrations,
seeds the administrator and then listens until SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/zled/internal/api"
	"github.com/taibuivan/zled/internal/core/document"
	"github.com/taibuivan/zled/internal/core/playback"
	"github.com/taibuivan/zled/internal/core/playlist"
	"github.com/taibuivan/zled/internal/core/screen"
	"github.com/taibuivan/zled/internal/core/settings"
	"github.com/taibuivan/zled/internal/platform/blob"
	"github.com/taibuivan/zled/internal/platform/config"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/migration"
	pgstore "github.com/taibuivan/zled/internal/platform/postgres"
	redisstore "github.com/taibuivan/zled/internal/platform/redis"
	"github.com/taibuivan/zled/internal/platform/sec"
	"github.com/taibuivan/zled/internal/player"
	"github.com/taibuivan/zled/internal/player/fitz"
	"github.com/taibuivan/zled/internal/users/auth"
)

// startupTimeout bounds connecting, migrating and seeding.
const startupTimeout = 30 * time.Second

func main() {
	logger := newLogger(false)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("startup_failure", slog.String("stage", "config"), slog.Any("error", err))
		os.Exit(1)
	}

	logger = newLogger(cfg.Debug)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("startup_failure", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server_stopped")
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("service_initializing",
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
		slog.String("storage", cfg.StorageDriver),
	)

	signals, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startup, cancel := context.WithTimeout(signals, startupTimeout)
	defer cancel()

	pool, cache, err := connect(startup, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer cache.Close()

	if err := migration.RunUp(cfg.DatabaseURL, migration.Source(cfg.MigrationPath), logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return err
	}

	accounts := auth.NewAccountRepository(pool)
	authService := auth.NewService(accounts, tokens, logger)
	err = authService.EnsureAdmin(startup, auth.AdminSeed{Email: cfg.Admin.Email, Password: cfg.Admin.Password, Name: cfg.Admin.Name})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	store := newBlobStore(cfg, logger)
	playlists := playlist.NewService(
		playlist.NewPostgresRepository(pool),
		redisstore.NewCache(cache, constants.RedisPrefixPlaylist, constants.PlaylistCacheTTL),
		cfg.PublicURL, logger,
	)

	decoder := fitz.NewDecoder(cfg.Player.RenderParallel)
	defer decoder.Close()

	sessions := playback.NewManager(playlists, player.NewLoader(blob.NewFetcher(store, nil), decoder, player.LoaderOptions{
		Timeout:     cfg.Player.LoadTimeout,
		Concurrency: cfg.Player.LoadConcurrency,
	}, logger), playback.Options{
		MaxSessions:    cfg.Player.MaxSessions,
		SessionTTL:     cfg.Player.SessionTTL,
		TickInterval:   cfg.Player.TickInterval,
		SwipeThreshold: cfg.Player.SwipeThreshold,
	}, logger)

	background, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go sessions.Run(background)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase:  func(context context.Context) error { return pgstore.Ping(context, pool) },
		CheckCache:     func(context context.Context) error { return redisstore.Ping(context, cache) },
		ActiveSessions: sessions.Len,
	}, logger)

	server := api.NewServer(background, cfg, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Screen:    screen.NewHandler(screen.NewService(screen.NewPostgresRepository(pool), accounts, store, playlists, logger)),
		Document:  document.NewHandler(document.NewService(document.NewPostgresRepository(pool), store, document.NewPDFInspector(), playlists, logger)),
		Settings:  settings.NewHandler(settings.NewService(settings.NewPostgresRepository(pool), playlists, logger)),
		Playlist:  playlist.NewHandler(playlists),
		Playback:  playback.NewHandler(sessions),
	})

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()

	select {
	case <-signals.Done():
		logger.Info("shutdown_signal_received")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	}

	logger.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		logger.Error("shutdown_failed", slog.Any("error", err))
	}

	// Sessions hold decoded documents; end them before the decoder closes.
	drain, cancelDrain := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancelDrain()
	if err := sessions.Shutdown(drain); err != nil {
		logger.Error("sessions_shutdown_failed", slog.Any("error", err))
	}
	return nil
}

// connect opens PostgreSQL then Redis; a Redis failure closes the pool.
func connect(context context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, *goredis.Client, error) {
	pool, err := pgstore.NewPool(context, cfg.DatabaseURL, pgstore.PoolOptions{MaxConns: cfg.DatabaseMaxConns}, logger)
	if err != nil {
		return nil, nil, err
	}

	cache, err := redisstore.NewClient(context, cfg.RedisURL, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, cache, nil
}

// newBlobStore picks the backend named by STORAGE_DRIVER.
func newBlobStore(cfg *config.Config, logger *slog.Logger) blob.Store {
	if cfg.StorageDriver == config.StorageLocal {
		logger.Warn("local_storage_enabled", slog.String("dir", cfg.LocalStorageDir))
		return blob.NewLocalStore(cfg.LocalStorageDir)
	}

	return blob.NewBunnyStore(blob.BunnyConfig{
		StorageHost: cfg.Bunny.StorageHost,
		StorageZone: cfg.Bunny.StorageZone,
		AccessKey:   cfg.Bunny.AccessKey,
		Path:        cfg.Bunny.Path,
		CDNURL:      cfg.Bunny.CDNURL,
	}, nil, logger)
}
