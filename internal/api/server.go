// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the HTTP surface of the signage manager.

	/health, /ready                       probes
	/api/v1/auth                          login, me
	/api/v1/screens                       admin: screens
	/api/v1/screens/{screenID}/documents  admin: a screen's documents
	/api/v1/screens/{screenID}/settings   admin: a screen's settings
	/api/v1/me/documents                  screen: own documents
	/api/v1/me/settings                   screen: own settings
	/api/v1/documents/{id}/content        public content proxy
	/api/v1/player/{screenID}             public playlist
	/api/v1/sessions                      hosted player sessions
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/zled/internal/core/document"
	"github.com/taibuivan/zled/internal/core/playback"
	"github.com/taibuivan/zled/internal/core/playlist"
	"github.com/taibuivan/zled/internal/core/screen"
	"github.com/taibuivan/zled/internal/core/settings"
	"github.com/taibuivan/zled/internal/platform/config"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/middleware"
	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/internal/platform/sec"
	"github.com/taibuivan/zled/internal/users/auth"
)

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger
}

// Handlers are the domain handlers mounted by [NewServer].
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth     *auth.Handler
	Screen   *screen.Handler
	Document *document.Handler
	Settings *settings.Handler
	Playlist *playlist.Handler
	Playback *playback.Handler
}

// NewServer builds the middleware chain and mounts every route group.
// context stops the rate limiter's eviction loop.
func NewServer(context context.Context, cfg *config.Config, logger *slog.Logger, verifier middleware.TokenVerifier, handlers Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(logger),
		middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Handler,
		middleware.PanicRecovery(logger),
		middleware.Authenticate(verifier),
		middleware.CORS(cfg),
		chimw.CleanPath,
	)

	// Uploads, content streams and event streams set their own deadlines.
	timeout := chimw.Timeout(constants.GlobalRequestTimeout)

	router.With(timeout).Get("/health", handlers.Liveness)
	router.With(timeout).Get("/ready", handlers.Readiness)

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.With(timeout).Mount("/auth", handlers.Auth.Routes())

		v1.Route("/screens", func(screens chi.Router) {
			screens.Use(middleware.RequireRole(sec.RoleAdmin))
			screens.With(timeout).Group(handlers.Screen.RegisterRoutes)

			scope := requestutil.ParamScope(screen.ParamScreenID)
			prefix := "/{" + screen.ParamScreenID + "}"
			screens.Mount(prefix+"/documents", handlers.Document.Routes(scope))
			screens.With(timeout).Mount(prefix+"/settings", handlers.Settings.Routes(scope))
		})

		v1.Route("/me", func(me chi.Router) {
			me.Use(middleware.RequireAuth)
			me.Mount("/documents", handlers.Document.Routes(requestutil.SelfScope()))
			me.With(timeout).Mount("/settings", handlers.Settings.Routes(requestutil.SelfScope()))
		})

		v1.Route("/documents", handlers.Document.RegisterContentRoutes)
		v1.With(timeout).Route("/player", handlers.Playlist.RegisterRoutes)
		v1.Route("/sessions", handlers.Playback.RegisterRoutes)
	})

	return &Server{
		router: router,
		logger: logger,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler is the root router, for httptest servers.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe blocks until [Server.Shutdown] or a listener failure.
func (server *Server) ListenAndServe() error {
	server.logger.Info("server_starting", slog.String("addr", server.httpServer.Addr))
	return server.httpServer.ListenAndServe()
}

// Shutdown waits up to timeout for in-flight requests.
func (server *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.httpServer.Shutdown(context)
}
