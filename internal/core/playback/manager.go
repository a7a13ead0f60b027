// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playback hosts player sessions inside the API server.

A hosted session is the engine running server-side: the playlist is loaded
and rasterised with the MuPDF backend, and thin clients (an HTML page, a
kiosk without a PDF renderer) only fetch PNG frames and send input.

Lifecycle:

  - Start loads the playlist and runs a [player.Session] on the manager's
    own context, so it outlives the creating request.
  - Every request touching a session marks it as seen; [Manager.Run] ends
    sessions idle for longer than the TTL.
  - [Manager.Shutdown] ends every remaining session.
*/
package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/player"
	"github.com/taibuivan/zled/pkg/uuid"
)

// Loader resolves playlist entries to decoded documents.
type Loader interface {
	Load(context context.Context, entries []player.PlaylistEntry) player.LoadResult
}

// Options tunes a [Manager]. Zero values fall back to the platform defaults.
type Options struct {
	MaxSessions    int
	SessionTTL     time.Duration
	ReapInterval   time.Duration
	TickInterval   time.Duration
	SwipeThreshold float64

	Clock    player.Clock
	Renderer player.Renderer
}

func (options Options) withDefaults() Options {
	if options.MaxSessions <= 0 {
		options.MaxSessions = constants.DefaultMaxSessions
	}
	if options.SessionTTL <= 0 {
		options.SessionTTL = constants.DefaultSessionTTL
	}
	if options.ReapInterval <= 0 {
		options.ReapInterval = constants.SessionReapInterval
	}
	if options.Clock == nil {
		options.Clock = player.SystemClock{}
	}
	return options
}

type hosted struct {
	session  *player.Session
	lastSeen time.Time
}

// Manager owns the hosted sessions.
type Manager struct {
	provider player.PlaylistProvider
	loader   Loader
	mapper   player.InputMapper
	options  Options
	logger   *slog.Logger

	// Sessions run on this context, not on the request that created them.
	runContext context.Context
	cancelRuns context.CancelFunc
	running    sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*hosted
	closed   bool
}

func NewManager(provider player.PlaylistProvider, loader Loader, options Options, logger *slog.Logger) *Manager {
	options = options.withDefaults()
	runContext, cancel := context.WithCancel(context.Background())

	return &Manager{
		provider:   provider,
		loader:     loader,
		mapper:     player.NewInputMapper(options.SwipeThreshold),
		options:    options,
		logger:     logger,
		runContext: runContext,
		cancelRuns: cancel,
		sessions:   make(map[string]*hosted),
	}
}

/*
Start loads a screen's playlist and starts a session on it.

Documents that fail to load are dropped; a screen without any loadable
page still gets a session, in the Empty state.

Returns:
  - *player.Session: The running session
  - error: 404 for an unknown screen, 503 when the session limit is reached,
    the context error when the caller went away during the load
*/
func (manager *Manager) Start(context context.Context, screenID string, viewport player.Viewport) (*player.Session, error) {
	if err := manager.checkCapacity(); err != nil {
		return nil, err
	}

	playlist, err := manager.provider.GetPlaylist(context, screenID)
	if errors.Is(err, player.ErrScreenNotFound) {
		return nil, apperr.NotFound("Screen").WithCause(err)
	}
	if err != nil {
		return nil, err
	}

	loaded := manager.loader.Load(context, playlist.Entries)
	if err := context.Err(); err != nil {
		if releaseErr := loaded.Release(); releaseErr != nil {
			manager.logger.Warn("documents_release_failed", slog.String("screen_id", screenID), slog.Any("error", releaseErr))
		}
		return nil, err
	}

	id := uuid.New()
	session := player.NewSession(id, playlist, loaded.Documents, viewport, player.SessionOptions{
		TickInterval: manager.options.TickInterval,
		Clock:        manager.options.Clock,
		Renderer:     manager.options.Renderer,
		Logger:       manager.logger,
	})

	// The limit may have been reached while loading.
	manager.mu.Lock()
	if manager.closed || len(manager.sessions) >= manager.options.MaxSessions {
		manager.mu.Unlock()
		_ = session.End(context)
		return nil, apperr.ServiceUnavailable("Player session limit reached")
	}
	manager.sessions[id] = &hosted{session: session, lastSeen: manager.options.Clock.Now()}
	manager.running.Add(1)
	manager.mu.Unlock()

	go manager.run(session)

	manager.logger.Info("session_started",
		slog.String("session_id", id),
		slog.String("screen_id", screenID),
		slog.Int("documents", len(loaded.Documents)),
		slog.Int("failed_documents", len(loaded.Failures)),
		slog.Int("pages", len(session.Pages())),
	)
	return session, nil
}

// Get returns a running session and marks it as seen.
func (manager *Manager) Get(id string) (*player.Session, error) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	entry, ok := manager.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	entry.lastSeen = manager.options.Clock.Now()
	return entry.session, nil
}

/*
Input maps raw input and forwards it to the session.

Returns:
  - bool: false when the input has no meaning (short swipe, unknown key)
  - error: 404 for an unknown session, 400 for an unknown input type
*/
func (manager *Manager) Input(context context.Context, id string, input Input) (bool, error) {
	session, err := manager.Get(id)
	if err != nil {
		return false, err
	}

	event, ok, err := input.event(manager.mapper, session.Snapshot().State.Viewport)
	if err != nil || !ok {
		return false, err
	}

	if err := session.Send(context, event); err != nil {
		if errors.Is(err, player.ErrSessionEnded) {
			return false, apperr.NotFound("Session")
		}
		return false, err
	}
	return true, nil
}

// End ends a session and waits for its teardown.
func (manager *Manager) End(context context.Context, id string) error {
	session, err := manager.Get(id)
	if err != nil {
		return err
	}

	manager.forget(id)
	if err := session.End(context); err != nil {
		return err
	}

	manager.logger.Info("session_ended", slog.String("session_id", id), slog.String("reason", "request"))
	return nil
}

// Len returns the number of running sessions.
func (manager *Manager) Len() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.sessions)
}

// Run reaps idle sessions until context is cancelled, then shuts down.
func (manager *Manager) Run(context context.Context) {
	ticker := time.NewTicker(manager.options.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			manager.ReapIdle(context)
		}
	}
}

// ReapIdle ends every session not seen within the TTL and returns how many.
func (manager *Manager) ReapIdle(context context.Context) int {
	cutoff := manager.options.Clock.Now().Add(-manager.options.SessionTTL)

	manager.mu.Lock()
	var idle []*player.Session
	for id, entry := range manager.sessions {
		if entry.lastSeen.Before(cutoff) {
			idle = append(idle, entry.session)
			delete(manager.sessions, id)
		}
	}
	manager.mu.Unlock()

	for _, session := range idle {
		if err := session.End(context); err != nil {
			manager.logger.Warn("session_end_failed", slog.String("session_id", session.ID()), slog.Any("error", err))
			continue
		}
		manager.logger.Info("session_ended", slog.String("session_id", session.ID()), slog.String("reason", "idle"))
	}
	return len(idle)
}

// Shutdown ends every session and refuses new ones.
func (manager *Manager) Shutdown(context context.Context) error {
	manager.mu.Lock()
	manager.closed = true
	count := len(manager.sessions)
	manager.mu.Unlock()

	manager.cancelRuns()

	finished := make(chan struct{})
	go func() {
		manager.running.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		manager.logger.Info("sessions_shutdown", slog.Int("count", count))
		return nil
	case <-context.Done():
		return context.Err()
	}
}

func (manager *Manager) run(session *player.Session) {
	defer manager.running.Done()
	defer manager.forget(session.ID())

	if err := session.Run(manager.runContext); err != nil && !errors.Is(err, context.Canceled) {
		manager.logger.Warn("session_run_failed", slog.String("session_id", session.ID()), slog.Any("error", err))
	}
}

func (manager *Manager) checkCapacity() error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.closed || len(manager.sessions) >= manager.options.MaxSessions {
		return apperr.ServiceUnavailable("Player session limit reached")
	}
	return nil
}

// touch marks a session as seen; streams keep their session alive.
func (manager *Manager) touch(id string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if entry, ok := manager.sessions[id]; ok {
		entry.lastSeen = manager.options.Clock.Now()
	}
}

func (manager *Manager) forget(id string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	delete(manager.sessions, id)
}
