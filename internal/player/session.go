// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInputActiveWindow is how long the player stays "active" after user input.
const DefaultInputActiveWindow = 3 * time.Second

// MessageNoContent is shown by a session in the Empty state.
const MessageNoContent = "No Content"

// SessionOptions configures a [Session]. Zero values fall back to defaults.
type SessionOptions struct {
	TickInterval      time.Duration
	InputActiveWindow time.Duration
	Clock             Clock
	Renderer          Renderer
	Logger            *slog.Logger
}

func (options SessionOptions) withDefaults() SessionOptions {
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	if options.InputActiveWindow <= 0 {
		options.InputActiveWindow = DefaultInputActiveWindow
	}
	if options.Clock == nil {
		options.Clock = SystemClock{}
	}
	if options.Renderer == nil {
		options.Renderer = PageRenderer{}
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return options
}

// Snapshot is the externally visible state of a session.
type Snapshot struct {
	SessionID    string    `json:"session_id"`
	ScreenID     string    `json:"screen_id"`
	ScreenName   string    `json:"screen_name"`
	State        State     `json:"state"`
	Page         *FlatPage `json:"page,omitempty"`
	Progress     float64   `json:"progress"`
	Info         string    `json:"info,omitempty"`
	Message      string    `json:"message,omitempty"`
	InputActive  bool      `json:"input_active"`
	FrameSeq     uint64    `json:"frame_seq"`
	RenderFailed bool      `json:"render_failed"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is one active player: a single event loop owning a [Machine].
//
// The ticker, user input ([Session.Send]) and render completions are the
// three producers; [Session.Run] consumes them one at a time, so machine
// transitions never interleave.
type Session struct {
	id        string
	playlist  *Playlist
	documents []DocumentHandle
	pages     []FlatPage
	machine   *Machine
	options   SessionOptions
	logger    *slog.Logger

	events  chan Event
	done    chan struct{}
	started chan struct{}

	// Owned by the Run goroutine.
	ticker  Ticker
	renders sync.WaitGroup

	releaseOnce sync.Once
	startOnce   sync.Once

	mu           sync.RWMutex
	activeUntil  time.Time
	snapshot     Snapshot
	frame        *Frame
	renderFailed bool
	subscribers  map[int]chan Snapshot
	nextSubID    int
}

// NewSession builds a session over already loaded documents. The session
// owns the documents from now on and closes them when it ends.
func NewSession(id string, playlist *Playlist, documents []DocumentHandle, viewport Viewport, options SessionOptions) *Session {
	options = options.withDefaults()
	pages := Flatten(documents)

	duration := DefaultPageDurationSeconds
	if playlist != nil && playlist.PageDurationSeconds > 0 {
		duration = playlist.PageDurationSeconds
	}
	if playlist == nil {
		playlist = &Playlist{}
	}

	session := &Session{
		id:          id,
		playlist:    playlist,
		documents:   documents,
		pages:       pages,
		machine:     NewMachine(len(pages), duration, viewport),
		options:     options,
		logger:      options.Logger.With(slog.String("session_id", id), slog.String("screen_id", playlist.ScreenID)),
		events:      make(chan Event),
		done:        make(chan struct{}),
		started:     make(chan struct{}),
		subscribers: make(map[int]chan Snapshot),
	}
	session.snapshot = session.buildSnapshot()
	return session
}

// ID returns the session identifier.
func (session *Session) ID() string { return session.id }

// Pages returns the flattened page sequence.
func (session *Session) Pages() []FlatPage { return session.pages }

// Done is closed once the session has been torn down.
func (session *Session) Done() <-chan struct{} { return session.done }

// Run drives the session until [End] is received or parent is cancelled.
// Teardown (timer stopped, renders settled, documents released) happens on
// every exit path.
func (session *Session) Run(parent context.Context) error {
	claimed := false
	session.startOnce.Do(func() { claimed = true })
	if !claimed {
		return fmt.Errorf("player: session %s already started", session.id)
	}
	close(session.started)

	renderContext, cancelRenders := context.WithCancel(parent)
	defer session.teardown(cancelRenders)

	if session.machine.State().Status == StatusEmpty {
		session.logger.Info("session_empty", slog.String("reason", ErrEmptySequence.Error()))
	}

	session.execute(renderContext, session.machine.Start())
	session.publish()

	for {
		var tickC <-chan time.Time
		if session.ticker != nil {
			tickC = session.ticker.C()
		}

		var event Event
		select {
		case <-parent.Done():
			session.execute(renderContext, session.machine.Apply(End{}))
			return parent.Err()
		case <-tickC:
			event = Tick{}
		case event = <-session.events:
		}

		session.execute(renderContext, session.machine.Apply(event))
		session.publish()

		if session.machine.State().Status == StatusEnded {
			return nil
		}
	}
}

// Send enqueues an event. It blocks until the loop accepts it, the session
// ends or context is cancelled.
func (session *Session) Send(context context.Context, event Event) error {
	switch event.(type) {
	case Next, Prev, Resize:
		session.markActive()
	}

	select {
	case session.events <- event:
		return nil
	case <-session.done:
		return ErrSessionEnded
	case <-context.Done():
		return context.Err()
	}
}

// End requests teardown and waits for it. Ending a session twice is harmless.
func (session *Session) End(context context.Context) error {
	claimed := false
	session.startOnce.Do(func() { claimed = true })
	if claimed {
		// Never ran: nothing is in flight.
		close(session.started)
		session.teardown(func() {})
		return nil
	}

	<-session.started
	if err := session.Send(context, End{}); err != nil && !errors.Is(err, ErrSessionEnded) {
		return err
	}

	select {
	case <-session.done:
		return nil
	case <-context.Done():
		return context.Err()
	}
}

// Snapshot returns the latest published snapshot.
func (session *Session) Snapshot() Snapshot {
	session.mu.RLock()
	defer session.mu.RUnlock()

	snapshot := session.snapshot
	snapshot.InputActive = session.options.Clock.Now().Before(session.activeUntil)
	return snapshot
}

// Frame returns the frame currently on screen, or nil before the first draw.
func (session *Session) Frame() *Frame {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.frame
}

// Subscribe streams snapshots. Slow readers only see the most recent one.
// The returned function unsubscribes; the channel is closed at teardown.
func (session *Session) Subscribe() (<-chan Snapshot, func()) {
	session.mu.Lock()
	defer session.mu.Unlock()

	updates := make(chan Snapshot, 1)
	select {
	case <-session.done:
		close(updates)
		return updates, func() {}
	default:
	}

	id := session.nextSubID
	session.nextSubID++
	session.subscribers[id] = updates
	updates <- session.snapshot

	return updates, func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		if channel, ok := session.subscribers[id]; ok {
			delete(session.subscribers, id)
			close(channel)
		}
	}
}

// # Effects

func (session *Session) execute(renderContext context.Context, effects []Effect) {
	for _, effect := range effects {
		switch effect := effect.(type) {
		case StartTimer:
			session.stopTimer()
			session.ticker = session.options.Clock.NewTicker(session.options.TickInterval)
		case StopTimer:
			session.stopTimer()
		case RequestRender:
			session.startRender(renderContext, effect)
		case DrawFrame:
			session.mu.Lock()
			session.frame = effect.Frame
			session.renderFailed = false
			session.mu.Unlock()
		case ReportRenderFailure:
			session.mu.Lock()
			session.renderFailed = true
			session.mu.Unlock()
			page := session.pages[effect.Index]
			session.logger.Warn("render_failed",
				slog.Int("index", effect.Index),
				slog.String("document", page.DocumentName),
				slog.Int("page", page.PageNumber),
				slog.Any("error", &RenderError{Index: effect.Index, Page: page, Err: effect.Err}),
			)
		case DiscardFrame:
			session.logger.Debug("render_discarded", slog.Uint64("seq", effect.Seq))
		case ReleaseDocuments:
			session.release()
		}
	}
}

// startRender runs one render request off the loop and reports back.
func (session *Session) startRender(renderContext context.Context, request RequestRender) {
	page := session.pages[request.Index]
	handle := session.documents[page.DocumentIndex]

	session.renders.Add(1)
	go func() {
		defer session.renders.Done()

		frame, err := session.options.Renderer.Render(renderContext, handle.Document, page.PageNumber, request.Viewport)
		if frame != nil {
			frame.Seq = request.Seq
			frame.Index = request.Index
			frame.Page = page
		}

		select {
		case session.events <- RenderCompleted{Seq: request.Seq, Frame: frame, Err: err}:
		case <-session.done:
		}
	}()
}

func (session *Session) stopTimer() {
	if session.ticker != nil {
		session.ticker.Stop()
		session.ticker = nil
	}
}

// # Teardown

func (session *Session) teardown(cancelRenders func()) {
	session.stopTimer()
	session.closeDone()

	cancelRenders()
	session.renders.Wait()
	session.release()

	session.mu.Lock()
	defer session.mu.Unlock()
	session.snapshot = session.buildSnapshotLocked()
	session.snapshot.State.Status = StatusEnded
	for id, channel := range session.subscribers {
		delete(session.subscribers, id)
		close(channel)
	}
}

// release closes the document handles exactly once. In-flight renders are
// settled by teardown before the loop exits, but ReleaseDocuments may run
// while a render still holds a document, so it waits for them too.
func (session *Session) release() {
	session.releaseOnce.Do(func() {
		session.closeDone()
		session.renders.Wait()

		if err := releaseDocuments(session.documents); err != nil {
			session.logger.Warn("document_release_failed", slog.Any("error", err))
		}
		session.logger.Info("session_released", slog.Int("documents", len(session.documents)))
	})
}

func (session *Session) closeDone() {
	session.mu.Lock()
	defer session.mu.Unlock()
	select {
	case <-session.done:
	default:
		close(session.done)
	}
}

// # Snapshots

func (session *Session) markActive() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.activeUntil = session.options.Clock.Now().Add(session.options.InputActiveWindow)
}

func (session *Session) publish() {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.snapshot = session.buildSnapshotLocked()
	for _, channel := range session.subscribers {
		select {
		case channel <- session.snapshot:
		default:
			// Drop the stale value and keep the latest.
			select {
			case <-channel:
			default:
			}
			channel <- session.snapshot
		}
	}
}

func (session *Session) buildSnapshot() Snapshot {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.buildSnapshotLocked()
}

func (session *Session) buildSnapshotLocked() Snapshot {
	state := session.machine.State()
	snapshot := Snapshot{
		SessionID:    session.id,
		ScreenID:     session.playlist.ScreenID,
		ScreenName:   session.playlist.ScreenName,
		State:        state,
		RenderFailed: session.renderFailed,
		UpdatedAt:    session.options.Clock.Now(),
	}

	if session.frame != nil {
		snapshot.FrameSeq = session.frame.Seq
	}

	if state.Status == StatusEmpty || state.Length == 0 {
		snapshot.Message = MessageNoContent
		return snapshot
	}

	page := session.pages[state.CurrentIndex]
	snapshot.Page = &page
	snapshot.Progress = float64(state.ElapsedSeconds) / float64(state.PageDurationSeconds) * 100
	snapshot.Info = InfoLine(page, state.CurrentIndex, state.Length)
	return snapshot
}

// InfoLine formats the overlay text shown under the current page.
func InfoLine(page FlatPage, index, total int) string {
	return fmt.Sprintf("%s - Page %d/%d • %d/%d total", page.DocumentName, page.PageNumber, page.PageCount, index+1, total)
}
