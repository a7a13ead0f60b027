// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/zled/internal/player"
)

const (
	waitFor = 2 * time.Second
	poll    = 5 * time.Millisecond
)

type sessionFixture struct {
	session   *player.Session
	clock     *fakeClock
	renderer  *fakeRenderer
	documents []*fakeDocument
	cancel    context.CancelFunc
	result    chan error
}

func startSession(t *testing.T, duration int, documents ...*fakeDocument) *sessionFixture {
	t.Helper()

	fixture := &sessionFixture{
		clock:     newFakeClock(),
		renderer:  newFakeRenderer(),
		documents: documents,
		result:    make(chan error, 1),
	}
	playlist := &player.Playlist{ScreenID: "screen-1", ScreenName: "Lobby", PageDurationSeconds: duration}

	fixture.session = player.NewSession("session-1", playlist, handles(documents...), testViewport, player.SessionOptions{
		Clock:    fixture.clock,
		Renderer: fixture.renderer,
		Logger:   discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	fixture.cancel = cancel
	go func() { fixture.result <- fixture.session.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-fixture.session.Done()
	})
	return fixture
}

func (f *sessionFixture) send(t *testing.T, event player.Event) {
	t.Helper()
	require.NoError(t, f.session.Send(context.Background(), event))
}

func (f *sessionFixture) waitIndex(t *testing.T, index int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.session.Snapshot().State.CurrentIndex == index
	}, waitFor, poll)
}

func (f *sessionFixture) waitFrame(t *testing.T, pageNumber, documentIndex int) {
	t.Helper()
	require.Eventually(t, func() bool {
		frame := f.session.Frame()
		return frame != nil && frame.Page.PageNumber == pageNumber && frame.Page.DocumentIndex == documentIndex &&
			!f.session.Snapshot().State.Transitioning
	}, waitFor, poll)
}

/*
TestSession_FirstFrame verifies that a session renders the first page on start.
*/
func TestSession_FirstFrame(t *testing.T) {
	fixture := startSession(t, 10, newFakeDocument(2), newFakeDocument(1))

	fixture.waitFrame(t, 1, 0)

	snapshot := fixture.session.Snapshot()
	assert.Equal(t, player.StatusDisplaying, snapshot.State.Status)
	assert.Equal(t, 3, snapshot.State.Length)
	assert.Equal(t, "Lobby", snapshot.ScreenName)
	assert.Equal(t, "doc-0.pdf - Page 1/2 • 1/3 total", snapshot.Info)
	assert.Equal(t, uint64(1), snapshot.FrameSeq)
	assert.Empty(t, snapshot.Message)
}

/*
TestSession_Empty verifies the No Content state.
*/
func TestSession_Empty(t *testing.T) {
	fixture := startSession(t, 10, newFakeDocument(0))

	require.Eventually(t, func() bool {
		return fixture.session.Snapshot().Message == player.MessageNoContent
	}, waitFor, poll)

	// Navigation is accepted but changes nothing
	fixture.send(t, player.Next{})
	snapshot := fixture.session.Snapshot()
	assert.Equal(t, player.StatusEmpty, snapshot.State.Status)
	assert.Nil(t, snapshot.Page)
	assert.Zero(t, fixture.clock.Created())
	assert.Nil(t, fixture.session.Frame())
}

/*
TestSession_TimerAdvance drives the ticker and checks the wrap-around.
*/
func TestSession_TimerAdvance(t *testing.T) {
	fixture := startSession(t, 2, newFakeDocument(1), newFakeDocument(1))
	fixture.waitFrame(t, 1, 0)

	// 1. Progress after one tick
	require.True(t, fixture.clock.Tick())
	require.Eventually(t, func() bool {
		return fixture.session.Snapshot().State.ElapsedSeconds == 1
	}, waitFor, poll)
	assert.InDelta(t, 50.0, fixture.session.Snapshot().Progress, 1e-9)

	// 2. Advance on the second
	require.True(t, fixture.clock.Tick())
	fixture.waitIndex(t, 1)
	fixture.waitFrame(t, 1, 1)

	// 3. Wrap to the first document
	require.True(t, fixture.clock.Tick())
	require.True(t, fixture.clock.Tick())
	fixture.waitIndex(t, 0)
}

/*
TestSession_Navigation checks manual navigation and input activity.
*/
func TestSession_Navigation(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(3))
	fixture.waitFrame(t, 1, 0)

	fixture.send(t, player.Tick{})
	fixture.send(t, player.Next{})
	fixture.waitFrame(t, 2, 0)

	snapshot := fixture.session.Snapshot()
	assert.Zero(t, snapshot.State.ElapsedSeconds)
	assert.True(t, snapshot.InputActive)

	// Navigation restarts the timer
	assert.GreaterOrEqual(t, fixture.clock.Created(), 2)

	fixture.send(t, player.Prev{})
	fixture.send(t, player.Prev{})
	fixture.waitFrame(t, 3, 0)

	// Activity expires
	fixture.clock.Advance(player.DefaultInputActiveWindow + time.Millisecond)
	assert.False(t, fixture.session.Snapshot().InputActive)
}

/*
TestSession_TimerRestart checks that navigation replaces the page timer: the
old ticker is stopped, its ticks go unread and elapsed time starts over.
*/
func TestSession_TimerRestart(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(3))
	fixture.waitFrame(t, 1, 0)

	// 1. One second on the first page
	require.True(t, fixture.clock.Tick())
	require.Eventually(t, func() bool {
		return fixture.session.Snapshot().State.ElapsedSeconds == 1
	}, waitFor, poll)
	old := fixture.clock.Current()
	require.NotNil(t, old)

	// 2. Next stops the old ticker
	fixture.send(t, player.Next{})
	fixture.waitFrame(t, 2, 0)
	select {
	case <-old.stopped:
	case <-time.After(waitFor):
		t.Fatal("previous ticker still running")
	}
	assert.NotSame(t, old, fixture.clock.Current())

	// 3. A pending tick of the old ticker is never read
	select {
	case old.c <- time.Now():
		t.Fatal("tick of a stopped ticker was consumed")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Zero(t, fixture.session.Snapshot().State.ElapsedSeconds)

	// 4. The new ticker counts from zero
	require.True(t, fixture.clock.Tick())
	require.Eventually(t, func() bool {
		return fixture.session.Snapshot().State.ElapsedSeconds == 1
	}, waitFor, poll)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, fixture.session.Snapshot().State.ElapsedSeconds)
}

/*
TestSession_StaleRenderDiscarded verifies that a slow render for a page the
user already left never reaches the screen.
*/
func TestSession_StaleRenderDiscarded(t *testing.T) {
	document := newFakeDocument(2)
	fixture := &sessionFixture{}
	renderer := newFakeRenderer()
	gate := renderer.hold(1)

	session := player.NewSession("s", &player.Playlist{PageDurationSeconds: 60}, handles(document), testViewport, player.SessionOptions{
		Clock: newFakeClock(), Renderer: renderer, Logger: discardLogger(),
	})
	fixture.session = session

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = session.Run(ctx) }()

	fixture.send(t, player.Next{})
	fixture.waitFrame(t, 2, 0)

	// Release the stale render of page 1
	close(gate)
	require.Eventually(t, func() bool { return renderer.calls.Load() == 2 }, waitFor, poll)
	time.Sleep(20 * time.Millisecond)

	frame := session.Frame()
	require.NotNil(t, frame)
	assert.Equal(t, 2, frame.Page.PageNumber)
	assert.Equal(t, uint64(2), frame.Seq)

	require.NoError(t, session.End(context.Background()))
	assert.True(t, document.closed.Load())
}

/*
TestSession_RenderFailure keeps the previous frame on screen.
*/
func TestSession_RenderFailure(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(2))
	fixture.waitFrame(t, 1, 0)

	fixture.renderer.failOn(2, errors.New("broken page"))
	fixture.send(t, player.Next{})

	require.Eventually(t, func() bool {
		snapshot := fixture.session.Snapshot()
		return snapshot.RenderFailed && !snapshot.State.Transitioning
	}, waitFor, poll)

	snapshot := fixture.session.Snapshot()
	assert.Equal(t, 1, snapshot.State.CurrentIndex)
	assert.Equal(t, player.StatusDisplaying, snapshot.State.Status)
	assert.Equal(t, 1, fixture.session.Frame().Page.PageNumber)
}

/*
TestSession_Resize re-renders the current page for the new viewport.
*/
func TestSession_Resize(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(1))
	fixture.waitFrame(t, 1, 0)

	fixture.send(t, player.Resize{Viewport: player.Viewport{Width: 640, Height: 480}})

	require.Eventually(t, func() bool {
		frame := fixture.session.Frame()
		return frame != nil && frame.Image.Bounds().Dx() == 640
	}, waitFor, poll)
	assert.Equal(t, 640.0, fixture.session.Snapshot().State.Viewport.Width)
}

/*
TestSession_End verifies teardown through End.
*/
func TestSession_End(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(1), newFakeDocument(2))
	fixture.waitFrame(t, 1, 0)

	updates, unsubscribe := fixture.session.Subscribe()
	defer unsubscribe()

	require.NoError(t, fixture.session.End(context.Background()))

	// 1. Run returns cleanly
	select {
	case err := <-fixture.result:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("session did not stop")
	}

	// 2. Documents are released
	for _, document := range fixture.documents {
		assert.True(t, document.closed.Load())
	}

	// 3. Input is rejected
	assert.ErrorIs(t, fixture.session.Send(context.Background(), player.Next{}), player.ErrSessionEnded)
	assert.Equal(t, player.StatusEnded, fixture.session.Snapshot().State.Status)

	// 4. Subscribers are closed after the last update
	for range updates {
	}

	// 5. A second End is harmless
	assert.NoError(t, fixture.session.End(context.Background()))
}

/*
TestSession_ContextCancel tears the session down when its context ends.
*/
func TestSession_ContextCancel(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(1))
	fixture.waitFrame(t, 1, 0)

	fixture.cancel()

	select {
	case err := <-fixture.result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitFor):
		t.Fatal("session did not stop")
	}
	assert.True(t, fixture.documents[0].closed.Load())
	assert.False(t, fixture.clock.Tick())
}

/*
TestSession_EndBeforeRun releases documents of a session that never ran.
*/
func TestSession_EndBeforeRun(t *testing.T) {
	document := newFakeDocument(1)
	session := player.NewSession("s", nil, handles(document), testViewport, player.SessionOptions{Logger: discardLogger()})

	require.NoError(t, session.End(context.Background()))

	assert.True(t, document.closed.Load())
	assert.Error(t, session.Run(context.Background()))
}

/*
TestSession_Subscribe delivers the latest snapshot.
*/
func TestSession_Subscribe(t *testing.T) {
	fixture := startSession(t, 30, newFakeDocument(3))
	fixture.waitFrame(t, 1, 0)

	updates, unsubscribe := fixture.session.Subscribe()
	defer unsubscribe()

	// 1. The current snapshot is delivered immediately
	first := <-updates
	assert.Equal(t, 0, first.State.CurrentIndex)

	// 2. Later changes arrive
	fixture.send(t, player.Next{})
	require.Eventually(t, func() bool {
		select {
		case snapshot := <-updates:
			return snapshot.State.CurrentIndex == 1
		default:
			return false
		}
	}, waitFor, poll)
}
