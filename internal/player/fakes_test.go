// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taibuivan/zled/internal/player"
)

// # Documents

type fakeDocument struct {
	pages     int
	size      player.Size
	sizeErr   error
	renderErr error
	closed    atomic.Bool
	closeErr  error
}

func newFakeDocument(pages int) *fakeDocument {
	return &fakeDocument{pages: pages, size: player.Size{Width: 612, Height: 792}}
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) PageSize(pageNumber int) (player.Size, error) {
	if pageNumber < 1 || pageNumber > d.pages {
		return player.Size{}, fmt.Errorf("page %d out of range", pageNumber)
	}
	return d.size, d.sizeErr
}

func (d *fakeDocument) RenderPage(_ int, scale float64) (image.Image, error) {
	if d.renderErr != nil {
		return nil, d.renderErr
	}
	width := max(int(d.size.Width*scale), 1)
	height := max(int(d.size.Height*scale), 1)
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func (d *fakeDocument) Close() error {
	d.closed.Store(true)
	return d.closeErr
}

func handles(documents ...*fakeDocument) []player.DocumentHandle {
	result := make([]player.DocumentHandle, 0, len(documents))
	for i, document := range documents {
		result = append(result, player.DocumentHandle{
			Entry:    player.PlaylistEntry{DocumentID: fmt.Sprintf("doc-%d", i), DisplayName: fmt.Sprintf("doc-%d.pdf", i)},
			Document: document,
		})
	}
	return result
}

// # Fetch & Decode

type fakeFetcher struct {
	mu      sync.Mutex
	content map[string][]byte
	delay   map[string]time.Duration
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	raw, ok := f.content[src]
	delay := f.delay[src]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, errors.New("not found")
	}
	return raw, nil
}

// fakeDecoder interprets the raw bytes as "pages:<n>".
// A non-zero delay blocks every Decode, like a large PDF.
type fakeDecoder struct {
	mu      sync.Mutex
	decoded []*fakeDocument
	delay   time.Duration
}

func (d *fakeDecoder) Decode(raw []byte) (player.Document, error) {
	time.Sleep(d.delay)

	var pages int
	if _, err := fmt.Sscanf(string(raw), "pages:%d", &pages); err != nil {
		return nil, fmt.Errorf("corrupt document: %w", err)
	}
	document := newFakeDocument(pages)

	d.mu.Lock()
	d.decoded = append(d.decoded, document)
	d.mu.Unlock()
	return document, nil
}

func (d *fakeDecoder) Close() error { return nil }

func (d *fakeDecoder) documents() []*fakeDocument {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeDocument(nil), d.decoded...)
}

// # Renderer

// fakeRenderer renders instantly unless a gate is registered for the page.
type fakeRenderer struct {
	mu    sync.Mutex
	gates map[int]chan struct{}
	fail  map[int]error
	calls atomic.Int32
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{gates: map[int]chan struct{}{}, fail: map[int]error{}}
}

func (r *fakeRenderer) hold(pageNumber int) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	gate := make(chan struct{})
	r.gates[pageNumber] = gate
	return gate
}

func (r *fakeRenderer) failOn(pageNumber int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[pageNumber] = err
}

func (r *fakeRenderer) Render(ctx context.Context, _ player.Document, pageNumber int, viewport player.Viewport) (*player.Frame, error) {
	r.calls.Add(1)

	r.mu.Lock()
	gate := r.gates[pageNumber]
	err := r.fail[pageNumber]
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &player.Frame{Image: image.NewRGBA(image.Rect(0, 0, int(viewport.Width), int(viewport.Height)))}, nil
}

// # Clock

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	current *fakeTicker
	created int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) NewTicker(time.Duration) player.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	ticker := &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	c.current = ticker
	c.created++
	return ticker
}

func (c *fakeClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// Current is the live ticker, nil before the first StartTimer.
func (c *fakeClock) Current() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Tick delivers one tick to the live ticker, waiting up to a second for one.
func (c *fakeClock) Tick() bool {
	deadline := time.After(time.Second)
	for {
		c.mu.Lock()
		ticker := c.current
		now := c.now
		c.mu.Unlock()

		if ticker == nil {
			select {
			case <-deadline:
				return false
			case <-time.After(time.Millisecond):
				continue
			}
		}

		select {
		case ticker.c <- now:
			return true
		case <-ticker.stopped:
			// Replaced while we waited; retry on the new one.
			c.mu.Lock()
			if c.current == ticker {
				c.current = nil
			}
			c.mu.Unlock()
		case <-deadline:
			return false
		}
	}
}

type fakeTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }
