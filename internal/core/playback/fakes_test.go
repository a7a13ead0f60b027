// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback_test

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/player"
)

type stubProvider struct {
	playlists map[string]*player.Playlist
}

func (p *stubProvider) GetPlaylist(_ context.Context, screenID string) (*player.Playlist, error) {
	playlist, ok := p.playlists[screenID]
	if !ok {
		return nil, fmt.Errorf("%w: %w", player.ErrScreenNotFound, apperr.NotFound("Screen"))
	}
	return playlist, nil
}

type stubDocument struct {
	pages  int
	closed atomic.Bool
}

func (d *stubDocument) PageCount() int { return d.pages }

func (d *stubDocument) PageSize(int) (player.Size, error) {
	return player.Size{Width: 400, Height: 300}, nil
}

func (d *stubDocument) RenderPage(_ int, scale float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, int(400*scale), int(300*scale))), nil
}

func (d *stubDocument) Close() error {
	d.closed.Store(true)
	return nil
}

// stubLoader decodes every entry as a document of two pages.
type stubLoader struct {
	mu        sync.Mutex
	documents []*stubDocument

	// during runs once the documents are decoded, before Load returns.
	during func()
}

func (l *stubLoader) Load(_ context.Context, entries []player.PlaylistEntry) player.LoadResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.during != nil {
		defer l.during()
	}

	var result player.LoadResult
	for _, entry := range entries {
		document := &stubDocument{pages: 2}
		l.documents = append(l.documents, document)
		result.Documents = append(result.Documents, player.DocumentHandle{Entry: entry, Document: document})
	}
	return result
}

func (l *stubLoader) allClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, document := range l.documents {
		if !document.closed.Load() {
			return false
		}
	}
	return true
}

// manualClock never ticks; tests move Now by hand.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *manualClock) NewTicker(time.Duration) player.Ticker { return silentTicker{} }

type silentTicker struct{}

func (silentTicker) C() <-chan time.Time { return nil }
func (silentTicker) Stop()               {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
