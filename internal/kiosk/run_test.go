// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kiosk_test

import (
	"context"
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/zled/internal/kiosk"
	"github.com/taibuivan/zled/internal/player"
)

type stubDocument struct{ pages int }

func (d stubDocument) PageCount() int { return d.pages }
func (d stubDocument) PageSize(int) (player.Size, error) {
	return player.Size{Width: 160, Height: 90}, nil
}
func (d stubDocument) RenderPage(_ int, scale float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, int(160*scale), int(90*scale))), nil
}
func (d stubDocument) Close() error { return nil }

// stubDecoder reads "pages:N" payloads.
type stubDecoder struct{}

func (stubDecoder) Decode(raw []byte) (player.Document, error) {
	var pages int
	if _, err := fmt.Sscanf(string(raw), "pages:%d", &pages); err != nil {
		return nil, err
	}
	return stubDocument{pages: pages}, nil
}

func (stubDecoder) Close() error { return nil }

func runConfig(server, screen string) kiosk.Config {
	return kiosk.Config{
		Server:          server,
		ScreenID:        screen,
		Output:          "/out/frame.png",
		Headless:        true,
		Viewport:        player.Viewport{Width: 320, Height: 180, Density: 1},
		TickInterval:    time.Hour,
		LoadTimeout:     5 * time.Second,
		LoadConcurrency: 2,
	}
}

/*
TestRun_Headless plays a screen and publishes its first frame.
*/
func TestRun_Headless(t *testing.T) {
	api := newAPIServer(t)
	filesystem := afero.NewMemMapFs()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- kiosk.Run(ctx, runConfig(api.URL, "lobby"), kiosk.RunOptions{
			Fs:         filesystem,
			HTTPClient: api.Client(),
			Decoder:    stubDecoder{},
			Logger:     discardLogger(),
		})
	}()

	assert.Eventually(t, func() bool {
		exists, _ := afero.Exists(filesystem, "/out/frame.png")
		return exists
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

/*
TestRun_UnknownScreen fails before any playback.
*/
func TestRun_UnknownScreen(t *testing.T) {
	api := newAPIServer(t)

	err := kiosk.Run(context.Background(), runConfig(api.URL, "missing"), kiosk.RunOptions{
		Fs:         afero.NewMemMapFs(),
		HTTPClient: api.Client(),
		Decoder:    stubDecoder{},
		Logger:     discardLogger(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, player.ErrScreenNotFound)
}
