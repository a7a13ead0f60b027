// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kiosk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/taibuivan/zled/internal/player"
	"github.com/taibuivan/zled/internal/player/fitz"
	"github.com/taibuivan/zled/pkg/uuid"
)

// endTimeout bounds the teardown of the session on exit.
const endTimeout = 10 * time.Second

// RunOptions carries the collaborators of [Run]. Zero values select the
// production implementations.
type RunOptions struct {
	// Viper, when set, is watched for viewport changes.
	Viper *viper.Viper

	Fs         afero.Fs
	HTTPClient *http.Client
	Decoder    player.Decoder
	Logger     *slog.Logger

	// TeaInput and TeaOutput redirect the terminal view, e.g. in tests.
	TeaInput  io.Reader
	TeaOutput io.Writer
}

/*
Run plays a screen until parent is cancelled or the user quits.

Steps:
 1. Fetch the playlist (retrying); an unknown screen is fatal.
 2. Download and decode every document; failures are logged and dropped.
 3. Run the session, publishing each new frame to the output PNG.
 4. Show the terminal view, or wait for cancellation when headless.
*/
func Run(parent context.Context, config Config, options RunOptions) error {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if options.Fs == nil {
		options.Fs = afero.NewOsFs()
	}

	// 1. Playlist
	client := NewClient(config.Server, options.HTTPClient, logger)
	playlist, err := client.GetPlaylist(parent, config.ScreenID)
	if err != nil {
		return err
	}
	logger.Info("playlist_loaded",
		slog.String("screen_id", playlist.ScreenID),
		slog.Int("documents", len(playlist.Entries)),
		slog.Int("page_duration", playlist.PageDurationSeconds),
	)

	// 2. Documents
	decoder := options.Decoder
	if decoder == nil {
		local := fitz.NewDecoder(config.RenderParallel)
		defer local.Close()
		decoder = local
	}

	loader := player.NewLoader(client, decoder, player.LoaderOptions{
		Timeout:     config.LoadTimeout,
		Concurrency: config.LoadConcurrency,
	}, logger)
	loaded := loader.Load(parent, playlist.Entries)

	// 3. Session
	session := player.NewSession(uuid.New(), playlist, loaded.Documents, config.Viewport, player.SessionOptions{
		TickInterval: config.TickInterval,
		Logger:       logger,
	})

	runContext, cancel := context.WithCancel(parent)
	defer cancel()

	finished := make(chan error, 1)
	go func() { finished <- session.Run(runContext) }()

	frames, unsubscribe := session.Subscribe()
	defer unsubscribe()
	go publishFrames(session, frames, NewFrameSink(options.Fs, config.Output), logger)

	if options.Viper != nil {
		WatchViewport(options.Viper, func(viewport player.Viewport) {
			logger.Info("viewport_changed", slog.Float64("width", viewport.Width), slog.Float64("height", viewport.Height))
			if err := session.Send(runContext, player.Resize{Viewport: viewport}); err != nil {
				logger.Warn("viewport_change_dropped", slog.Any("error", err))
			}
		})
	}

	// 4. Foreground
	var viewErr error
	if config.Headless {
		select {
		case <-parent.Done():
		case <-session.Done():
		}
	} else {
		updates, stop := session.Subscribe()
		defer stop()

		teaOptions := []tea.ProgramOption{tea.WithContext(runContext)}
		if options.TeaInput != nil || options.TeaOutput != nil {
			teaOptions = append(teaOptions, tea.WithInput(options.TeaInput), tea.WithOutput(options.TeaOutput))
		} else {
			teaOptions = append(teaOptions, tea.WithAltScreen())
		}

		_, viewErr = tea.NewProgram(newModel(runContext, session, updates, config.Output), teaOptions...).Run()
		if errors.Is(viewErr, tea.ErrProgramKilled) {
			viewErr = nil
		}
	}

	endContext, cancelEnd := context.WithTimeout(context.Background(), endTimeout)
	defer cancelEnd()
	if err := session.End(endContext); err != nil {
		logger.Warn("session_end_failed", slog.Any("error", err))
	}
	if err := <-finished; err != nil {
		logger.Debug("session_stopped", slog.Any("error", err))
	}

	if viewErr != nil {
		return fmt.Errorf("kiosk: terminal view: %w", viewErr)
	}
	return nil
}

// publishFrames writes the current frame whenever a snapshot announces a new one.
func publishFrames(session *player.Session, snapshots <-chan player.Snapshot, sink *FrameSink, logger *slog.Logger) {
	var published uint64
	for snapshot := range snapshots {
		if snapshot.FrameSeq == 0 || snapshot.FrameSeq == published {
			continue
		}

		written, err := sink.Write(session.Frame())
		if err != nil {
			logger.Warn("frame_write_failed", slog.Any("error", err))
			continue
		}
		if written {
			published = snapshot.FrameSeq
			logger.Debug("frame_written", slog.Uint64("seq", published))
		}
	}
}

