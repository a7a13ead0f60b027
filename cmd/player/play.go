// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/taibuivan/zled/internal/kiosk"
)

func init() {
	rootCmd.AddCommand(playCmd)

	flags := playCmd.Flags()
	flags.StringP("screen", "s", "", "Screen id to play")
	flags.StringP("output", "o", "", "PNG file receiving the current page")
	flags.Bool("headless", false, "Run without the terminal view")
	flags.Float64("width", 0, "Viewport width in CSS pixels")
	flags.Float64("height", 0, "Viewport height in CSS pixels")
	flags.Float64("density", 0, "Device pixel ratio")

	lo.Must0(config.BindPFlag(kiosk.KeyScreen, flags.Lookup("screen")))
	lo.Must0(config.BindPFlag(kiosk.KeyOutput, flags.Lookup("output")))
	lo.Must0(config.BindPFlag(kiosk.KeyHeadless, flags.Lookup("headless")))
	lo.Must0(config.BindPFlag(kiosk.KeyViewportWidth, flags.Lookup("width")))
	lo.Must0(config.BindPFlag(kiosk.KeyViewportHeight, flags.Lookup("height")))
	lo.Must0(config.BindPFlag(kiosk.KeyViewportDensity, flags.Lookup("density")))
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a screen's playlist",
	Example: "  zled-player play --server http://localhost:8080 --screen 0190f3c2-... --output frame.png\n" +
		"  ZLED_SCREEN=0190f3c2-... zled-player play --headless",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := kiosk.Load(config)
		if err != nil {
			return err
		}

		logger := newLogger(cfg.Debug)
		context, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return kiosk.Run(context, cfg, kiosk.RunOptions{
			Viper:  config,
			Logger: logger,
		})
	},
}

// newLogger writes text logs to stderr in debug mode and discards them otherwise.
func newLogger(debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With(slog.String("app", "zled-player"))
}
