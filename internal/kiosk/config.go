// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kiosk is the standalone player: it fetches a screen's playlist from
the API, decodes the documents locally and runs the playback engine in the
terminal, writing every drawn frame to a PNG file for the display pipeline.

Configuration is read by viper from flags, ZLED_* environment variables and
an optional config file. Edits to the viewport in that file are applied to
the running session without a restart.
*/
package kiosk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/taibuivan/zled/internal/player"
)

// EnvPrefix namespaces the kiosk's environment variables (ZLED_SERVER, ...).
const EnvPrefix = "ZLED"

// Config keys.
const (
	KeyServer          = "server"
	KeyScreen          = "screen"
	KeyOutput          = "output"
	KeyHeadless        = "headless"
	KeyDebug           = "debug"
	KeyViewportWidth   = "viewport.width"
	KeyViewportHeight  = "viewport.height"
	KeyViewportDensity = "viewport.density"
	KeyTickInterval    = "player.tick_interval"
	KeySwipeThreshold  = "player.swipe_threshold"
	KeyLoadTimeout     = "player.load_timeout"
	KeyLoadConcurrency = "player.load_concurrency"
	KeyRenderParallel  = "player.render_parallelism"
)

var defaults = map[string]any{
	KeyServer:          "http://localhost:8080",
	KeyOutput:          "frame.png",
	KeyHeadless:        false,
	KeyDebug:           false,
	KeyViewportWidth:   1920.0,
	KeyViewportHeight:  1080.0,
	KeyViewportDensity: 1.0,
	KeyTickInterval:    player.DefaultTickInterval,
	KeySwipeThreshold:  player.DefaultSwipeThreshold,
	KeyLoadTimeout:     player.DefaultLoadTimeout,
	KeyLoadConcurrency: player.DefaultLoadConcurrency,
	KeyRenderParallel:  2,
}

// Config is the resolved kiosk configuration.
type Config struct {
	Server   string
	ScreenID string
	Output   string
	Headless bool
	Debug    bool
	Viewport player.Viewport

	TickInterval    time.Duration
	SwipeThreshold  float64
	LoadTimeout     time.Duration
	LoadConcurrency int
	RenderParallel  int
}

// Setup registers defaults and environment bindings on v and reads
// configFile when given. A missing default config file is not an error.
func Setup(v *viper.Viper, configFile string) error {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("zled-player")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("kiosk: read config: %w", err)
	}
	return nil
}

// Load resolves the current values of v.
func Load(v *viper.Viper) (Config, error) {
	config := Config{
		Server:   strings.TrimRight(v.GetString(KeyServer), "/"),
		ScreenID: v.GetString(KeyScreen),
		Output:   v.GetString(KeyOutput),
		Headless: v.GetBool(KeyHeadless),
		Debug:    v.GetBool(KeyDebug),
		Viewport: viewportOf(v),

		TickInterval:    v.GetDuration(KeyTickInterval),
		SwipeThreshold:  v.GetFloat64(KeySwipeThreshold),
		LoadTimeout:     v.GetDuration(KeyLoadTimeout),
		LoadConcurrency: v.GetInt(KeyLoadConcurrency),
		RenderParallel:  v.GetInt(KeyRenderParallel),
	}

	switch {
	case config.ScreenID == "":
		return Config{}, errors.New("kiosk: a screen id is required (--screen or ZLED_SCREEN)")
	case config.Server == "":
		return Config{}, errors.New("kiosk: a server URL is required")
	case config.Viewport.Width <= 0 || config.Viewport.Height <= 0:
		return Config{}, fmt.Errorf("kiosk: invalid viewport %vx%v", config.Viewport.Width, config.Viewport.Height)
	}
	return config, nil
}

// WatchViewport calls onChange with the new viewport whenever the config
// file changes and the viewport differs from the last one seen.
func WatchViewport(v *viper.Viper, onChange func(player.Viewport)) {
	last := viewportOf(v)

	v.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}
		viewport := viewportOf(v)
		if viewport == last || viewport.Width <= 0 || viewport.Height <= 0 {
			return
		}
		last = viewport
		onChange(viewport)
	})
	v.WatchConfig()
}

func viewportOf(v *viper.Viper) player.Viewport {
	return player.Viewport{
		Width:   v.GetFloat64(KeyViewportWidth),
		Height:  v.GetFloat64(KeyViewportHeight),
		Density: v.GetFloat64(KeyViewportDensity),
	}
}
