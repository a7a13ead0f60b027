// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package settings stores the playback settings of a screen.
package settings

import (
	"context"
	"time"
)

// Settings is the playback configuration of one screen.
type Settings struct {
	ScreenID     string    `json:"screen_id"`
	PageDuration int       `json:"page_duration"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlaylistInvalidator drops cached playlists after settings change.
type PlaylistInvalidator interface {
	Invalidate(context context.Context, screenID string) error
}

const FieldPageDuration = "page_duration"
