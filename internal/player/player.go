// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package player implements the page-sequencing and rendering engine behind a
screen's public player.

Pipeline:

  - Loader: resolves every playlist entry to a decoded [Document], in parallel,
    keeping playlist order and dropping failures.
  - Flatten: turns the loaded documents into one addressable [FlatPage] sequence.
  - Machine: the playback state machine (index, elapsed time, transitions).
  - Session: the single event loop that owns a Machine and drives its timer,
    input and render requests.
  - PageRenderer: fits a page into the viewport and rasterises it.

The rendering backend is injected as a [Decoder]; this package holds no
global decoder state.
*/
package player

import (
	"context"
	"image"
)

// # Playlist

// PlaylistEntry is one document of a screen's playlist.
type PlaylistEntry struct {
	DocumentID     string `json:"document_id"`
	DisplayName    string `json:"display_name"`
	SourceLocation string `json:"source_location"`
}

// Playlist is the read-only input of a player session.
type Playlist struct {
	ScreenID            string
	ScreenName          string
	Entries             []PlaylistEntry
	PageDurationSeconds int
}

// PlaylistProvider resolves a screen to its playlist.
//
// Implementations return an error matching [ErrScreenNotFound] when the
// screen does not exist.
type PlaylistProvider interface {
	GetPlaylist(context context.Context, screenID string) (*Playlist, error)
}

// Fetcher retrieves the raw bytes behind a source location.
type Fetcher interface {
	Fetch(context context.Context, sourceLocation string) ([]byte, error)
}

// # Rendering Backend

// Size is a page size in PDF points.
type Size struct {
	Width  float64
	Height float64
}

// Document is a decoded document owned by the backend.
//
// Page numbers are 1-based.
type Document interface {
	PageCount() int
	PageSize(pageNumber int) (Size, error)

	// RenderPage rasterises a page at scale raster pixels per point.
	RenderPage(pageNumber int, scale float64) (image.Image, error)

	Close() error
}

// Decoder turns raw bytes into a [Document].
//
// A Decoder is created by the caller, passed to the [Loader] and closed by
// the caller once no session uses it anymore.
type Decoder interface {
	Decode(raw []byte) (Document, error)
	Close() error
}

// DocumentHandle is a successfully loaded playlist entry.
type DocumentHandle struct {
	Entry    PlaylistEntry
	Document Document
}

// PageCount returns the number of pages of the decoded document.
func (handle DocumentHandle) PageCount() int {
	if handle.Document == nil {
		return 0
	}
	return handle.Document.PageCount()
}

// # Viewport

// Viewport is the drawing area in CSS pixels plus the device pixel ratio.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Density float64 `json:"density"`
}

// normalized returns the viewport with a usable density.
func (viewport Viewport) normalized() Viewport {
	if viewport.Density <= 0 {
		viewport.Density = 1
	}
	return viewport
}
