// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import (
	"errors"
	"fmt"
)

var (
	// ErrScreenNotFound is fatal for a session: no playback is attempted.
	ErrScreenNotFound = errors.New("player: screen not found")

	// ErrEmptySequence reports that no page could be loaded.
	ErrEmptySequence = errors.New("player: no content")

	// ErrSessionEnded is returned when input reaches a torn-down session.
	ErrSessionEnded = errors.New("player: session ended")

	// ErrInvalidPageSize is returned by the fit computation for degenerate sizes.
	ErrInvalidPageSize = errors.New("player: invalid page or viewport size")
)

// DocumentLoadError describes one playlist entry that could not be loaded.
type DocumentLoadError struct {
	Entry PlaylistEntry
	Err   error
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("player: load %q (%s): %v", e.Entry.DisplayName, e.Entry.DocumentID, e.Err)
}

func (e *DocumentLoadError) Unwrap() error { return e.Err }

// RenderError describes a failed render of one flat page.
type RenderError struct {
	Index int
	Page  FlatPage
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("player: render page %d of %q (index %d): %v", e.Page.PageNumber, e.Page.DocumentName, e.Index, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
