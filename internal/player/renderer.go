// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import (
	"context"
	"fmt"
	"image"
)

// Frame is a rendered page ready to be drawn.
type Frame struct {
	Seq   uint64
	Index int
	Page  FlatPage
	Fit   Fit
	Image image.Image
}

// Renderer rasterises one page of a document for a viewport.
//
// Implementations must tolerate concurrent calls; a [Session] never waits on
// a result that a newer request superseded.
type Renderer interface {
	Render(context context.Context, document Document, pageNumber int, viewport Viewport) (*Frame, error)
}

// PageRenderer is the default [Renderer]: fit the page inside the viewport,
// then ask the backend for a bitmap at the device resolution.
type PageRenderer struct{}

// Render implements [Renderer].
func (PageRenderer) Render(context context.Context, document Document, pageNumber int, viewport Viewport) (*Frame, error) {
	if err := context.Err(); err != nil {
		return nil, err
	}

	size, err := document.PageSize(pageNumber)
	if err != nil {
		return nil, fmt.Errorf("page size: %w", err)
	}

	fit, err := ComputeFit(size, viewport)
	if err != nil {
		return nil, err
	}

	raster, err := document.RenderPage(pageNumber, fit.PixelsPerPoint())
	if err != nil {
		return nil, fmt.Errorf("rasterise: %w", err)
	}

	// The backend cannot be interrupted; a cancelled request still reports so.
	if err := context.Err(); err != nil {
		return nil, err
	}

	return &Frame{Fit: fit, Image: raster}, nil
}
