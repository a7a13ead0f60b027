// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import "math"

// Fit is the placement of a page inside a viewport.
//
// CSS dimensions are the displayed size; raster dimensions are the bitmap
// size, i.e. the CSS size multiplied by the device pixel ratio.
type Fit struct {
	Scale        float64 `json:"scale"`
	Density      float64 `json:"density"`
	CSSWidth     float64 `json:"css_width"`
	CSSHeight    float64 `json:"css_height"`
	RasterWidth  int     `json:"raster_width"`
	RasterHeight int     `json:"raster_height"`
}

// PixelsPerPoint is the raster resolution the backend must render at.
func (fit Fit) PixelsPerPoint() float64 {
	return fit.Scale * fit.Density
}

// ComputeFit scales page uniformly so that it fits entirely inside viewport.
func ComputeFit(page Size, viewport Viewport) (Fit, error) {
	viewport = viewport.normalized()

	if page.Width <= 0 || page.Height <= 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return Fit{}, ErrInvalidPageSize
	}

	scale := math.Min(viewport.Width/page.Width, viewport.Height/page.Height)
	cssWidth := page.Width * scale
	cssHeight := page.Height * scale

	return Fit{
		Scale:        scale,
		Density:      viewport.Density,
		CSSWidth:     cssWidth,
		CSSHeight:    cssHeight,
		RasterWidth:  int(math.Floor(cssWidth * viewport.Density)),
		RasterHeight: int(math.Floor(cssHeight * viewport.Density)),
	}, nil
}
