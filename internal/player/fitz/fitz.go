// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fitz is the MuPDF rendering backend of the player, built on go-fitz.
package fitz

import (
	"errors"
	"fmt"
	"image"
	"sync"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/taibuivan/zled/internal/player"
)

// pointsPerInch converts a pixels-per-point scale into the DPI MuPDF expects.
const pointsPerInch = 72.0

// ErrDecoderClosed is returned by Decode after Close.
var ErrDecoderClosed = errors.New("fitz: decoder closed")

// Decoder opens PDF documents with MuPDF.
//
// MuPDF contexts are heavy; slots caps how many documents decode or render
// at the same time across all sessions.
type Decoder struct {
	slots chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewDecoder returns a decoder allowing parallelism concurrent MuPDF calls.
func NewDecoder(parallelism int) *Decoder {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Decoder{slots: make(chan struct{}, parallelism)}
}

// Decode implements [player.Decoder].
func (decoder *Decoder) Decode(raw []byte) (player.Document, error) {
	if decoder.isClosed() {
		return nil, ErrDecoderClosed
	}
	if len(raw) == 0 {
		return nil, errors.New("fitz: empty document")
	}

	decoder.acquire()
	defer decoder.release()

	native, err := gofitz.NewFromMemory(raw)
	if err != nil {
		return nil, fmt.Errorf("fitz: open: %w", err)
	}

	return &document{decoder: decoder, native: native, pages: native.NumPage()}, nil
}

// Close rejects further decodes. Open documents stay usable until closed.
func (decoder *Decoder) Close() error {
	decoder.mu.Lock()
	defer decoder.mu.Unlock()
	decoder.closed = true
	return nil
}

func (decoder *Decoder) isClosed() bool {
	decoder.mu.Lock()
	defer decoder.mu.Unlock()
	return decoder.closed
}

func (decoder *Decoder) acquire() { decoder.slots <- struct{}{} }
func (decoder *Decoder) release() { <-decoder.slots }

// document adapts a go-fitz document to 1-based page numbers.
type document struct {
	decoder *Decoder
	pages   int

	mu     sync.Mutex
	native *gofitz.Document
}

func (d *document) PageCount() int { return d.pages }

// PageSize reports the page box in whole points. go-fitz truncates MuPDF's
// float bound at 72 DPI, so A4 (595.28 x 841.89) reads as 595 x 841. The
// error stays under one point per side, under 0.2% of the fit scale for
// common paper sizes; rotation and the crop box are already applied.
func (d *document) PageSize(pageNumber int) (player.Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check(pageNumber); err != nil {
		return player.Size{}, err
	}

	bounds, err := d.native.Bound(pageNumber - 1)
	if err != nil {
		return player.Size{}, fmt.Errorf("fitz: bound page %d: %w", pageNumber, err)
	}
	return player.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}, nil
}

func (d *document) RenderPage(pageNumber int, scale float64) (image.Image, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("fitz: invalid scale %v", scale)
	}

	d.decoder.acquire()
	defer d.decoder.release()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check(pageNumber); err != nil {
		return nil, err
	}

	raster, err := d.native.ImageDPI(pageNumber-1, scale*pointsPerInch)
	if err != nil {
		return nil, fmt.Errorf("fitz: render page %d: %w", pageNumber, err)
	}
	return raster, nil
}

func (d *document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.native == nil {
		return nil
	}
	err := d.native.Close()
	d.native = nil
	return err
}

func (d *document) check(pageNumber int) error {
	if d.native == nil {
		return errors.New("fitz: document closed")
	}
	if pageNumber < 1 || pageNumber > d.pages {
		return fmt.Errorf("fitz: page %d out of range 1..%d", pageNumber, d.pages)
	}
	return nil
}
