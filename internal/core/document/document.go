// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package document manages the PDF decks of a screen.

Documents are ordered per screen by sort order; that order is the order in
which the player shows them. Handlers are scope-agnostic: the same routes
serve administrators (/screens/{screenID}/documents) and screens managing
their own playlist (/me/documents).
*/
package document

import (
	"context"
	"io"
	"time"
)

// Document is one uploaded PDF.
type Document struct {
	ID        string    `json:"id"`
	ScreenID  string    `json:"screen_id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"file_path"`
	SortOrder int       `json:"sort_order"`
	PageCount int       `json:"page_count"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadFile is one file part of an upload request.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadSeekCloser, error)
}

// Rejection explains why an uploaded file was not stored.
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// UploadResult lists stored documents and skipped files.
type UploadResult struct {
	Documents []*Document `json:"documents"`
	Rejected  []Rejection `json:"rejected"`
}

// Content is an opened document body for the content proxy.
type Content struct {
	Filename string
	Body     io.ReadCloser
}

// PlaylistInvalidator drops cached playlists after documents change.
type PlaylistInvalidator interface {
	Invalidate(context context.Context, screenID string) error
}

// # Field Identifiers

const (
	FieldFiles      = "files"
	FieldOrderedIDs = "ordered_ids"
)

// Rejection reasons.
const (
	ReasonNotPDF     = "not a PDF"
	ReasonInvalidPDF = "invalid PDF"
	ReasonStorage    = "storage failed"
)
