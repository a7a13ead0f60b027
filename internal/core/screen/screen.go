// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package screen manages screen accounts on behalf of administrators.

A screen is an account with role "screen". It owns documents and one
settings row; deleting the screen removes both and the stored PDFs.
*/
package screen

import (
	"context"
	"time"
)

// Screen is a screen account as listed to administrators.
type Screen struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateInput carries the fields of a new screen.
type CreateInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// PlaylistInvalidator drops cached playlists after a screen changes.
type PlaylistInvalidator interface {
	Invalidate(context context.Context, screenID string) error
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldName     = "name"
	FieldPassword = "password"
)

// Limits on screen fields.
const (
	maxNameLength     = 200
	minPasswordLength = 6
)
