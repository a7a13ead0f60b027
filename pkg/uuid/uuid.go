// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the ids of accounts, screens, documents and player
// sessions. New ids are version 7, so they sort by creation time in the
// primary key indexes.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 in canonical form. It panics only when the
// system entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s is a UUID of any version. Path parameters are
// checked with it before they reach the database.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
