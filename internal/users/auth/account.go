// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account identity for Zled.

Two kinds of account exist: administrators, who manage screens, and screens,
the display devices themselves. Both sign in with email and password and
receive an RS256 access token; the role inside the token decides which
routes they reach.

# Architecture

  - Service: Login, profile lookup and the startup admin seed.
  - Repository: Accounts in PostgreSQL (signage.account).
  - Security: bcrypt hashes and JWTs from [sec].
*/
package auth

import (
	"time"

	"github.com/taibuivan/zled/internal/platform/sec"
)

// # Domain Entities

// Account is an administrator or a screen.
type Account struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)
