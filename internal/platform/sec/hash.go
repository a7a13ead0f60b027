// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/zled/internal/platform/constants"
)

// ErrPasswordMismatch is returned by [ComparePassword] for a wrong password.
var ErrPasswordMismatch = errors.New("sec: password mismatch")

// HashPassword returns the bcrypt hash of password. Passwords longer than
// bcrypt's 72 byte input are rejected instead of silently truncated.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword checks password against hash. A wrong password yields
// [ErrPasswordMismatch]; any other error means the stored hash is unusable.
func ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("sec: compare password: %w", err)
	}
	return nil
}
