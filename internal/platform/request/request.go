// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads route parameters, JSON bodies and the screen a
// request is scoped to.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/ctxutil"
	"github.com/taibuivan/zled/internal/platform/validate"
)

// maxJSONBody caps JSON payloads; uploads go through multipart instead.
const maxJSONBody = 1 << 20

// DecodeJSON decodes exactly one JSON value from the body into target.
// Any failure, including an oversized body, is [validate.ErrInvalidJSON].
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxJSONBody))

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param is the chi URL parameter name, or "".
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredUserID is the account id of an authenticated caller.
func RequiredUserID(request *http.Request) (string, error) {
	claims := ctxutil.Claims(request.Context())
	if claims == nil || claims.UserID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}

// ScopeFunc picks the screen a request acts on. Admin routes take it from
// the path (/screens/{screenID}/...); a screen's own routes (/me/...) use
// the caller.
type ScopeFunc func(request *http.Request) (string, error)

// ParamScope reads the screen id from the URL parameter name.
func ParamScope(name string) ScopeFunc {
	return func(request *http.Request) (string, error) {
		if id := chi.URLParam(request, name); id != "" {
			return id, nil
		}
		return "", apperr.NotFound("Screen")
	}
}

// SelfScope scopes the request to the authenticated screen account.
func SelfScope() ScopeFunc {
	return RequiredUserID
}
