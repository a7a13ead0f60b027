// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error type returned across the HTTP edge.

Services return an [*AppError] for anything the caller can act on (missing
screen, bad page duration, full session table). Everything else is a plain
error and becomes a 500 in respond.Error. Player engine errors
(player.ErrScreenNotFound, player.ErrSessionEnded) are plain sentinels that
the playback and playlist packages translate here.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes are stable; the dashboard and the kiosk branch on them.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnprocessable = "UNPROCESSABLE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL_ERROR"
	CodeBadGateway    = "BAD_GATEWAY"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
)

// AppError carries a status, a stable code and a message safe for clients.
// Cause is logged and never serialised.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed field of a VALIDATION_ERROR.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NotFound reads "<resource> not found", e.g. NotFound("Screen").
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// Conflict is a duplicate, usually a taken email.
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, CodeConflict, message)
}

// ValidationError is a 400 with one entry per failed field.
func ValidationError(message string, details ...FieldError) *AppError {
	appErr := newError(http.StatusBadRequest, CodeValidation, message)
	appErr.Details = details
	return appErr
}

func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Unprocessable rejects well-formed input that cannot be used, e.g. a file
// that is not a PDF.
func Unprocessable(message string) *AppError {
	return newError(http.StatusUnprocessableEntity, CodeUnprocessable, message)
}

func PayloadTooLarge(message string) *AppError {
	return newError(http.StatusRequestEntityTooLarge, CodeTooLarge, message)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred").WithCause(cause)
}

// BadGateway reports a failing upstream such as the storage zone.
func BadGateway(message string, cause error) *AppError {
	return newError(http.StatusBadGateway, CodeBadGateway, message).WithCause(cause)
}

// ServiceUnavailable is answered with a Retry-After header by respond.Error.
func ServiceUnavailable(message string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, message)
}

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether err's chain holds a 404 [*AppError].
func IsNotFound(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.HTTPStatus == http.StatusNotFound
}
