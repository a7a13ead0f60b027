// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field errors from a fluent chain and returns them
as a single VALIDATION_ERROR.

	err := new(validate.Validator).
		Required("email", input.Email).
		Email("email", input.Email).
		Range("page_duration", seconds, 1, constants.MaxPageDuration).
		Err()

Services validate; handlers only decode.
*/
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/pkg/uuid"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

const messageRequired = "This field is required"

// Validator accumulates failures. Use one per operation.
type Validator struct {
	failures []apperr.FieldError
}

// Required fails on an empty or blank value.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", messageRequired)
}

// MaxLen counts characters, not bytes.
func (v *Validator) MaxLen(field, value string, limit int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > limit, fmt.Sprintf("Maximum %d characters", limit))
}

// MinLen counts characters, not bytes.
func (v *Validator) MinLen(field, value string, limit int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) < limit, fmt.Sprintf("Minimum %d characters", limit))
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, low, high int) *Validator {
	return v.Custom(field, value < low || value > high, fmt.Sprintf("Must be between %d and %d", low, high))
}

// Email accepts a bare RFC 5322 address; display names are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.Custom(field, err != nil || address.Address != value, "Must be a valid email address")
}

// UUIDs fails on an empty list, an invalid id or a repeated id.
// Only the first problem is reported.
func (v *Validator) UUIDs(field string, values []string) *Validator {
	if len(values) == 0 {
		return v.Custom(field, true, messageRequired)
	}

	if invalid, found := lo.Find(values, func(value string) bool { return !uuid.Valid(value) }); found {
		return v.Custom(field, true, fmt.Sprintf("Invalid UUID: %q", invalid))
	}

	lowered := lo.Map(values, func(value string, _ int) string { return strings.ToLower(value) })
	if duplicates := lo.FindDuplicates(lowered); len(duplicates) > 0 {
		return v.Custom(field, true, fmt.Sprintf("Duplicate id: %s", duplicates[0]))
	}
	return v
}

// OneOf fails unless value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.Custom(field, !lo.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Err ends the chain: nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}

// RequiredError is a one-field validation error, e.g. for a missing JSON key.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
