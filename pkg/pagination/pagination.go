// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page/limit query parameters and builds the
// "meta" block of list responses.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/lo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip.
func (params Params) Offset() int {
	return (max(params.Page, 1) - 1) * params.Limit
}

// Meta describes the page that was returned.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// NewMeta computes the page count for total rows.
func NewMeta(params Params, total int) Meta {
	pages := 0
	if params.Limit > 0 {
		pages = (total + params.Limit - 1) / params.Limit
	}
	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: pages,
		HasMore:    params.Page < pages,
	}
}

// FromRequest reads "page" and "limit" from the query string.
func FromRequest(request *http.Request) Params {
	return Parse(request.URL.Query())
}

// Parse reads "page" and "limit". A missing or unparsable value takes its
// default; a limit above [MaxLimit] is capped rather than rejected.
func Parse(query url.Values) Params {
	page := intOr(query.Get("page"), 1)
	limit := intOr(query.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}

	return Params{
		Page:  max(page, 1),
		Limit: lo.Clamp(limit, 1, MaxLimit),
	}
}

func intOr(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
