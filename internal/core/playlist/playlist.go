// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playlist assembles what a screen plays: its name, its page duration
and its documents in sort order.

The assembled playlist is read far more often than it changes, so it is
cached in Redis and dropped by every mutation of documents, settings or the
screen itself (see [Service.Invalidate]).
*/
package playlist

import "context"

// Playlist is the public player payload of a screen.
type Playlist struct {
	Screen    Screen     `json:"screen"`
	Settings  Settings   `json:"settings"`
	Documents []Document `json:"documents"`
}

type Screen struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Settings struct {
	PageDuration int `json:"page_duration"`
}

// Document is one playlist entry. ContentURL points at the API's content proxy.
type Document struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	FilePath   string `json:"file_path"`
	SortOrder  int    `json:"sort_order"`
	PageCount  int    `json:"page_count"`
	ContentURL string `json:"content_url"`
}

// Cache is the JSON cache the service reads through.
type Cache interface {
	Get(context context.Context, key string, target any) (bool, error)
	Set(context context.Context, key string, value any) error
	Delete(context context.Context, keys ...string) error
}

const ParamScreenID = "screenID"
