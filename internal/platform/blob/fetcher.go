// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxDocumentBytes caps a single fetched document.
const maxDocumentBytes = 256 << 20

// Fetcher reads playlist sources for the player loader.
//
// Sources the store recognises are read from the store; any other http(s)
// URL is downloaded directly.
type Fetcher struct {
	store  Store
	client *http.Client
}

// NewFetcher returns a fetcher over store. A nil client uses http.DefaultClient.
func NewFetcher(store Store, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{store: store, client: client}
}

// Fetch implements player.Fetcher.
func (fetcher *Fetcher) Fetch(context context.Context, sourceLocation string) ([]byte, error) {
	if remote, ok := fetcher.store.RemotePath(sourceLocation); ok {
		body, err := fetcher.store.Get(context, remote)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return readAll(body)
	}

	if !strings.HasPrefix(sourceLocation, "http://") && !strings.HasPrefix(sourceLocation, "https://") {
		return nil, fmt.Errorf("blob: unsupported source %q", sourceLocation)
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, sourceLocation, nil)
	if err != nil {
		return nil, err
	}
	response, err := fetcher.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("blob: fetch %s: %w", sourceLocation, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("blob: fetch %s: %w", sourceLocation, statusError(response))
	}
	return readAll(response.Body)
}

func readAll(reader io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(reader, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("blob: read: %w", err)
	}
	if len(raw) > maxDocumentBytes {
		return nil, fmt.Errorf("blob: document exceeds %d bytes", maxDocumentBytes)
	}
	return raw, nil
}
