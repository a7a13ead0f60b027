// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Loader defaults.
const (
	DefaultLoadTimeout     = 30 * time.Second
	DefaultLoadConcurrency = 4
)

// LoaderOptions tunes a [Loader].
type LoaderOptions struct {
	// Timeout bounds fetch plus decode of one document.
	Timeout time.Duration

	// Concurrency caps the number of documents in flight.
	Concurrency int
}

// Loader resolves playlist entries to decoded documents.
type Loader struct {
	fetcher Fetcher
	decoder Decoder
	options LoaderOptions
	logger  *slog.Logger
}

// NewLoader wires a loader with its fetch and decode capabilities.
func NewLoader(fetcher Fetcher, decoder Decoder, options LoaderOptions, logger *slog.Logger) *Loader {
	if options.Timeout <= 0 {
		options.Timeout = DefaultLoadTimeout
	}
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultLoadConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{fetcher: fetcher, decoder: decoder, options: options, logger: logger}
}

// LoadResult is the settled outcome of a [Loader.Load] call.
type LoadResult struct {
	// Documents keeps playlist order; failed entries are absent.
	Documents []DocumentHandle

	// Failures lists the dropped entries, in playlist order.
	Failures []*DocumentLoadError
}

// Release closes every loaded document and returns the joined close errors.
func (result LoadResult) Release() error {
	return releaseDocuments(result.Documents)
}

// Load fetches and decodes every entry concurrently and returns once all of
// them have settled. A failing entry never aborts the others.
func (loader *Loader) Load(context context.Context, entries []PlaylistEntry) LoadResult {
	type slot struct {
		handle  *DocumentHandle
		failure *DocumentLoadError
	}
	slots := make([]slot, len(entries))

	group := errgroup.Group{}
	group.SetLimit(loader.options.Concurrency)

	for index, entry := range entries {
		group.Go(func() error {
			startedAt := time.Now()
			document, err := loader.loadOne(context, entry)
			if err != nil {
				failure := &DocumentLoadError{Entry: entry, Err: err}
				slots[index].failure = failure
				loader.logger.Warn("document_load_failed",
					slog.String("document_id", entry.DocumentID),
					slog.String("name", entry.DisplayName),
					slog.Any("error", err),
				)
				return nil
			}

			slots[index].handle = &DocumentHandle{Entry: entry, Document: document}
			loader.logger.Debug("document_loaded",
				slog.String("document_id", entry.DocumentID),
				slog.Int("pages", document.PageCount()),
				slog.Duration("took", time.Since(startedAt)),
			)
			return nil
		})
	}

	// Every task returns nil; Wait is the barrier.
	_ = group.Wait()

	return LoadResult{
		Documents: lo.FilterMap(slots, func(item slot, _ int) (DocumentHandle, bool) {
			if item.handle == nil {
				return DocumentHandle{}, false
			}
			return *item.handle, true
		}),
		Failures: lo.FilterMap(slots, func(item slot, _ int) (*DocumentLoadError, bool) {
			return item.failure, item.failure != nil
		}),
	}
}

func (loader *Loader) loadOne(parent context.Context, entry PlaylistEntry) (Document, error) {
	context, cancel := context.WithTimeout(parent, loader.options.Timeout)
	defer cancel()

	raw, err := loader.fetcher.Fetch(context, entry.SourceLocation)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	document, err := loader.decode(context, raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return document, nil
}

// decode runs the backend decoder under the entry deadline. The backend
// cannot be interrupted, so a document that arrives late is closed.
func (loader *Loader) decode(context context.Context, raw []byte) (Document, error) {
	type decoded struct {
		document Document
		err      error
	}

	results := make(chan decoded, 1)
	go func() {
		document, err := loader.decoder.Decode(raw)
		results <- decoded{document: document, err: err}
	}()

	select {
	case result := <-results:
		return result.document, result.err
	case <-context.Done():
		go func() {
			if late := <-results; late.document != nil {
				_ = late.document.Close()
			}
		}()
		return nil, context.Err()
	}
}

func releaseDocuments(documents []DocumentHandle) error {
	var errs []error
	for _, handle := range documents {
		if handle.Document == nil {
			continue
		}
		if err := handle.Document.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", handle.Entry.DocumentID, err))
		}
	}
	return errors.Join(errs...)
}
