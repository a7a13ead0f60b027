// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Retry policy for storage API calls.
const (
	bunnyAttempts      = 3
	bunnyRetryDelay    = 300 * time.Millisecond
	bunnyClientTimeout = 2 * time.Minute

	// legacyUploadsMarker prefixes paths written by the first version of the dashboard.
	legacyUploadsMarker = "/uploads/"
)

// BunnyConfig locates a storage zone and its public pull zone.
type BunnyConfig struct {
	// StorageHost is the regional storage endpoint, e.g. "sg.storage.bunnycdn.com".
	// A value with a scheme ("http://127.0.0.1:1234") is used as the base URL as is.
	StorageHost string
	StorageZone string
	AccessKey   string

	// Path is the folder inside the zone, e.g. "/LED".
	Path string

	// CDNURL is the public pull zone, e.g. "https://mco-cdn.b-cdn.net".
	CDNURL string
}

// BunnyStore is a [Store] on the BunnyCDN storage API.
type BunnyStore struct {
	config BunnyConfig
	client *http.Client
	logger *slog.Logger
}

// NewBunnyStore returns a store for config. A nil client gets a default with a timeout.
func NewBunnyStore(config BunnyConfig, client *http.Client, logger *slog.Logger) *BunnyStore {
	if client == nil {
		client = &http.Client{Timeout: bunnyClientTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	config.Path = "/" + strings.Trim(config.Path, "/")
	if config.Path == "/" {
		config.Path = ""
	}
	config.CDNURL = strings.TrimRight(config.CDNURL, "/")

	return &BunnyStore{config: config, client: client, logger: logger}
}

// # Store

// Put implements [Store].
func (store *BunnyStore) Put(context context.Context, remotePath string, body io.ReadSeeker, contentType string) (string, error) {
	err := store.do(context, "put", remotePath, func() (*http.Request, error) {
		size, err := body.Seek(0, io.SeekEnd)
		if err == nil {
			_, err = body.Seek(0, io.SeekStart)
		}
		if err != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("rewind body: %w", err))
		}

		request, err := http.NewRequestWithContext(context, http.MethodPut, store.endpoint(remotePath), io.NopCloser(body))
		if err != nil {
			return nil, err
		}
		request.ContentLength = size
		request.Header.Set("Content-Type", "application/octet-stream")
		return request, nil
	}, func(response *http.Response) error {
		if response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusOK {
			return statusError(response)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	store.logger.Debug("blob_uploaded", slog.String("remote_path", remotePath), slog.String("content_type", contentType))
	return store.URL(remotePath), nil
}

// Get implements [Store].
func (store *BunnyStore) Get(context context.Context, remotePath string) (io.ReadCloser, error) {
	var body io.ReadCloser

	err := store.do(context, "get", remotePath, func() (*http.Request, error) {
		return http.NewRequestWithContext(context, http.MethodGet, store.endpoint(remotePath), nil)
	}, func(response *http.Response) error {
		switch {
		case response.StatusCode == http.StatusNotFound:
			return retry.Unrecoverable(ErrNotFound)
		case response.StatusCode != http.StatusOK:
			return statusError(response)
		}

		// Hand the body over instead of draining it.
		body = response.Body
		response.Body = http.NoBody
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// Delete implements [Store].
func (store *BunnyStore) Delete(context context.Context, remotePath string) error {
	return store.do(context, "delete", remotePath, func() (*http.Request, error) {
		return http.NewRequestWithContext(context, http.MethodDelete, store.endpoint(remotePath), nil)
	}, func(response *http.Response) error {
		if response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusOK {
			return nil
		}
		return statusError(response)
	})
}

// URL implements [Store].
func (store *BunnyStore) URL(remotePath string) string {
	return store.config.CDNURL + store.config.Path + "/" + strings.TrimLeft(remotePath, "/")
}

// RemotePath implements [Store]. It also understands legacy "/uploads/" URLs.
func (store *BunnyStore) RemotePath(url string) (string, bool) {
	if rest, ok := strings.CutPrefix(url, store.config.CDNURL+store.config.Path+"/"); ok && rest != "" {
		return rest, true
	}
	if _, rest, ok := strings.Cut(url, legacyUploadsMarker); ok && rest != "" {
		return rest, true
	}
	return "", false
}

// # Transport

func (store *BunnyStore) endpoint(remotePath string) string {
	base := store.config.StorageHost
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/") + "/" + store.config.StorageZone + store.config.Path + "/" + strings.TrimLeft(remotePath, "/")
}

// do sends one storage API call with retries. 5xx and network failures are
// retried; check decides what a response means.
func (store *BunnyStore) do(context context.Context, operation, remotePath string, build func() (*http.Request, error), check func(*http.Response) error) error {
	err := retry.Do(
		func() error {
			request, err := build()
			if err != nil {
				return err
			}
			request.Header.Set("AccessKey", store.config.AccessKey)

			response, err := store.client.Do(request)
			if err != nil {
				return err
			}
			defer func() {
				_, _ = io.Copy(io.Discard, response.Body)
				_ = response.Body.Close()
			}()

			return check(response)
		},
		retry.Context(context),
		retry.Attempts(bunnyAttempts),
		retry.Delay(bunnyRetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(attempt uint, err error) {
			store.logger.Warn("blob_retry",
				slog.String("operation", operation),
				slog.String("remote_path", remotePath),
				slog.Uint64("attempt", uint64(attempt+1)),
				slog.Any("error", err),
			)
		}),
	)

	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("blob: %s %s: %w", operation, remotePath, err)
	}
	return nil
}

// StatusError is a non-success answer of the storage API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage responded %d: %s", e.StatusCode, e.Body)
}

func statusError(response *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(response.Body, 512))
	return &StatusError{StatusCode: response.StatusCode, Body: strings.TrimSpace(string(snippet))}
}

func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
