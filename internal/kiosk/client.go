// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kiosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/samber/lo"

	"github.com/taibuivan/zled/internal/player"
)

// Retry policy for API calls.
const (
	clientAttempts = 4
	clientDelay    = 500 * time.Millisecond
	clientTimeout  = 2 * time.Minute

	// maxResponseBytes caps one downloaded document.
	maxResponseBytes = 256 << 20
)

// Client talks to the public player endpoints of the API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	delay   time.Duration
}

// NewClient returns a client for the API at baseURL. A nil httpClient gets
// a default with a timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, http: httpClient, logger: logger, delay: clientDelay}
}

// WithRetryDelay sets the base backoff between attempts.
func (client *Client) WithRetryDelay(delay time.Duration) *Client {
	client.delay = delay
	return client
}

type playlistDocument struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	ContentURL string `json:"content_url"`
}

type playlistResponse struct {
	Data struct {
		Screen struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"screen"`
		Settings struct {
			PageDuration int `json:"page_duration"`
		} `json:"settings"`
		Documents []playlistDocument `json:"documents"`
	} `json:"data"`
}

// GetPlaylist implements [player.PlaylistProvider]. Documents are sourced
// from the API's content proxy.
func (client *Client) GetPlaylist(context context.Context, screenID string) (*player.Playlist, error) {
	raw, err := client.get(context, client.baseURL+"/api/v1/player/"+url.PathEscape(screenID))
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("%w: %s", player.ErrScreenNotFound, screenID)
	}
	if err != nil {
		return nil, err
	}

	var response playlistResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("kiosk: decode playlist: %w", err)
	}

	data := response.Data
	return &player.Playlist{
		ScreenID:            data.Screen.ID,
		ScreenName:          data.Screen.Name,
		PageDurationSeconds: data.Settings.PageDuration,
		Entries: lo.Map(data.Documents, func(document playlistDocument, _ int) player.PlaylistEntry {
			return player.PlaylistEntry{
				DocumentID:     document.ID,
				DisplayName:    document.Filename,
				SourceLocation: document.ContentURL,
			}
		}),
	}, nil
}

// Fetch implements [player.Fetcher].
func (client *Client) Fetch(context context.Context, sourceLocation string) ([]byte, error) {
	return client.get(context, sourceLocation)
}

var errNotFound = errors.New("kiosk: not found")

// statusError is a non-success API answer.
type statusError struct {
	statusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("kiosk: server responded %d", e.statusCode)
}

// get downloads target, retrying network failures and 5xx answers.
func (client *Client) get(context context.Context, target string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			request, err := http.NewRequestWithContext(context, http.MethodGet, target, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			response, err := client.http.Do(request)
			if err != nil {
				return err
			}
			defer response.Body.Close()

			switch {
			case response.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(errNotFound)
			case response.StatusCode >= 500 || response.StatusCode == http.StatusTooManyRequests:
				return &statusError{statusCode: response.StatusCode}
			case response.StatusCode != http.StatusOK:
				return retry.Unrecoverable(&statusError{statusCode: response.StatusCode})
			}

			raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes+1))
			if err != nil {
				return err
			}
			if len(raw) > maxResponseBytes {
				return retry.Unrecoverable(fmt.Errorf("kiosk: %s exceeds %d bytes", target, maxResponseBytes))
			}
			body = raw
			return nil
		},
		retry.Context(context),
		retry.Attempts(clientAttempts),
		retry.Delay(client.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			client.logger.Warn("api_retry", slog.String("url", target), slog.Uint64("attempt", uint64(attempt+1)), slog.Any("error", err))
		}),
	)
	if errors.Is(err, errNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kiosk: GET %s: %w", target, err)
	}
	return body, nil
}
