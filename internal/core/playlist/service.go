// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/player"
	"github.com/taibuivan/zled/pkg/uuid"
)

// Service reads playlists through the cache. It is also the engine's
// [player.PlaylistProvider].
type Service struct {
	repo      Repository
	cache     Cache
	publicURL string
	logger    *slog.Logger
}

var _ player.PlaylistProvider = (*Service)(nil)

// NewService builds content URLs below publicURL, e.g. "https://signage.example.com".
func NewService(repo Repository, cache Cache, publicURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

/*
Find returns the playlist of a screen.

Cache failures are logged and fall through to the database.

Returns:
  - error: apperr.NotFound for unknown or malformed screen ids
*/
func (service *Service) Find(context context.Context, screenID string) (*Playlist, error) {
	if !uuid.Valid(screenID) {
		return nil, apperr.NotFound("Screen")
	}

	var cached Playlist
	hit, err := service.cache.Get(context, screenID, &cached)
	if err != nil {
		service.logger.Warn("playlist_cache_read_failed", slog.String("screen_id", screenID), slog.Any("error", err))
	}
	if hit {
		return service.withContentURLs(&cached), nil
	}

	playlist, err := service.repo.Load(context, screenID)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, screenID, playlist); err != nil {
		service.logger.Warn("playlist_cache_write_failed", slog.String("screen_id", screenID), slog.Any("error", err))
	}
	return service.withContentURLs(playlist), nil
}

// Invalidate drops the cached playlist of a screen.
func (service *Service) Invalidate(context context.Context, screenID string) error {
	return service.cache.Delete(context, screenID)
}

// GetPlaylist implements [player.PlaylistProvider]. Documents are sourced from
// their stored blob URLs.
func (service *Service) GetPlaylist(context context.Context, screenID string) (*player.Playlist, error) {
	playlist, err := service.Find(context, screenID)
	if apperr.IsNotFound(err) {
		return nil, errors.Join(player.ErrScreenNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	return &player.Playlist{
		ScreenID:            playlist.Screen.ID,
		ScreenName:          playlist.Screen.Name,
		PageDurationSeconds: playlist.Settings.PageDuration,
		Entries: lo.Map(playlist.Documents, func(document Document, _ int) player.PlaylistEntry {
			return player.PlaylistEntry{
				DocumentID:     document.ID,
				DisplayName:    document.Filename,
				SourceLocation: document.FilePath,
			}
		}),
	}, nil
}

func (service *Service) withContentURLs(playlist *Playlist) *Playlist {
	if playlist.Documents == nil {
		playlist.Documents = []Document{}
	}
	for index := range playlist.Documents {
		playlist.Documents[index].ContentURL = service.publicURL + "/api/v1/documents/" + playlist.Documents[index].ID + "/content"
	}
	return playlist
}
