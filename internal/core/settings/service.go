// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"log/slog"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/validate"
	"github.com/taibuivan/zled/pkg/uuid"
)

type Service struct {
	repo   Repository
	cache  PlaylistInvalidator
	logger *slog.Logger
}

func NewService(repo Repository, cache PlaylistInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// GetSettings returns the screen's settings, defaulting the page duration to 60 seconds.
func (service *Service) GetSettings(context context.Context, screenID string) (*Settings, error) {
	if err := service.requireScreen(context, screenID); err != nil {
		return nil, err
	}

	settings, err := service.repo.Find(context, screenID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &Settings{ScreenID: screenID, PageDuration: constants.DefaultPageDuration}, nil
	}
	return settings, nil
}

/*
UpdateSettings sets the page duration of a screen.

Returns:
  - *Settings: The stored settings
  - error: 400 outside 1..86400 seconds, 404 for an unknown screen
*/
func (service *Service) UpdateSettings(context context.Context, screenID string, pageDuration int) (*Settings, error) {
	validator := &validate.Validator{}
	validator.Range(FieldPageDuration, pageDuration, 1, constants.MaxPageDuration)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := service.requireScreen(context, screenID); err != nil {
		return nil, err
	}

	settings := &Settings{ScreenID: screenID, PageDuration: pageDuration}
	if err := service.repo.Upsert(context, settings); err != nil {
		return nil, err
	}

	if err := service.cache.Invalidate(context, screenID); err != nil {
		service.logger.Warn("playlist_invalidate_failed", slog.String("screen_id", screenID), slog.Any("error", err))
	}

	service.logger.Info("settings_updated", slog.String("screen_id", screenID), slog.Int("page_duration", pageDuration))
	return settings, nil
}

func (service *Service) requireScreen(context context.Context, screenID string) error {
	if !uuid.Valid(screenID) {
		return apperr.NotFound("Screen")
	}
	exists, err := service.repo.ScreenExists(context, screenID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Screen")
	}
	return nil
}
