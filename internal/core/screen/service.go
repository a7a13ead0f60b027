// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/blob"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/sec"
	"github.com/taibuivan/zled/internal/platform/validate"
	"github.com/taibuivan/zled/internal/users/auth"
	"github.com/taibuivan/zled/pkg/uuid"
)

// Service implements screen administration.
type Service struct {
	repo     Repository
	accounts AccountCreator
	store    blob.Store
	cache    PlaylistInvalidator
	logger   *slog.Logger
}

func NewService(repo Repository, accounts AccountCreator, store blob.Store, cache PlaylistInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		store:    store,
		cache:    cache,
		logger:   logger,
	}
}

func (service *Service) ListScreens(context context.Context, limit, offset int) ([]*Screen, int, error) {
	return service.repo.List(context, limit, offset)
}

func (service *Service) GetScreen(context context.Context, id string) (*Screen, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Screen")
	}
	return service.repo.FindByID(context, id)
}

/*
CreateScreen registers a new screen account with default settings.

Returns:
  - *Screen: The created screen, with no documents
  - error: Validation errors, apperr.Conflict for a taken email
*/
func (service *Service) CreateScreen(context context.Context, input CreateInput) (*Screen, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, maxNameLength)
	validator.Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, minPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &auth.Account{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         sec.RoleScreen,
	}
	if err := service.accounts.Create(context, account, constants.DefaultPageDuration); err != nil {
		return nil, err
	}

	service.logger.Info("screen_created", slog.String("screen_id", account.ID), slog.String("email", account.Email))

	return &Screen{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}, nil
}

/*
DeleteScreen removes a screen, its documents and their stored PDFs.

Description: Blob deletions are best effort; a failure is logged and the
screen is deleted anyway.
*/
func (service *Service) DeleteScreen(context context.Context, id string) error {
	if _, err := service.GetScreen(context, id); err != nil {
		return err
	}

	locations, err := service.repo.DocumentLocations(context, id)
	if err != nil {
		return err
	}

	for _, location := range locations {
		remote, ok := service.store.RemotePath(location)
		if !ok {
			service.logger.Warn("blob_path_unresolved", slog.String("screen_id", id), slog.String("location", location))
			continue
		}
		if err := service.store.Delete(context, remote); err != nil {
			service.logger.Warn("blob_delete_failed",
				slog.String("screen_id", id),
				slog.String("remote_path", remote),
				slog.Any("error", err),
			)
		}
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	if err := service.cache.Invalidate(context, id); err != nil {
		service.logger.Warn("playlist_invalidate_failed", slog.String("screen_id", id), slog.Any("error", err))
	}

	service.logger.Warn("screen_deleted", slog.String("screen_id", id), slog.Int("documents", len(locations)))
	return nil
}
