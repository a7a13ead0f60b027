// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/blob"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/validate"
	"github.com/taibuivan/zled/pkg/filename"
	"github.com/taibuivan/zled/pkg/uuid"
)

type Service struct {
	repo      Repository
	store     blob.Store
	inspector Inspector
	cache     PlaylistInvalidator
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, store blob.Store, inspector Inspector, cache PlaylistInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		inspector: inspector,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// ListDocuments returns the screen's documents in playback order.
func (service *Service) ListDocuments(context context.Context, screenID string) ([]*Document, error) {
	if err := service.requireScreen(context, screenID); err != nil {
		return nil, err
	}
	return service.repo.ListByScreen(context, screenID)
}

/*
Upload stores every valid PDF and appends it to the screen's playlist.

Description: Files that are not PDFs, fail inspection or cannot be stored
are skipped and reported. Stored files are named
"<unixMillis>-<sanitised name>" under "<screenID>/".

Returns:
  - *UploadResult: Stored documents (in upload order) and rejections
  - error: 400 without files, 404 for an unknown screen, 422 when nothing was stored
*/
func (service *Service) Upload(context context.Context, screenID string, files []UploadFile) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, validate.RequiredError(FieldFiles, "No files provided")
	}
	if err := service.requireScreen(context, screenID); err != nil {
		return nil, err
	}

	sortOrder, err := service.repo.NextSortOrder(context, screenID)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{Documents: []*Document{}, Rejected: []Rejection{}}
	for _, file := range files {
		document, reason, err := service.storeOne(context, screenID, file, sortOrder)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			result.Rejected = append(result.Rejected, Rejection{Filename: file.Filename, Reason: reason})
			continue
		}

		result.Documents = append(result.Documents, document)
		sortOrder++
	}

	if len(result.Documents) == 0 {
		return nil, apperr.Unprocessable("No valid PDF files were uploaded")
	}

	service.invalidate(context, screenID)
	return result, nil
}

// storeOne returns a rejection reason for skipped files and an error only
// for failures that abort the whole upload.
func (service *Service) storeOne(context context.Context, screenID string, file UploadFile, sortOrder int) (*Document, string, error) {
	logger := service.logger.With(slog.String("screen_id", screenID), slog.String("filename", file.Filename))

	if file.ContentType != constants.ContentTypePDF {
		logger.Info("document_rejected", slog.String("reason", ReasonNotPDF), slog.String("content_type", file.ContentType))
		return nil, ReasonNotPDF, nil
	}

	body, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer body.Close()

	pages, err := service.inspector.PageCount(body)
	if err != nil {
		logger.Info("document_rejected", slog.String("reason", ReasonInvalidPDF), slog.Any("error", err))
		return nil, ReasonInvalidPDF, nil
	}

	unique := filename.Unique(filename.Sanitize(file.Filename), service.now())
	remote := screenID + "/" + unique

	location, err := service.store.Put(context, remote, body, constants.ContentTypePDF)
	if err != nil {
		logger.Error("document_store_failed", slog.String("remote_path", remote), slog.Any("error", err))
		return nil, ReasonStorage, nil
	}

	document := &Document{
		ID:        uuid.New(),
		ScreenID:  screenID,
		Filename:  file.Filename,
		FilePath:  location,
		SortOrder: sortOrder,
		PageCount: pages,
		SizeBytes: file.Size,
	}
	if err := service.repo.Create(context, document); err != nil {
		if cleanupErr := service.store.Delete(context, remote); cleanupErr != nil {
			logger.Warn("blob_delete_failed", slog.String("remote_path", remote), slog.Any("error", cleanupErr))
		}
		return nil, "", err
	}

	logger.Info("document_uploaded",
		slog.String("document_id", document.ID),
		slog.Int("page_count", pages),
		slog.Int("sort_order", sortOrder),
	)
	return document, "", nil
}

/*
DeleteDocument removes a document of the screen and its stored PDF.

Description: A failed blob deletion is logged; the row is removed anyway.
*/
func (service *Service) DeleteDocument(context context.Context, screenID, documentID string) error {
	if !uuid.Valid(screenID) || !uuid.Valid(documentID) {
		return apperr.NotFound("Document")
	}

	document, err := service.repo.FindByID(context, documentID)
	if err != nil {
		return err
	}
	if document.ScreenID != screenID {
		return apperr.NotFound("Document")
	}

	if remote, ok := service.store.RemotePath(document.FilePath); ok {
		if err := service.store.Delete(context, remote); err != nil {
			service.logger.Warn("blob_delete_failed",
				slog.String("document_id", documentID),
				slog.String("remote_path", remote),
				slog.Any("error", err),
			)
		}
	}

	if err := service.repo.Delete(context, screenID, documentID); err != nil {
		return err
	}

	service.invalidate(context, screenID)
	service.logger.Info("document_deleted", slog.String("screen_id", screenID), slog.String("document_id", documentID))
	return nil
}

/*
Reorder makes orderedIDs the screen's playback order.
*/
func (service *Service) Reorder(context context.Context, screenID string, orderedIDs []string) error {
	validator := &validate.Validator{}
	validator.UUIDs(FieldOrderedIDs, orderedIDs)
	if err := validator.Err(); err != nil {
		return err
	}
	if err := service.requireScreen(context, screenID); err != nil {
		return err
	}

	if err := service.repo.Reorder(context, screenID, orderedIDs); err != nil {
		return err
	}

	service.invalidate(context, screenID)
	service.logger.Info("documents_reordered", slog.String("screen_id", screenID), slog.Int("count", len(orderedIDs)))
	return nil
}

/*
OpenContent opens the stored PDF of a document for proxying.

Returns:
  - *Content: Original filename and body; the caller closes Body
  - error: 404 for unknown documents, 502 when storage cannot serve it
*/
func (service *Service) OpenContent(context context.Context, documentID string) (*Content, error) {
	if !uuid.Valid(documentID) {
		return nil, apperr.NotFound("Document")
	}

	document, err := service.repo.FindByID(context, documentID)
	if err != nil {
		return nil, err
	}

	remote, ok := service.store.RemotePath(document.FilePath)
	if !ok {
		return nil, apperr.BadGateway("Failed to fetch PDF", errors.New("unrecognised storage location"))
	}

	body, err := service.store.Get(context, remote)
	if err != nil {
		return nil, apperr.BadGateway("Failed to fetch PDF", err)
	}

	return &Content{Filename: document.Filename, Body: body}, nil
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

func (service *Service) invalidate(context context.Context, screenID string) {
	if err := service.cache.Invalidate(context, screenID); err != nil {
		service.logger.Warn("playlist_invalidate_failed", slog.String("screen_id", screenID), slog.Any("error", err))
	}
}
