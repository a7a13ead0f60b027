// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/internal/platform/respond"
	"github.com/taibuivan/zled/internal/platform/validate"
)

// ParamDocumentID names the URL parameter carrying a document ID.
const ParamDocumentID = "documentID"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the document management routes for one scope.
//
// # Endpoints
//   - GET    /                : List in playback order
//   - POST   /                : Multipart upload (field "files")
//   - PUT    /order           : Reorder
//   - DELETE /{documentID}    : Delete
func (handler *Handler) Routes(scope requestutil.ScopeFunc) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list(scope))
	router.Post("/", handler.upload(scope))
	router.Put("/order", handler.reorder(scope))
	router.Delete("/{"+ParamDocumentID+"}", handler.remove(scope))

	return router
}

// RegisterContentRoutes mounts the public content proxy.
func (handler *Handler) RegisterContentRoutes(router chi.Router) {
	router.Get("/{"+ParamDocumentID+"}/content", handler.content)
}

type reorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

/*
GET /api/v1/screens/{screenID}/documents
GET /api/v1/me/documents
*/
func (handler *Handler) list(scope requestutil.ScopeFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		screenID, err := scope(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		documents, err := handler.service.ListDocuments(request.Context(), screenID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, documents)
	}
}

/*
POST /api/v1/screens/{screenID}/documents
POST /api/v1/me/documents

Request:
  - Body: multipart/form-data, one or more "files" parts

Response:
  - 201: UploadResult
  - 400: No files
  - 413: Request larger than the upload limit
  - 422: No valid PDF stored
*/
func (handler *Handler) upload(scope requestutil.ScopeFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		screenID, err := scope(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		// Large decks outlive the server-wide read timeout.
		_ = http.NewResponseController(writer).SetReadDeadline(time.Now().Add(constants.TransferTimeout))
		request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
		if err := request.ParseMultipartForm(constants.UploadMemoryBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(writer, request, apperr.PayloadTooLarge("Upload exceeds the size limit"))
				return
			}
			respond.Error(writer, request, validate.RequiredError(FieldFiles, "Expected a multipart form"))
			return
		}
		defer func() { _ = request.MultipartForm.RemoveAll() }()

		files := lo.Map(request.MultipartForm.File[constants.UploadFormField], func(header *multipart.FileHeader, _ int) UploadFile {
			return UploadFile{
				Filename:    header.Filename,
				ContentType: header.Header.Get(constants.HeaderContentType),
				Size:        header.Size,
				Open: func() (io.ReadSeekCloser, error) {
					return header.Open()
				},
			}
		})

		result, err := handler.service.Upload(request.Context(), screenID, files)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, result)
	}
}

/*
PUT /api/v1/screens/{screenID}/documents/order
PUT /api/v1/me/documents/order

Request:
  - Body: {"ordered_ids": [...]}
*/
func (handler *Handler) reorder(scope requestutil.ScopeFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		screenID, err := scope(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input reorderRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.Reorder(request.Context(), screenID, input.OrderedIDs); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, map[string]bool{"success": true})
	}
}

/*
DELETE /api/v1/screens/{screenID}/documents/{documentID}
DELETE /api/v1/me/documents/{documentID}
*/
func (handler *Handler) remove(scope requestutil.ScopeFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		screenID, err := scope(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.service.DeleteDocument(request.Context(), screenID, requestutil.Param(request, ParamDocumentID)); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

/*
GET /api/v1/documents/{documentID}/content

Description: Public proxy streaming the stored PDF so players never need
storage credentials or cross-origin access.

Response:
  - 200: application/pdf, cacheable for an hour
  - 404: Unknown document
  - 502: Storage failure
*/
func (handler *Handler) content(writer http.ResponseWriter, request *http.Request) {
	content, err := handler.service.OpenContent(request.Context(), requestutil.Param(request, ParamDocumentID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer content.Body.Close()

	_ = http.NewResponseController(writer).SetWriteDeadline(time.Now().Add(constants.TransferTimeout))

	header := writer.Header()
	header.Set(constants.HeaderContentType, constants.ContentTypePDF)
	header.Set(constants.HeaderDisposition, mime.FormatMediaType("inline", map[string]string{"filename": content.Filename}))
	header.Set(constants.HeaderCacheControl, constants.ContentCacheControl)
	writer.WriteHeader(http.StatusOK)

	if _, err := io.Copy(writer, content.Body); err != nil {
		ctxutil.Logger(request.Context()).Warn("document_stream_aborted", slog.Any("error", err))
	}
}
