// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/internal/platform/respond"
	"github.com/taibuivan/zled/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the settings routes for one scope.
func (handler *Handler) Routes(scope requestutil.ScopeFunc) chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.get(scope))
	router.Put("/", handler.put(scope))
	return router
}

type updateRequest struct {
	PageDuration *int `json:"page_duration"`
}

/*
GET /api/v1/screens/{screenID}/settings
GET /api/v1/me/settings
*/
func (handler *Handler) get(scope requestutil.ScopeFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		screenID, err := scope(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		settings, err := handler.service.GetSettings(request.Context(), screenID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, settings)
	}
}

/*
PUT /api/v1/screens/{screenID}/settings
PUT /api/v1/me/settings

Request:
  - Body: {"page_duration": 1..86400}
*/
func (handler *Handler) put(scope requestutil.ScopeFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		screenID, err := scope(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var input updateRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		if input.PageDuration == nil {
			respond.Error(writer, request, validate.RequiredError(FieldPageDuration, "This field is required"))
			return
		}

		settings, err := handler.service.UpdateSettings(request.Context(), screenID, *input.PageDuration)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, settings)
	}
}
