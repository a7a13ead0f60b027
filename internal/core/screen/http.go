// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/internal/platform/respond"
	"github.com/taibuivan/zled/pkg/pagination"
)

// ParamScreenID names the URL parameter carrying a screen ID.
const ParamScreenID = "screenID"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the screen endpoints. The caller enforces the admin role.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listScreens)
	router.Post("/", handler.createScreen)
	router.Get("/{"+ParamScreenID+"}", handler.getScreen)
	router.Delete("/{"+ParamScreenID+"}", handler.deleteScreen)
}

/*
GET /api/v1/screens

Response:
  - 200: Paginated screens with document counts, newest first
*/
func (handler *Handler) listScreens(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	screens, total, err := handler.service.ListScreens(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, screens, pagination.NewMeta(paginationParams, total))
}

/*
POST /api/v1/screens

Request:
  - Body: CreateInput (Email, Name, Password)

Response:
  - 201: Screen
  - 400: Validation errors
  - 409: Email already registered
*/
func (handler *Handler) createScreen(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	screen, err := handler.service.CreateScreen(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, screen)
}

func (handler *Handler) getScreen(writer http.ResponseWriter, request *http.Request) {
	screen, err := handler.service.GetScreen(request.Context(), requestutil.Param(request, ParamScreenID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, screen)
}

/*
DELETE /api/v1/screens/{screenID}

Response:
  - 204: Screen, documents and stored PDFs removed
  - 404: Unknown screen
*/
func (handler *Handler) deleteScreen(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteScreen(request.Context(), requestutil.Param(request, ParamScreenID)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
