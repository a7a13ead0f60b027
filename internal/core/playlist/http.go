// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public player endpoint.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{"+ParamScreenID+"}", handler.get)
}

/*
GET /api/v1/player/{screenID}

Description: Returns the screen name, page duration and ordered documents.
No authentication; the screen id is the capability.
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	playlist, err := handler.service.Find(request.Context(), requestutil.Param(request, ParamScreenID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, playlist)
}
