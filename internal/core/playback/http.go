// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/internal/platform/respond"
	"github.com/taibuivan/zled/internal/platform/validate"
)

const ParamSessionID = "sessionID"

// SSE event names.
const (
	eventSnapshot = "snapshot"
	eventEnded    = "ended"
)

type Handler struct {
	manager        *Manager
	streamDuration time.Duration
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager, streamDuration: constants.EventStreamMaxDuration}
}

// WithStreamDuration bounds each event stream; clients reconnect afterwards.
func (handler *Handler) WithStreamDuration(duration time.Duration) *Handler {
	handler.streamDuration = duration
	return handler
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.create)
	router.Route("/{"+ParamSessionID+"}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.delete)
		r.Post("/input", handler.input)
		r.Get("/frame", handler.frame)
		r.Get("/events", handler.events)
	})
}

type createRequest struct {
	ScreenID string  `json:"screen_id"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Density  float64 `json:"density"`
}

/*
POST /api/v1/sessions

Description: Loads a screen's playlist and starts a hosted player session.

Request:
  - Body: {"screen_id", "width", "height", "density"}

Response:
  - 201: player.Snapshot
  - 404: Unknown screen
  - 503: Session limit reached
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldScreenID, input.ScreenID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	viewport, err := parseViewport(input.Width, input.Height, input.Density)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.manager.Start(request.Context(), input.ScreenID, viewport)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, session.Snapshot())
}

/*
GET /api/v1/sessions/{sessionID}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.manager.Get(requestutil.Param(request, ParamSessionID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session.Snapshot())
}

/*
POST /api/v1/sessions/{sessionID}/input

Request:
  - Body: {"type": "key"|"swipe"|"tap"|"resize", ...}

Response:
  - 202: Input forwarded
  - 204: Input has no meaning (short swipe, unbound key)
*/
func (handler *Handler) input(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	forwarded, err := handler.manager.Input(request.Context(), requestutil.Param(request, ParamSessionID), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !forwarded {
		respond.NoContent(writer)
		return
	}
	respond.Accepted(writer, map[string]bool{"accepted": true})
}

/*
GET /api/v1/sessions/{sessionID}/frame

Description: The page currently on screen as PNG. The X-Frame-Css-* headers
carry the size at which the image must be drawn.
*/
func (handler *Handler) frame(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.manager.Get(requestutil.Param(request, ParamSessionID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	frame := session.Frame()
	if frame == nil || frame.Image == nil {
		respond.Error(writer, request, apperr.NotFound("Frame"))
		return
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, frame.Image); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	header := writer.Header()
	header.Set(constants.HeaderContentType, constants.ContentTypePNG)
	header.Set(constants.HeaderCacheControl, "no-store")
	header.Set(constants.HeaderXFrameSeq, strconv.FormatUint(frame.Seq, 10))
	header.Set(constants.HeaderXFrameCSSWidth, strconv.FormatFloat(frame.Fit.CSSWidth, 'f', 2, 64))
	header.Set(constants.HeaderXFrameCSSHeight, strconv.FormatFloat(frame.Fit.CSSHeight, 'f', 2, 64))
	header.Set("Content-Length", strconv.Itoa(buffer.Len()))
	writer.WriteHeader(http.StatusOK)
	_, _ = buffer.WriteTo(writer)
}

/*
GET /api/v1/sessions/{sessionID}/events

Description: Server-Sent Events, one "snapshot" event per state change and
an "ended" event at teardown. Each stream is closed after a bounded time;
EventSource clients reconnect on their own.
*/
func (handler *Handler) events(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.manager.Get(requestutil.Param(request, ParamSessionID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	controller := http.NewResponseController(writer)
	_ = controller.SetWriteDeadline(time.Now().Add(handler.streamDuration + 5*time.Second))

	header := writer.Header()
	header.Set(constants.HeaderContentType, constants.ContentTypeEventStream)
	header.Set(constants.HeaderCacheControl, "no-cache")
	header.Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)
	fmt.Fprintf(writer, "retry: %d\n\n", constants.EventStreamRetry)

	updates, unsubscribe := session.Subscribe()
	defer unsubscribe()

	deadline := time.NewTimer(handler.streamDuration)
	defer deadline.Stop()

	logger := ctxutil.Logger(request.Context())
	for {
		if err := controller.Flush(); err != nil {
			logger.Debug("event_stream_flush_failed", slog.Any("error", err))
			return
		}

		select {
		case <-request.Context().Done():
			return
		case <-deadline.C:
			return
		case snapshot, ok := <-updates:
			if !ok {
				writeEvent(writer, eventEnded, map[string]string{"session_id": session.ID()})
				_ = controller.Flush()
				return
			}
			handler.manager.touch(session.ID())
			writeEvent(writer, eventSnapshot, snapshot)
		}
	}
}

/*
DELETE /api/v1/sessions/{sessionID}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.manager.End(request.Context(), requestutil.Param(request, ParamSessionID)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func writeEvent(writer http.ResponseWriter, name string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", name, raw)
}
