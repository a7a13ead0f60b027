// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/zled/internal/core/playback"
)

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Route("/sessions", playback.NewHandler(f.manager).WithStreamDuration(50*time.Millisecond).RegisterRoutes)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

/*
TestHandler_Session drives a hosted session over HTTP.
*/
func TestHandler_Session(t *testing.T) {
	f := newFixture(t, 4)
	router := newRouter(f)

	// 1. Create
	recorder := serve(router, http.MethodPost, "/sessions", `{"screen_id":"lobby","width":800,"height":600,"density":2}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data struct {
			SessionID string `json:"session_id"`
			ScreenID  string `json:"screen_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "lobby", created.Data.ScreenID)
	base := "/sessions/" + created.Data.SessionID

	// 2. Frame as PNG once rendered
	require.Eventually(t, func() bool {
		return serve(router, http.MethodGet, base+"/frame", "").Code == http.StatusOK
	}, time.Second, 5*time.Millisecond)

	recorder = serve(router, http.MethodGet, base+"/frame", "")
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "800.00", recorder.Header().Get("X-Frame-Css-Width"))
	assert.Equal(t, "600.00", recorder.Header().Get("X-Frame-Css-Height"))
	decoded, err := png.Decode(bytes.NewReader(recorder.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1600, decoded.Bounds().Dx())

	// 3. Input
	assert.Equal(t, http.StatusAccepted, serve(router, http.MethodPost, base+"/input", `{"type":"key","key":"ArrowRight"}`).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, base+"/input", `{"type":"swipe","dx":5}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, base+"/input", `{"type":"shake"}`).Code)

	// 4. Events: at least one snapshot before the stream is closed
	recorder = serve(router, http.MethodGet, base+"/events", "")
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "retry: 1000")
	assert.Contains(t, recorder.Body.String(), "event: snapshot")

	// 5. Snapshot and delete
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, base, "").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, base, "").Code)
}

/*
TestHandler_CreateValidation rejects bad bodies and unknown screens.
*/
func TestHandler_CreateValidation(t *testing.T) {
	f := newFixture(t, 4)
	router := newRouter(f)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing_screen", `{"width":800,"height":600}`, http.StatusBadRequest},
		{"zero_viewport", `{"screen_id":"lobby","width":0,"height":600}`, http.StatusBadRequest},
		{"unknown_screen", `{"screen_id":"nope","width":800,"height":600}`, http.StatusNotFound},
		{"not_json", `screen`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(router, http.MethodPost, "/sessions", tt.body).Code)
		})
	}
}
