// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/zled/internal/core/settings"
	"github.com/taibuivan/zled/internal/platform/apperr"
	requestutil "github.com/taibuivan/zled/internal/platform/request"
	"github.com/taibuivan/zled/pkg/uuid"
)

type memorySettings struct {
	screens map[string]bool
	rows    map[string]*settings.Settings
}

func (m *memorySettings) ScreenExists(_ context.Context, screenID string) (bool, error) {
	return m.screens[screenID], nil
}

func (m *memorySettings) Find(_ context.Context, screenID string) (*settings.Settings, error) {
	return m.rows[screenID], nil
}

func (m *memorySettings) Upsert(_ context.Context, s *settings.Settings) error {
	s.UpdatedAt = time.Now()
	m.rows[s.ScreenID] = s
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context, string) error {
	c.calls++
	return nil
}

func newService(screenID string) (*settings.Service, *memorySettings, *countingInvalidator) {
	repo := &memorySettings{screens: map[string]bool{screenID: true}, rows: map[string]*settings.Settings{}}
	cache := &countingInvalidator{}
	return settings.NewService(repo, cache, slog.New(slog.NewTextHandler(io.Discard, nil))), repo, cache
}

/*
TestService_Settings covers the default, updates and range validation.
*/
func TestService_Settings(t *testing.T) {
	screenID := uuid.New()
	service, _, cache := newService(screenID)
	ctx := context.Background()

	// 1. No row yet
	current, err := service.GetSettings(ctx, screenID)
	require.NoError(t, err)
	assert.Equal(t, 60, current.PageDuration)

	// 2. Update and read back
	_, err = service.UpdateSettings(ctx, screenID, 15)
	require.NoError(t, err)
	current, err = service.GetSettings(ctx, screenID)
	require.NoError(t, err)
	assert.Equal(t, 15, current.PageDuration)
	assert.Equal(t, 1, cache.calls)

	// 3. Bounds
	tests := []struct {
		name     string
		screenID string
		duration int
		status   int
	}{
		{"zero", screenID, 0, http.StatusBadRequest},
		{"negative", screenID, -5, http.StatusBadRequest},
		{"over_a_day", screenID, 86401, http.StatusBadRequest},
		{"max", screenID, 86400, 0},
		{"min", screenID, 1, 0},
		{"unknown_screen", uuid.New(), 10, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateSettings(ctx, tt.screenID, tt.duration)
			if tt.status == 0 {
				assert.NoError(t, err)
				return
			}
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

/*
TestHandler_Settings exercises GET and PUT through the router.
*/
func TestHandler_Settings(t *testing.T) {
	screenID := uuid.New()
	service, _, _ := newService(screenID)

	router := chi.NewRouter()
	router.Mount("/screens/{screenID}/settings", settings.NewHandler(service).Routes(requestutil.ParamScope("screenID")))
	base := "/screens/" + screenID + "/settings"

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, base, strings.NewReader(`{"page_duration":30}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, base, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"page_duration":30`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, base, strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
