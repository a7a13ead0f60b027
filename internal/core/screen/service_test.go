// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/zled/internal/core/screen"
	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/blob"
	"github.com/taibuivan/zled/internal/platform/sec"
	"github.com/taibuivan/zled/internal/users/auth"
	"github.com/taibuivan/zled/pkg/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryScreens backs both the screen repository and the account creator.
type memoryScreens struct {
	mu        sync.Mutex
	screens   map[string]*screen.Screen
	locations map[string][]string
	durations map[string]int
	roles     map[string]sec.UserRole
}

func newMemoryScreens() *memoryScreens {
	return &memoryScreens{
		screens:   map[string]*screen.Screen{},
		locations: map[string][]string{},
		durations: map[string]int{},
		roles:     map[string]sec.UserRole{},
	}
}

func (m *memoryScreens) Create(_ context.Context, account *auth.Account, pageDuration int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.screens {
		if existing.Email == account.Email {
			return apperr.Conflict("User with this email already exists")
		}
	}
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	m.screens[account.ID] = &screen.Screen{ID: account.ID, Email: account.Email, Name: account.Name, CreatedAt: account.CreatedAt}
	m.durations[account.ID] = pageDuration
	m.roles[account.ID] = account.Role
	return nil
}

func (m *memoryScreens) List(_ context.Context, limit, offset int) ([]*screen.Screen, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []*screen.Screen{}
	for _, s := range m.screens {
		all = append(all, s)
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (m *memoryScreens) FindByID(_ context.Context, id string) (*screen.Screen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.screens[id]; ok {
		s.DocumentCount = len(m.locations[id])
		return s, nil
	}
	return nil, apperr.NotFound("Screen")
}

func (m *memoryScreens) DocumentLocations(_ context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locations[id], nil
}

func (m *memoryScreens) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.screens[id]; !ok {
		return apperr.NotFound("Screen")
	}
	delete(m.screens, id)
	delete(m.locations, id)
	return nil
}

type recordingInvalidator struct {
	invalidated []string
	err         error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, screenID string) error {
	r.invalidated = append(r.invalidated, screenID)
	return r.err
}

type fixture struct {
	repo    *memoryScreens
	fs      afero.Fs
	store   *blob.LocalStore
	cache   *recordingInvalidator
	service *screen.Service
}

func newFixture() *fixture {
	repo := newMemoryScreens()
	filesystem := afero.NewMemMapFs()
	store := blob.NewLocalStoreFs(filesystem, "/blobs")
	cache := &recordingInvalidator{}
	return &fixture{
		repo:    repo,
		fs:      filesystem,
		store:   store,
		cache:   cache,
		service: screen.NewService(repo, repo, store, cache, discardLogger()),
	}
}

/*
TestService_CreateScreen covers validation, defaults and duplicate emails.
*/
func TestService_CreateScreen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.CreateScreen(ctx, screen.CreateInput{Email: " lobby@zled.com ", Name: "Lobby", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "lobby@zled.com", created.Email)
	assert.Equal(t, 60, f.repo.durations[created.ID])
	assert.Equal(t, sec.RoleScreen, f.repo.roles[created.ID])

	tests := []struct {
		name   string
		input  screen.CreateInput
		status int
	}{
		{"duplicate", screen.CreateInput{Email: "lobby@zled.com", Name: "Other", Password: "secret1"}, http.StatusConflict},
		{"bad_email", screen.CreateInput{Email: "nope", Name: "X", Password: "secret1"}, http.StatusBadRequest},
		{"no_name", screen.CreateInput{Email: "a@zled.com", Password: "secret1"}, http.StatusBadRequest},
		{"short_password", screen.CreateInput{Email: "a@zled.com", Name: "A", Password: "123"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateScreen(ctx, tt.input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

/*
TestService_DeleteScreen removes blobs, the screen and its cached playlist.
*/
func TestService_DeleteScreen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.CreateScreen(ctx, screen.CreateInput{Email: "lobby@zled.com", Name: "Lobby", Password: "secret1"})
	require.NoError(t, err)

	// 1. Two stored documents plus one unresolvable location
	first, err := f.store.Put(ctx, created.ID+"/1-a.pdf", bytes.NewReader([]byte("a")), "application/pdf")
	require.NoError(t, err)
	second, err := f.store.Put(ctx, created.ID+"/2-b.pdf", bytes.NewReader([]byte("b")), "application/pdf")
	require.NoError(t, err)
	f.repo.locations[created.ID] = []string{first, second, "https://elsewhere.example.com/c.pdf"}

	// 2. Invalidation failure is only logged
	f.cache.err = errors.New("redis down")
	require.NoError(t, f.service.DeleteScreen(ctx, created.ID))

	exists, _ := afero.Exists(f.fs, "/blobs/"+created.ID+"/1-a.pdf")
	assert.False(t, exists)
	exists, _ = afero.Exists(f.fs, "/blobs/"+created.ID+"/2-b.pdf")
	assert.False(t, exists)
	assert.Equal(t, []string{created.ID}, f.cache.invalidated)

	// 3. Gone now, and malformed ids are plain 404s
	assert.True(t, apperr.IsNotFound(f.service.DeleteScreen(ctx, created.ID)))
	assert.True(t, apperr.IsNotFound(f.service.DeleteScreen(ctx, "not-a-uuid")))
}

/*
TestHandler covers the admin screen routes end to end.
*/
func TestHandler(t *testing.T) {
	f := newFixture()
	router := chi.NewRouter()
	screen.NewHandler(f.service).RegisterRoutes(router)

	// 1. Create
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"email":"lobby@zled.com","name":"Lobby","password":"secret1"}`)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data screen.Screen `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	// 2. Conflict
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"email":"lobby@zled.com","name":"Lobby","password":"secret1"}`)))
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "User with this email already exists")

	// 3. List
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?page=1&limit=10", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total":1`)

	// 4. Get and delete
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/"+created.Data.ID, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/"+created.Data.ID, nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/"+created.Data.ID, nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
