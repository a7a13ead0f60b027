// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/zled/internal/core/document"
	"github.com/taibuivan/zled/internal/platform/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryDocuments is an in-memory [document.Repository].
type memoryDocuments struct {
	mu        sync.Mutex
	screens   map[string]bool
	documents map[string]*document.Document
	createErr error
}

func newMemoryDocuments(screens ...string) *memoryDocuments {
	repo := &memoryDocuments{screens: map[string]bool{}, documents: map[string]*document.Document{}}
	for _, id := range screens {
		repo.screens[id] = true
	}
	return repo
}

func (m *memoryDocuments) ScreenExists(_ context.Context, screenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screens[screenID], nil
}

func (m *memoryDocuments) ListByScreen(_ context.Context, screenID string) ([]*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	documents := []*document.Document{}
	for _, d := range m.documents {
		if d.ScreenID == screenID {
			documents = append(documents, d)
		}
	}
	sort.Slice(documents, func(i, j int) bool { return documents[i].SortOrder < documents[j].SortOrder })
	return documents, nil
}

func (m *memoryDocuments) FindByID(_ context.Context, id string) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.documents[id]; ok {
		return d, nil
	}
	return nil, apperr.NotFound("Document")
}

func (m *memoryDocuments) NextSortOrder(_ context.Context, screenID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 0
	for _, d := range m.documents {
		if d.ScreenID == screenID && d.SortOrder >= next {
			next = d.SortOrder + 1
		}
	}
	return next, nil
}

func (m *memoryDocuments) Create(_ context.Context, d *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	d.CreatedAt = time.Now()
	m.documents[d.ID] = d
	return nil
}

func (m *memoryDocuments) Delete(_ context.Context, screenID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok || d.ScreenID != screenID {
		return apperr.NotFound("Document")
	}
	delete(m.documents, id)
	return nil
}

func (m *memoryDocuments) Reorder(_ context.Context, screenID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if d, ok := m.documents[id]; !ok || d.ScreenID != screenID {
			return apperr.NotFound("Document")
		}
	}
	for index, id := range ids {
		m.documents[id].SortOrder = index
	}
	return nil
}

// pageInspector reads "pages:<n>" bodies.
type pageInspector struct{}

func (pageInspector) PageCount(body io.ReadSeeker) (int, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return 0, err
	}
	rest, ok := strings.CutPrefix(string(raw), "pages:")
	if !ok {
		return 0, errors.New("not a pdf")
	}
	return strconv.Atoi(rest)
}

type recordingInvalidator struct {
	mu          sync.Mutex
	invalidated []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, screenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, screenID)
	return nil
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invalidated)
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }

func upload(name, contentType, body string) document.UploadFile {
	return document.UploadFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadSeekCloser, error) {
			return nopCloser{bytes.NewReader([]byte(body))}, nil
		},
	}
}
