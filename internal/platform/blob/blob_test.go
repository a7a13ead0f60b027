// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/zled/internal/platform/blob"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// storageServer is an in-memory stand-in for the Bunny storage API.
type storageServer struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failures atomic.Int32
	calls    atomic.Int32
	keys     []string
}

func (s *storageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, r.Header.Get("AccessKey"))

	if r.Header.Get("AccessKey") != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if s.failures.Load() > 0 {
		s.failures.Add(-1)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodPut:
		raw, _ := io.ReadAll(r.Body)
		s.objects[r.URL.Path] = raw
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		raw, ok := s.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(raw)
	case http.MethodDelete:
		if _, ok := s.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(s.objects, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}
}

func (s *storageServer) object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.objects[path]
	return raw, ok
}

func newBunny(t *testing.T, key string) (*blob.BunnyStore, *storageServer) {
	t.Helper()

	backend := &storageServer{objects: map[string][]byte{}}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	store := blob.NewBunnyStore(blob.BunnyConfig{
		StorageHost: server.URL,
		StorageZone: "mco-cdn",
		AccessKey:   key,
		Path:        "/LED",
		CDNURL:      "https://mco-cdn.b-cdn.net/",
	}, server.Client(), discardLogger())

	return store, backend
}

/*
TestBunnyStore_RoundTrip uploads, reads back and deletes a document.
*/
func TestBunnyStore_RoundTrip(t *testing.T) {
	store, backend := newBunny(t, "secret")
	ctx := context.Background()

	// 1. Put returns the CDN URL
	url, err := store.Put(ctx, "screen-1/1700000000000-menu.pdf", bytes.NewReader([]byte("%PDF")), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://mco-cdn.b-cdn.net/LED/screen-1/1700000000000-menu.pdf", url)
	_, stored := backend.object("/mco-cdn/LED/screen-1/1700000000000-menu.pdf")
	assert.True(t, stored)

	// 2. URL maps back to the remote path
	remote, ok := store.RemotePath(url)
	require.True(t, ok)
	assert.Equal(t, "screen-1/1700000000000-menu.pdf", remote)

	// 3. Get streams the content
	body, err := store.Get(ctx, remote)
	require.NoError(t, err)
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "%PDF", string(raw))

	// 4. Delete, then a second delete is still fine
	require.NoError(t, store.Delete(ctx, remote))
	require.NoError(t, store.Delete(ctx, remote))

	// 5. Get on a missing blob
	_, err = store.Get(ctx, remote)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

/*
TestBunnyStore_Retry verifies that server errors are retried with a rewound body.
*/
func TestBunnyStore_Retry(t *testing.T) {
	store, backend := newBunny(t, "secret")
	backend.failures.Store(1)

	_, err := store.Put(context.Background(), "a/b.pdf", bytes.NewReader([]byte("payload")), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, int32(2), backend.calls.Load())
	raw, _ := backend.object("/mco-cdn/LED/a/b.pdf")
	assert.Equal(t, "payload", string(raw))
}

/*
TestBunnyStore_ClientError verifies that 4xx answers are not retried.
*/
func TestBunnyStore_ClientError(t *testing.T) {
	store, backend := newBunny(t, "wrong")

	err := store.Delete(context.Background(), "a/b.pdf")
	require.Error(t, err)

	var statusErr *blob.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, int32(1), backend.calls.Load())
	backend.mu.Lock()
	assert.Equal(t, []string{"wrong"}, backend.keys)
	backend.mu.Unlock()
}

/*
TestBunnyStore_RemotePath covers CDN, legacy and foreign URLs.
*/
func TestBunnyStore_RemotePath(t *testing.T) {
	store := blob.NewBunnyStore(blob.BunnyConfig{
		StorageHost: "sg.storage.bunnycdn.com",
		StorageZone: "mco-cdn",
		Path:        "LED",
		CDNURL:      "https://mco-cdn.b-cdn.net",
	}, nil, nil)

	tests := []struct {
		name   string
		url    string
		remote string
		ok     bool
	}{
		{"cdn", "https://mco-cdn.b-cdn.net/LED/s1/a.pdf", "s1/a.pdf", true},
		{"legacy", "https://old.example.com/uploads/s1/a.pdf", "s1/a.pdf", true},
		{"foreign", "https://example.com/a.pdf", "", false},
		{"bare_prefix", "https://mco-cdn.b-cdn.net/LED/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, ok := store.RemotePath(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.remote, remote)
		})
	}
}

/*
TestLocalStore covers the afero-backed store.
*/
func TestLocalStore(t *testing.T) {
	filesystem := afero.NewMemMapFs()
	store := blob.NewLocalStoreFs(filesystem, "/data/uploads")
	ctx := context.Background()

	// 1. Put writes under the root
	url, err := store.Put(ctx, "s1/doc.pdf", bytes.NewReader([]byte("%PDF-1.4")), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "local://s1/doc.pdf", url)

	exists, err := afero.Exists(filesystem, "/data/uploads/s1/doc.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	// 2. Traversal stays inside the root
	_, err = store.Put(ctx, "../../etc/passwd", bytes.NewReader(nil), "")
	require.NoError(t, err)
	exists, _ = afero.Exists(filesystem, "/data/uploads/etc/passwd")
	assert.True(t, exists)

	// 3. Get and Delete
	remote, ok := store.RemotePath(url)
	require.True(t, ok)
	body, err := store.Get(ctx, remote)
	require.NoError(t, err)
	raw, _ := io.ReadAll(body)
	_ = body.Close()
	assert.Equal(t, "%PDF-1.4", string(raw))

	require.NoError(t, store.Delete(ctx, remote))
	require.NoError(t, store.Delete(ctx, remote))
	_, err = store.Get(ctx, remote)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

/*
TestFetcher resolves store URLs through the store and other URLs over HTTP.
*/
func TestFetcher(t *testing.T) {
	store := blob.NewLocalStoreFs(afero.NewMemMapFs(), "/blobs")
	url, err := store.Put(context.Background(), "s1/a.pdf", bytes.NewReader([]byte("from-store")), "")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("from-http"))
	}))
	defer server.Close()

	fetcher := blob.NewFetcher(store, server.Client())
	ctx := context.Background()

	tests := []struct {
		name    string
		source  string
		want    string
		wantErr error
	}{
		{"store", url, "from-store", nil},
		{"http", server.URL + "/remote.pdf", "from-http", nil},
		{"http_missing", server.URL + "/missing.pdf", "", blob.ErrNotFound},
		{"store_missing", "local://s1/none.pdf", "", blob.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := fetcher.Fetch(ctx, tt.source)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(raw))
		})
	}

	_, err = fetcher.Fetch(ctx, "ftp://example.com/a.pdf")
	assert.Error(t, err)
}
