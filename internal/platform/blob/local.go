// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalScheme prefixes the URLs produced by [LocalStore].
const LocalScheme = "local://"

// LocalStore is a [Store] on a directory of an afero filesystem.
//
// Its URLs ("local://<remote>") are not browsable; documents are read back
// through the API's content proxy.
type LocalStore struct {
	fs   afero.Afero
	root string
}

// NewLocalStore returns a store rooted at dir on the OS filesystem.
func NewLocalStore(dir string) *LocalStore {
	return NewLocalStoreFs(afero.NewOsFs(), dir)
}

// NewLocalStoreFs returns a store rooted at dir on filesystem.
func NewLocalStoreFs(filesystem afero.Fs, dir string) *LocalStore {
	return &LocalStore{fs: afero.Afero{Fs: filesystem}, root: filepath.Clean(dir)}
}

// Put implements [Store].
func (store *LocalStore) Put(_ context.Context, remotePath string, body io.ReadSeeker, _ string) (string, error) {
	target, err := store.resolve(remotePath)
	if err != nil {
		return "", err
	}

	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("blob: rewind body: %w", err)
	}
	if err := store.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("blob: mkdir: %w", err)
	}
	if err := store.fs.WriteReader(target, body); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", remotePath, err)
	}

	return store.URL(remotePath), nil
}

// Get implements [Store].
func (store *LocalStore) Get(_ context.Context, remotePath string) (io.ReadCloser, error) {
	target, err := store.resolve(remotePath)
	if err != nil {
		return nil, err
	}

	file, err := store.fs.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blob: open %s: %w", remotePath, err)
	}
	return file, nil
}

// Delete implements [Store].
func (store *LocalStore) Delete(_ context.Context, remotePath string) error {
	target, err := store.resolve(remotePath)
	if err != nil {
		return err
	}

	if err := store.fs.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("blob: remove %s: %w", remotePath, err)
	}
	return nil
}

// URL implements [Store].
func (store *LocalStore) URL(remotePath string) string {
	return LocalScheme + strings.TrimLeft(remotePath, "/")
}

// RemotePath implements [Store].
func (store *LocalStore) RemotePath(url string) (string, bool) {
	rest, ok := strings.CutPrefix(url, LocalScheme)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// resolve keeps remotePath inside the root.
func (store *LocalStore) resolve(remotePath string) (string, error) {
	clean := path.Clean("/" + remotePath)
	if clean == "/" {
		return "", fmt.Errorf("blob: empty remote path")
	}
	return filepath.Join(store.root, filepath.FromSlash(clean)), nil
}
