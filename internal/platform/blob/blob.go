// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores uploaded documents.

Two backends implement [Store]:

  - [BunnyStore]: a BunnyCDN storage zone, served publicly through its pull zone.
  - [LocalStore]: a directory on an afero filesystem, for development and tests.

Documents are addressed by a remote path ("<screenID>/<file>.pdf"). The
database keeps the public URL returned by [Store.Put]; [Store.RemotePath]
maps it back when the blob must be read or deleted.
*/
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no blob exists at the path.
var ErrNotFound = errors.New("blob: not found")

// Store is a flat object store keyed by remote path.
type Store interface {

	/*
		Put uploads body to remotePath and returns its public URL.

		body is rewound before every attempt, so transient failures can be retried.
	*/
	Put(context context.Context, remotePath string, body io.ReadSeeker, contentType string) (string, error)

	/*
		Get opens the blob at remotePath. The caller closes the reader.

		Returns ErrNotFound when the blob does not exist.
	*/
	Get(context context.Context, remotePath string) (io.ReadCloser, error)

	/*
		Delete removes the blob at remotePath. Deleting a missing blob succeeds.
	*/
	Delete(context context.Context, remotePath string) error

	// URL returns the public URL of remotePath.
	URL(remotePath string) string

	// RemotePath maps a URL produced by this store back to its remote path.
	RemotePath(url string) (string, bool)
}
