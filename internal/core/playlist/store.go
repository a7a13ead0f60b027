// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import "context"

// Repository reads playlists from the database.
type Repository interface {

	/*
		Load assembles the playlist of a screen without content URLs.

		Returns:
		  - error: apperr.NotFound when no screen has this id
	*/
	Load(context context.Context, screenID string) (*Playlist, error)
}
