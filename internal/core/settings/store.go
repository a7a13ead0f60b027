// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import "context"

// Repository defines the data access contract for settings.
type Repository interface {

	/*
		ScreenExists reports whether id is a screen account.
	*/
	ScreenExists(context context.Context, screenID string) (bool, error)

	/*
		Find returns the settings row, or nil without error when the screen has none.
	*/
	Find(context context.Context, screenID string) (*Settings, error)

	/*
		Upsert writes the page duration, creating the row when missing.
	*/
	Upsert(context context.Context, settings *Settings) error
}
