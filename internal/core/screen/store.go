// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen

import (
	"context"

	"github.com/taibuivan/zled/internal/users/auth"
)

// Repository defines the data access contract for screens.
type Repository interface {

	/*
		List returns screens newest first, with their document counts.

		Returns:
		  - []*Screen: One page of screens
		  - int: Total number of screens
		  - error: Database failures
	*/
	List(context context.Context, limit, offset int) ([]*Screen, int, error)

	/*
		FindByID returns one screen. Administrator accounts are not screens.
	*/
	FindByID(context context.Context, id string) (*Screen, error)

	/*
		DocumentLocations returns the stored blob URL of every document of the screen.
	*/
	DocumentLocations(context context.Context, id string) ([]string, error)

	/*
		Delete removes the screen; documents and settings cascade.
	*/
	Delete(context context.Context, id string) error
}

// AccountCreator persists a new account with its settings row.
//
// Satisfied by auth.PostgresAccountRepository.
type AccountCreator interface {
	Create(context context.Context, account *auth.Account, pageDuration int) error
}
