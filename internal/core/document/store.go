// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import "context"

// Repository defines the data access contract for documents.
type Repository interface {

	/*
		ScreenExists reports whether id is a screen account.
	*/
	ScreenExists(context context.Context, screenID string) (bool, error)

	/*
		ListByScreen returns the screen's documents in sort order.
	*/
	ListByScreen(context context.Context, screenID string) ([]*Document, error)

	/*
		FindByID returns one document regardless of owner.
	*/
	FindByID(context context.Context, id string) (*Document, error)

	/*
		NextSortOrder returns one past the highest sort order of the screen, or 0.
	*/
	NextSortOrder(context context.Context, screenID string) (int, error)

	/*
		Create persists a new document.
	*/
	Create(context context.Context, document *Document) error

	/*
		Delete removes a document owned by the screen.

		Returns:
		  - error: apperr.NotFound when the document does not belong to the screen
	*/
	Delete(context context.Context, screenID, id string) error

	/*
		Reorder sets each document's sort order to its index in ids, in one transaction.

		Returns:
		  - error: apperr.NotFound when any id does not belong to the screen
	*/
	Reorder(context context.Context, screenID string, ids []string) error
}
