// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// AccountRepository stores accounts. Lookups return apperr.NotFound for a
// missing row.
type AccountRepository interface {
	FindByID(context context.Context, id string) (*Account, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(context context.Context, email string) (*Account, error)

	// Create inserts the account and its settings row (pageDuration seconds
	// per page) in one transaction. A taken email is apperr.Conflict.
	Create(context context.Context, account *Account, pageDuration int) error
}
