// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the kind of account behind a token.
type UserRole string

const (
	// RoleAdmin manages every screen, its documents and its settings.
	RoleAdmin UserRole = "admin"

	// RoleScreen is a display device. It only reaches its own playlist
	// through the /me routes.
	RoleScreen UserRole = "screen"
)

// rank orders roles; an unknown role ranks 0 and passes no check.
var rank = map[UserRole]int{
	RoleScreen: 1,
	RoleAdmin:  2,
}

// Valid reports whether role is known.
func (role UserRole) Valid() bool {
	return rank[role] > 0
}

// AtLeast reports whether role may act where required is needed.
func (role UserRole) AtLeast(required UserRole) bool {
	return role.Valid() && rank[role] >= rank[required]
}

// HasRole reports whether the token grants at least required.
func (claims *AuthClaims) HasRole(required UserRole) bool {
	return claims != nil && UserRole(claims.Role).AtLeast(required)
}
