// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package access provides authentication and access control for jobly.

An Identity is added to the request context by the JWT middleware when the
request carries a valid bearer token:

	Authorization: Bearer <token>

and retrieved with

	identity := access.IdentityFromContext(ctx)

Requests without a valid token carry no identity. The guards RequireLoggedIn,
RequireAdmin and RequireAdminOrSelf reject such requests with 401.
*/
package access

import (
	"context"
)

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

// the predefined context key
const (
	contextKeyIdentity contextKey = "_identity_"
)

// Identity is the authenticated user of a request
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ContextWithIdentity returns a new context with identity added to it
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}

// IdentityFromContext retrieves the identity of a request, or nil if the request is anonymous
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(contextKeyIdentity).(*Identity)
	return identity
}

// Is returns true if identity is the user username
func (i *Identity) Is(username string) bool {
	return i != nil && i.Username == username
}

// Admin returns true if identity is an admin
func (i *Identity) Admin() bool {
	return i != nil && i.IsAdmin
}

// String returns the username, or "anonymous"
func (i *Identity) String() string {
	if i == nil {
		return "anonymous"
	}
	return i.Username
}
