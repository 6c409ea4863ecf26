// Package services implements the bookshelf use cases on top of the stores.
//
// Every operation receives the caller's identity.Identity explicitly.
// Operations on per-user data filter by the caller's ID when listing and
// verify ownership before mutating.
package services

import "errors"

var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the row exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrAuthRequired means an anonymous identity reached an operation that needs a user.
	ErrAuthRequired = errors.New("authentication required")
)
