// Package identity describes who is making a request.
//
// An Identity is a plain value passed explicitly into every service call.
// It is either Anonymous or Authenticated with a User snapshot taken when
// the request was resolved; nothing in it refers back to a live store row.
package identity

import "github.com/mrlokans/bookshelf/internal/entities"

// User is the request-scoped view of an authenticated account.
type User struct {
	ID       uint
	Username string
	Email    string
	Avatar   string
}

// Identity is the tagged authentication state of a caller.
type Identity struct {
	user          User
	authenticated bool
}

// Anonymous returns the identity of a caller without a valid session.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of a signed-in caller.
func Authenticated(u User) Identity {
	return Identity{user: u, authenticated: true}
}

// FromEntity builds an authenticated identity from a stored account.
func FromEntity(u *entities.User) Identity {
	return Authenticated(User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	})
}

// IsAuthenticated reports whether the identity carries a user.
func (i Identity) IsAuthenticated() bool {
	return i.authenticated
}

// User returns the authenticated user and true, or the zero User and false.
func (i Identity) User() (User, bool) {
	return i.user, i.authenticated
}

// UserID returns the authenticated user's ID, or 0 for anonymous callers.
func (i Identity) UserID() uint {
	if !i.authenticated {
		return 0
	}
	return i.user.ID
}

// Owns reports whether the identity is the owner with the given user ID.
func (i Identity) Owns(ownerID uint) bool {
	return i.authenticated && ownerID != 0 && i.user.ID == ownerID
}
