package domain

import "errors"

// ErrInvalidSearchTerm is returned when a search scope is not one of the
// whitelisted searchable columns. It is rejected before any query runs.
var ErrInvalidSearchTerm = errors.New("invalid search term")

// ErrUserNotFound is returned when a login handle has no user row.
var ErrUserNotFound = errors.New("user not found")

// ErrBadCredentials is returned when a password does not match the stored hash.
var ErrBadCredentials = errors.New("bad credentials")
