package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrValidation indicates the write was rejected before reaching the store,
	// e.g. a self friend request or a request to an existing friend.
	ErrValidation = errors.New("validation rejected")
)
