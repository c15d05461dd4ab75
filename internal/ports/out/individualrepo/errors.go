package individualrepo

import "errors"

var (
	// ErrNotFound indicates the requested individual does not exist.
	ErrNotFound = errors.New("individual not found")

	// ErrAlreadyExists indicates an individual already exists with the provided ID.
	ErrAlreadyExists = errors.New("individual already exists")

	// ErrCodeTaken indicates the invitation code has already been issued.
	ErrCodeTaken = errors.New("invitation code already issued")
)
