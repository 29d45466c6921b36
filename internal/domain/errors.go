package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInsufficientStock indicates a requested quantity exceeds inventory.
	ErrInsufficientStock = errors.New("insufficient stock")
)
