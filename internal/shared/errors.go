package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidStatus indicates a document status change not allowed.
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrInsufficientStock indicates a deduction would drive stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)
