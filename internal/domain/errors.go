package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested content item does not exist
	ErrItemNotFound = errors.New("content item not found")

	// ErrStoreUnavailable indicates the entity store cannot be reached
	ErrStoreUnavailable = errors.New("entity store is unavailable")

	// ErrInvalidFieldPath indicates a query references a field or relation the store does not know
	ErrInvalidFieldPath = errors.New("invalid field path")

	// ErrUnsupportedOperator indicates a condition operator the store cannot evaluate
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrMissingTitle indicates an item has no title to render
	ErrMissingTitle = errors.New("item has no title")
)
