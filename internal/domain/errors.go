package domain

import "errors"

var (
	// ErrIndexNotFound signals an index name missing from the catalog.
	ErrIndexNotFound = errors.New("index not found in catalog")
	// ErrStoreUnavailable signals a failed call to the document store.
	ErrStoreUnavailable = errors.New("document store unavailable")
)
