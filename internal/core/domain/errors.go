// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors for the catalog domain. Handlers map these to HTTP
// statuses with errors.Is; everything else is a 500.
var (
	// ErrValidation marks client-supplied data that fails domain validation.
	ErrValidation = errors.New("validation failed")

	// ErrItemNotFound is returned when an item id has no match in the store.
	ErrItemNotFound = errors.New("item not found")

	// ErrStoreIO marks a backing-file read or write failure.
	ErrStoreIO = errors.New("store i/o failure")

	// ErrStoreParse marks a malformed backing file. The whole read aborts;
	// there is no partial-read recovery.
	ErrStoreParse = errors.New("store parse failure")

	// ErrCacheMiss is returned by response caches when a key is absent or
	// its entry has outlived the TTL.
	ErrCacheMiss = errors.New("cache miss")
)
