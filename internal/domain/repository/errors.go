package repository

import "errors"

// Duplicate-key sentinels returned by adapters when a unique constraint
// rejects a write. The service-level uniqueness check is racy on its own; the
// database constraint is the backstop and these errors carry its verdict back
// up to the service.
var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = errors.New("record not found")
)
