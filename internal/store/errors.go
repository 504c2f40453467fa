package store

import "github.com/cardchronicle/chronicle-server/internal/errors"

// Sentinel errors returned by store operations. These are the shared
// coded errors so handlers can map them to HTTP statuses directly.
var (
	ErrNotFound      = errors.ErrNotFound
	ErrAlreadyExists = errors.ErrAlreadyExists
)
