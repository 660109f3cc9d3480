package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the named image does not exist in the
// backing store.
var ErrNotFound = errors.New("image not found")

// Storage fetches tracked image bytes by filename. Backends hold no
// per-request state; a miss is ErrNotFound, anything else is a backend
// failure.
type Storage interface {
	Get(ctx context.Context, name string) ([]byte, error)
}
