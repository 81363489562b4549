package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by [Storage.Get] for absent keys.
var ErrKeyNotFound = errors.New("storage: key not found")

// Storage is the process-wide persisted key-value collaborator.
// Implementations must be safe for concurrent use. Delete of an absent key
// is a no-op, which is what makes logout idempotent one layer up.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
