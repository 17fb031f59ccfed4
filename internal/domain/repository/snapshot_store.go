package repository

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when the slot has never been written
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is the host-provided durable slot the whole store is
// serialized into: keyed, single-slot, overwrite-on-save. The ledger never
// assumes anything about where the bytes land beyond these semantics.
type SnapshotStore interface {
	// Save overwrites the slot with data; the write must be atomic (a
	// crashed Save leaves either the old blob or the new one, never a mix)
	Save(ctx context.Context, key string, data []byte) error
	// Load returns the blob last saved under key, or ErrSnapshotNotFound
	Load(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether the slot holds a blob
	Exists(ctx context.Context, key string) (bool, error)
}
