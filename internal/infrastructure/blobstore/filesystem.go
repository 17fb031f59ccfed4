// Package blobstore provides durable storage for serialized store snapshots.
package blobstore

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"golang.org/x/crypto/blake2b"
)

// FilesystemStore keeps each snapshot slot as a file beside a checksum
// sidecar. Writes go through a temp file and rename, so the slot always
// holds either the previous snapshot or the new one, never a torn write.
type FilesystemStore struct {
	dir string
}

func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FilesystemStore{dir: dir}, nil
}

func (f *FilesystemStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := f.slotPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	sum := blake2b.Sum256(data)
	sumTmp := path + ".sum.tmp"
	if err := os.WriteFile(sumTmp, []byte(hex.EncodeToString(sum[:])), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot checksum: %w", err)
	}
	if err := os.Rename(sumTmp, path+".sum"); err != nil {
		_ = os.Remove(sumTmp)
		return fmt.Errorf("failed to commit snapshot checksum: %w", err)
	}
	return nil
}

func (f *FilesystemStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := f.slotPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	// A missing sidecar means the slot predates checksumming or the sum
	// write was interrupted; the store-level verification still guards
	// the restore, so only an explicit mismatch fails the load.
	want, err := os.ReadFile(path + ".sum")
	if err == nil {
		sum := blake2b.Sum256(data)
		got := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			return nil, fmt.Errorf("snapshot checksum mismatch for slot %s", key)
		}
	}
	return data, nil
}

func (f *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(f.slotPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *FilesystemStore) slotPath(key string) string {
	return filepath.Join(f.dir, key+".db")
}
