package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
)

// StoreSerializer is the slice of the store the snapshot service needs:
// whole-store serialization and the verified swap that backs restore.
type StoreSerializer interface {
	Serialize(ctx context.Context) ([]byte, error)
	SwapFrom(ctx context.Context, data []byte) error
}

// SnapshotService owns durable persistence of the store. Every committed
// mutating transaction asks it to persist; failures are recorded so a sale
// that outlived its snapshot write is never silently unprotected.
type SnapshotService struct {
	store           StoreSerializer
	blobs           repository.SnapshotStore
	slotKey         string
	persistOnCommit bool

	mu          sync.Mutex
	lastPersist time.Time
	lastErr     error
	dirty       bool
}

// NewSnapshotService creates a new snapshot service writing to one slot
func NewSnapshotService(store StoreSerializer, blobs repository.SnapshotStore, slotKey string, persistOnCommit bool) *SnapshotService {
	return &SnapshotService{
		store:           store,
		blobs:           blobs,
		slotKey:         slotKey,
		persistOnCommit: persistOnCommit,
	}
}

// Persist serializes the whole store and overwrites the durable slot. On
// failure the dirty flag stays up and the next Persist retries; committed
// ledger state is never unwound over a snapshot problem.
func (s *SnapshotService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Serialize(ctx)
	if err != nil {
		s.dirty = true
		s.lastErr = err
		return apperror.NewSnapshotPersistError(err.Error())
	}

	if err := s.blobs.Save(ctx, s.slotKey, data); err != nil {
		s.dirty = true
		s.lastErr = err
		return apperror.NewSnapshotPersistError(err.Error())
	}

	s.lastPersist = time.Now()
	s.lastErr = nil
	s.dirty = false
	return nil
}

// PersistAfterCommit is what mutating services call once their transaction
// has committed. When commit-time persistence is switched off it only marks
// the slot dirty; the write then waits for a manual persist or shutdown.
func (s *SnapshotService) PersistAfterCommit(ctx context.Context) error {
	if !s.persistOnCommit {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return nil
	}
	return s.Persist(ctx)
}

// Export returns the current serialized store for backup download
func (s *SnapshotService) Export(ctx context.Context) ([]byte, error) {
	return s.store.Serialize(ctx)
}

// Restore replaces the entire store with the supplied snapshot bytes. The
// swap is verified before anything live is touched; bad input leaves the
// active store exactly as it was.
func (s *SnapshotService) Restore(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return apperror.NewRestoreError("snapshot is empty")
	}

	if err := s.store.SwapFrom(ctx, data); err != nil {
		return apperror.NewRestoreError(err.Error())
	}

	// The restored state becomes the durable slot. A persist failure here
	// does not undo the restore; it is recorded like any other.
	if err := s.Persist(ctx); err != nil {
		log.Printf("Snapshot persist after restore failed: %v", err)
	}
	return nil
}

// SnapshotStatus reports persistence health
type SnapshotStatus struct {
	LastPersistAt *time.Time `json:"last_persist_at"`
	LastError     string     `json:"last_error,omitempty"`
	Dirty         bool       `json:"dirty"`
}

// Status returns when the slot was last written and whether committed state
// is still waiting on a successful persist
func (s *SnapshotService) Status() SnapshotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SnapshotStatus{Dirty: s.dirty}
	if !s.lastPersist.IsZero() {
		t := s.lastPersist
		status.LastPersistAt = &t
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	return status
}
