package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrInvalidSnapshot is returned when a candidate store fails verification
var ErrInvalidSnapshot = errors.New("invalid store snapshot")

// Store owns the embedded database: the working file, the live gorm handle,
// and the swap lock a verified restore needs. It is opened once at process
// start, injected into every repository, and closed at shutdown; nothing
// else in the system holds a database handle of its own.
type Store struct {
	mu   sync.RWMutex
	db   *gorm.DB
	path string
}

// Open rehydrates the store from the durable slot when a snapshot exists,
// otherwise starts empty, then applies migrations and seed data.
func Open(ctx context.Context, path string, snapshots domainRepo.SnapshotStore, slotKey string) (*Store, error) {
	if snapshots != nil {
		data, err := snapshots.Load(ctx, slotKey)
		switch {
		case err == nil:
			if err := materialize(path, data); err != nil {
				return nil, fmt.Errorf("failed to materialize snapshot: %w", err)
			}
			log.Printf("Store rehydrated from snapshot (%d bytes)", len(data))
		case errors.Is(err, domainRepo.ErrSnapshotNotFound):
			log.Println("No snapshot found, starting with an empty store")
		default:
			// A slot that exists but cannot be read must not silently
			// become an empty store.
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}

	db, err := open(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// open connects to the working file with a single-connection pool: the
// deployment model is one writer at a time, and one connection keeps every
// statement strictly ordered.
func open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return db, nil
}

// DB returns the live handle. Taken fresh per operation so a restore swap
// is never raced by a repository holding a stale handle.
func (s *Store) DB() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Transaction runs fn inside one store transaction with rollback on error
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.DB().WithContext(ctx).Transaction(fn)
}

// Close releases the underlying connection
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Serialize produces a consistent byte snapshot of the entire store without
// closing the live handle. VACUUM INTO writes a canonical copy, so two
// serializations with no writes in between are byte-identical.
func (s *Store) Serialize(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmp := fmt.Sprintf("%s.vacuum-%d", s.path, time.Now().UnixNano())
	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", tmp).Error; err != nil {
		return nil, fmt.Errorf("failed to serialize store: %w", err)
	}
	defer os.Remove(tmp)

	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to read serialized store: %w", err)
	}
	return data, nil
}

// SwapFrom replaces the entire store with the supplied serialized bytes.
// The candidate is verified before the live handle is touched; a candidate
// that fails verification leaves the active store exactly as it was.
func (s *Store) SwapFrom(ctx context.Context, data []byte) error {
	candidate := fmt.Sprintf("%s.restore-%d", s.path, time.Now().UnixNano())
	if err := os.WriteFile(candidate, data, 0o644); err != nil {
		return fmt.Errorf("failed to stage restore candidate: %w", err)
	}
	defer os.Remove(candidate)

	if err := verify(candidate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close store before swap: %w", err)
	}

	// Keep the previous file until the replacement is open, so a failed
	// swap can put it back.
	previous := s.path + ".pre-restore"
	if err := os.Rename(s.path, previous); err != nil {
		return fmt.Errorf("failed to set aside current store: %w", err)
	}
	removeSidecars(s.path)
	if err := os.Rename(candidate, s.path); err != nil {
		_ = os.Rename(previous, s.path)
		db, reopenErr := open(s.path)
		if reopenErr != nil {
			return fmt.Errorf("failed to swap store and failed to reopen previous: %w", reopenErr)
		}
		s.db = db
		return fmt.Errorf("failed to swap store: %w", err)
	}

	db, err := open(s.path)
	if err != nil {
		_ = os.Remove(s.path)
		_ = os.Rename(previous, s.path)
		db, reopenErr := open(s.path)
		if reopenErr != nil {
			return fmt.Errorf("failed to open restored store and failed to reopen previous: %w", reopenErr)
		}
		s.db = db
		return fmt.Errorf("failed to open restored store: %w", err)
	}

	s.db = db
	_ = os.Remove(previous)

	if err := s.migrate(); err != nil {
		return err
	}
	log.Printf("Store restored from snapshot (%d bytes)", len(data))
	return nil
}

// verify opens the candidate read-only and checks it is a sound store:
// SQLite integrity must pass and the ledger tables must be present.
func verify(path string) error {
	db, err := open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	var result string
	if err := db.Raw("PRAGMA integrity_check").Scan(&result).Error; err != nil {
		return fmt.Errorf("%w: integrity check failed: %v", ErrInvalidSnapshot, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: integrity check reported %q", ErrInvalidSnapshot, result)
	}

	required := []string{"shops", "products", "customers", "sales", "sale_line_items", "payments"}
	var count int64
	err = db.Raw(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ?", required,
	).Scan(&count).Error
	if err != nil {
		return fmt.Errorf("%w: schema check failed: %v", ErrInvalidSnapshot, err)
	}
	if count != int64(len(required)) {
		return fmt.Errorf("%w: missing ledger tables", ErrInvalidSnapshot)
	}
	return nil
}

// materialize writes snapshot bytes to the working path before first open
func materialize(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	removeSidecars(path)

	tmp := path + ".materialize"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// removeSidecars clears journal leftovers that would shadow a replaced file
func removeSidecars(path string) {
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		_ = os.Remove(path + suffix)
	}
}

// migrate runs GORM auto-migration for all entities
func (s *Store) migrate() error {
	err := s.db.AutoMigrate(
		// Tenant boundary
		&entity.Shop{},

		// Catalog entities
		&entity.Product{},
		&entity.Customer{},

		// Ledger entities
		&entity.Sale{},
		&entity.SaleLineItem{},
		&entity.Payment{},
		&entity.Expense{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// seed creates the default shop on a brand new store so the terminal can
// sell before any explicit shop setup
func (s *Store) seed() error {
	var count int64
	if err := s.db.Model(&entity.Shop{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check shops: %w", err)
	}
	if count > 0 {
		return nil
	}

	shop := entity.Shop{
		Name:          "Main Shop",
		Code:          "MAIN",
		NextProductNo: 1,
	}
	if err := s.db.Create(&shop).Error; err != nil {
		return fmt.Errorf("failed to seed default shop: %w", err)
	}
	log.Printf("Seeded default shop %s", shop.Code)
	return nil
}
