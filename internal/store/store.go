package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// EventEmitter is the interface for broadcasting store changes.
// Store uses this to notify connected clients without depending on the
// SSE implementation.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// Store wraps a Badger database instance holding all persisted diary
// state: entries, image attachments, favorites, collections, and the
// entitlement record.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	eventEmitter EventEmitter

	// Generic entities
	Entries     *Entity[domain.DiaryEntry]
	Attachments *Entity[domain.ImageAttachment]
	Favorites   *Entity[domain.Favorite]
	Collections *Entity[domain.Collection]
}

// New creates a new Store instance with the given database path and event
// emitter. The emitter is required and used to broadcast store changes.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
	}

	store.initEntries()
	store.initAttachments()
	store.initFavorites()
	store.initCollections()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// emit broadcasts an event if an emitter is configured.
func (s *Store) emit(event any) {
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(event)
	}
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// initEntries initializes the Entries entity. Entries are indexed by card
// so diary lookups for a card avoid a full scan.
func (s *Store) initEntries() {
	s.Entries = NewEntity[domain.DiaryEntry](s, "entry:").
		WithMultiIndex("card", func(e *domain.DiaryEntry) []string {
			return []string{e.CardID}
		}, func(e *domain.DiaryEntry) string { return e.ID })
}

// initAttachments initializes the Attachments entity, indexed by owning
// entry for cascade deletes.
func (s *Store) initAttachments() {
	s.Attachments = NewEntity[domain.ImageAttachment](s, "image:").
		WithMultiIndex("entry", func(a *domain.ImageAttachment) []string {
			return []string{a.EntryID}
		}, func(a *domain.ImageAttachment) string { return a.ID })
}

// initFavorites initializes the Favorites entity. The card index is
// unique: a card is favorited at most once, and the toggle operation
// looks favorites up by card.
func (s *Store) initFavorites() {
	s.Favorites = NewEntity[domain.Favorite](s, "favorite:").
		WithIndex("card", func(f *domain.Favorite) []string {
			return []string{f.CardID}
		})
}

// initCollections initializes the Collections entity. The share index
// maps a remote share ID back to its collection.
func (s *Store) initCollections() {
	s.Collections = NewEntity[domain.Collection](s, "collection:").
		WithIndex("share", func(c *domain.Collection) []string {
			if c.ShareID == "" {
				return nil
			}
			return []string{c.ShareID}
		})
}
