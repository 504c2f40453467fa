package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// imageDataPrefix keys raw image bytes, separate from the metadata
// documents so listing attachments never loads blobs.
const imageDataPrefix = "imagedata:"

// SaveAttachment persists attachment metadata and its image bytes. The
// blob is written first so metadata never references missing data.
func (s *Store) SaveAttachment(ctx context.Context, att *domain.ImageAttachment, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	att.CreatedAt = time.Now()
	att.Size = int64(len(data))

	blobKey := []byte(imageDataPrefix + att.ID)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blobKey, data)
	}); err != nil {
		return fmt.Errorf("write image data: %w", err)
	}

	if err := s.Attachments.Create(ctx, att.ID, att); err != nil {
		// Roll the blob back so a failed create leaves nothing behind.
		_ = s.delete(blobKey)
		return fmt.Errorf("create attachment: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceAttachment, Action: ActionCreated, ID: att.ID})
	return nil
}

// GetAttachment retrieves attachment metadata by ID.
func (s *Store) GetAttachment(ctx context.Context, id string) (*domain.ImageAttachment, error) {
	return s.Attachments.Get(ctx, id)
}

// GetAttachmentData retrieves the raw image bytes for an attachment.
func (s *Store) GetAttachmentData(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(imageDataPrefix, id)
	defer releaseKey(key)

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ListAttachmentsForEntry returns the attachments owned by an entry.
func (s *Store) ListAttachmentsForEntry(ctx context.Context, entryID string) ([]*domain.ImageAttachment, error) {
	return s.Attachments.FindByIndex(ctx, "entry", entryID)
}

// DeleteAttachment removes attachment metadata and its image bytes.
// Metadata goes first; a crash in between leaves an unreferenced blob
// rather than metadata pointing at nothing.
func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	if err := s.Attachments.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.delete([]byte(imageDataPrefix + id)); err != nil {
		return fmt.Errorf("delete image data: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceAttachment, Action: ActionDeleted, ID: id})
	return nil
}
