package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// CreateEntry persists a new diary entry. The caller assigns the ID;
// timestamps are stamped here.
func (s *Store) CreateEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.Entries.Create(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceEntry, Action: ActionCreated, ID: entry.ID, CardID: entry.CardID})
	return nil
}

// GetEntry retrieves a diary entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	return s.Entries.Get(ctx, id)
}

// ListEntries returns all diary entries, newest first by creation time.
func (s *Store) ListEntries(ctx context.Context) ([]*domain.DiaryEntry, error) {
	entries, err := s.Entries.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b *domain.DiaryEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return entries, nil
}

// ListEntriesForCard returns the diary entries attached to a card.
func (s *Store) ListEntriesForCard(ctx context.Context, cardID string) ([]*domain.DiaryEntry, error) {
	return s.Entries.FindByIndex(ctx, "card", cardID)
}

// UpdateEntry replaces a diary entry wholesale. The creation timestamp of
// the stored entry is preserved.
func (s *Store) UpdateEntry(ctx context.Context, entry *domain.DiaryEntry) error {
	existing, err := s.Entries.Get(ctx, entry.ID)
	if err != nil {
		return err
	}

	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now()

	if err := s.Entries.Update(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceEntry, Action: ActionUpdated, ID: entry.ID, CardID: entry.CardID})
	return nil
}

// DeleteEntry removes a diary entry and its image attachments. Children
// go first: each attachment is deleted in its own transaction before the
// entry itself. A crash mid-delete leaves a complete entry with fewer
// images, never an orphaned blob referenced by nothing.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	entry, err := s.Entries.Get(ctx, id)
	if err != nil {
		return err
	}

	attachments, err := s.Attachments.FindByIndex(ctx, "entry", id)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	for _, att := range attachments {
		if err := s.DeleteAttachment(ctx, att.ID); err != nil {
			return fmt.Errorf("delete attachment %s: %w", att.ID, err)
		}
	}

	if err := s.Entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceEntry, Action: ActionDeleted, ID: id, CardID: entry.CardID})
	return nil
}

// CountEntries returns the number of stored diary entries.
func (s *Store) CountEntries(ctx context.Context) (int, error) {
	return s.Entries.Count(ctx)
}
