package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/errors"
	"github.com/cardchronicle/chronicle-server/internal/id"
	"github.com/cardchronicle/chronicle-server/internal/media/images"
	"github.com/cardchronicle/chronicle-server/internal/query"
	"github.com/cardchronicle/chronicle-server/internal/store"
	"github.com/cardchronicle/chronicle-server/internal/validation"
)

// EntryInput is the payload for creating or replacing a diary entry.
type EntryInput struct {
	CardID string    `json:"card_id" validate:"required"`
	Title  string    `json:"title"   validate:"required,max=25"`
	Text   string    `json:"text"    validate:"max=255"`
	Date   time.Time `json:"date,omitzero"`
}

// EntryFilter narrows the entry list. Date is "today", a YYYY-MM-DD day,
// or empty for no date filter.
type EntryFilter struct {
	Date   string
	Search string
}

// DiaryService manages diary entries and their image attachments.
type DiaryService struct {
	store     *store.Store
	catalog   *catalog.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewDiaryService creates a new diary service.
func NewDiaryService(st *store.Store, cat *catalog.Store, v *validation.Validator, logger *slog.Logger) *DiaryService {
	return &DiaryService{
		store:     st,
		catalog:   cat,
		validator: v,
		logger:    logger,
	}
}

// CreateEntry validates the input, enforces the free-tier cap, and
// persists a new entry. The card name is denormalized from the catalog at
// write time so entries render even when the catalog is unavailable; an
// unknown card ID is tolerated and leaves the name empty.
func (s *DiaryService) CreateEntry(ctx context.Context, input EntryInput) (*domain.DiaryEntry, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	ent, err := s.store.GetEntitlement(ctx)
	if err != nil {
		return nil, fmt.Errorf("get entitlement: %w", err)
	}
	count, err := s.store.CountEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	if !ent.AllowsEntry(count) {
		return nil, errors.LimitExceededf("free tier allows %d diary entries", ent.EntryLimit)
	}

	entry := &domain.DiaryEntry{
		ID:       id.NewUUID(),
		CardID:   input.CardID,
		CardName: s.cardName(input.CardID),
		Title:    input.Title,
		Text:     input.Text,
		Date:     input.Date,
		ImageIDs: []string{},
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("diary entry created",
		"entry_id", entry.ID,
		"card_id", entry.CardID,
	)
	return entry, nil
}

// GetEntry retrieves an entry by ID.
func (s *DiaryService) GetEntry(ctx context.Context, entryID string) (*domain.DiaryEntry, error) {
	return s.store.GetEntry(ctx, entryID)
}

// ListEntries returns entries matching the filter, newest first.
func (s *DiaryService) ListEntries(ctx context.Context, filter EntryFilter) ([]domain.DiaryEntry, error) {
	stored, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.DiaryEntry, len(stored))
	for i, e := range stored {
		entries[i] = *e
	}

	criteria := query.EntryCriteria{Search: filter.Search}
	switch filter.Date {
	case "":
		criteria.Mode = query.DateAny
	case "today":
		criteria.Mode = query.DateToday
	default:
		day, err := time.ParseInLocation("2006-01-02", filter.Date, time.Local)
		if err != nil {
			return nil, errors.Validation("date must be \"today\" or YYYY-MM-DD")
		}
		criteria.Mode = query.DateOn
		criteria.On = day
	}

	return query.FilterEntries(entries, criteria), nil
}

// UpdateEntry replaces an entry wholesale. Attachments are managed
// through the image operations and survive the replace.
func (s *DiaryService) UpdateEntry(ctx context.Context, entryID string, input EntryInput) (*domain.DiaryEntry, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	existing, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	entry := &domain.DiaryEntry{
		ID:       entryID,
		CardID:   input.CardID,
		CardName: s.cardName(input.CardID),
		Title:    input.Title,
		Text:     input.Text,
		Date:     input.Date,
		ImageIDs: existing.ImageIDs,
	}

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an entry and its attachments.
func (s *DiaryService) DeleteEntry(ctx context.Context, entryID string) error {
	if err := s.store.DeleteEntry(ctx, entryID); err != nil {
		return err
	}

	s.logger.Info("diary entry deleted", "entry_id", entryID)
	return nil
}

// AddImage attaches an uploaded image to an entry. At most
// domain.MaxImagesPerEntry images per entry; the cap is enforced here at
// input time, not by the store.
func (s *DiaryService) AddImage(ctx context.Context, entryID string, data []byte) (*domain.ImageAttachment, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if len(entry.ImageIDs) >= domain.MaxImagesPerEntry {
		return nil, errors.Validationf("an entry can hold at most %d images", domain.MaxImagesPerEntry)
	}

	info, err := images.Process(data)
	if err != nil {
		return nil, err
	}

	att := &domain.ImageAttachment{
		ID:          id.NewUUID(),
		EntryID:     entryID,
		ContentType: info.ContentType,
		BlurHash:    info.BlurHash,
		Width:       info.Width,
		Height:      info.Height,
	}

	if err := s.store.SaveAttachment(ctx, att, data); err != nil {
		return nil, err
	}

	entry.ImageIDs = append(entry.ImageIDs, att.ID)
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("image attached",
		"entry_id", entryID,
		"attachment_id", att.ID,
		"content_type", att.ContentType,
	)
	return att, nil
}

// GetImage returns attachment metadata and bytes for an entry's image.
func (s *DiaryService) GetImage(ctx context.Context, entryID, imageID string) (*domain.ImageAttachment, []byte, error) {
	att, err := s.store.GetAttachment(ctx, imageID)
	if err != nil {
		return nil, nil, err
	}
	if att.EntryID != entryID {
		return nil, nil, errors.NotFound("image not found on this entry")
	}

	data, err := s.store.GetAttachmentData(ctx, imageID)
	if err != nil {
		return nil, nil, err
	}
	return att, data, nil
}

// DeleteImage removes an image from an entry.
func (s *DiaryService) DeleteImage(ctx context.Context, entryID, imageID string) error {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	att, err := s.store.GetAttachment(ctx, imageID)
	if err != nil {
		return err
	}
	if att.EntryID != entryID {
		return errors.NotFound("image not found on this entry")
	}

	if err := s.store.DeleteAttachment(ctx, imageID); err != nil {
		return err
	}

	entry.ImageIDs = slices.DeleteFunc(entry.ImageIDs, func(id string) bool {
		return id == imageID
	})
	return s.store.UpdateEntry(ctx, entry)
}

// cardName resolves a card's display name, empty when the catalog does
// not know the card.
func (s *DiaryService) cardName(cardID string) string {
	if card, ok := s.catalog.Snapshot().CardByID(cardID); ok {
		return card.Name
	}
	return ""
}
