package domain

import "time"

// Limits enforced when an entry is created or edited. These mirror the
// input caps of the mobile client, so content written on either side
// round-trips without truncation.
const (
	EntryTitleMaxLen  = 25
	EntryTextMaxLen   = 255
	MaxImagesPerEntry = 3
)

// DiaryEntry is a user-authored note attached to one card.
// The card name is denormalized at save time so entries stay renderable
// and searchable while the catalog is still loading.
type DiaryEntry struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Date      time.Time `json:"date"`
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	CardName  string    `json:"card_name"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	ImageIDs  []string  `json:"image_ids"`
}

// HasDate reports whether the entry carries a usable date.
// Entries without one never match day-based filters.
func (e *DiaryEntry) HasDate() bool {
	return !e.Date.IsZero()
}

// ImageAttachment is metadata for one photo owned by a diary entry.
// The binary blob is stored separately; an attachment never outlives
// its parent entry.
type ImageAttachment struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	EntryID     string    `json:"entry_id"`
	ContentType string    `json:"content_type"`
	BlurHash    string    `json:"blur_hash"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Size        int64     `json:"size"`
}
