package domain

import "time"

// Favorite marks a single card as favorited.
// At most one favorite exists per card; toggling an existing favorite
// removes it. The card itself may not be loaded in the catalog yet -
// dangling card IDs are tolerated and simply not rendered.
type Favorite struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
}
