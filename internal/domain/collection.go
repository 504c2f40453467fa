package domain

import (
	"slices"
	"time"
)

// CollectionMember records one card's membership in a collection,
// with the time it was added (used for date-ordered display).
type CollectionMember struct {
	AddedAt time.Time `json:"added_at"`
	CardID  string    `json:"card_id"`
}

// Collection is a user-named group of cards with a free-text description.
// Once shared, ShareID holds the opaque token the sharing endpoint
// allocated; nothing ever clears it - subsequent shares update the same
// remote record.
type Collection struct {
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	About     string             `json:"about"`
	ShareID   string             `json:"share_id,omitempty"`
	Members   []CollectionMember `json:"members"`
}

// AddCard adds a card to the collection if not already present.
// Returns false if the card was already a member.
func (c *Collection) AddCard(cardID string, at time.Time) bool {
	if c.ContainsCard(cardID) {
		return false
	}
	c.Members = append(c.Members, CollectionMember{CardID: cardID, AddedAt: at})
	return true
}

// RemoveCard removes a card from the collection.
// Returns false if the card was not a member.
func (c *Collection) RemoveCard(cardID string) bool {
	before := len(c.Members)
	c.Members = slices.DeleteFunc(c.Members, func(m CollectionMember) bool {
		return m.CardID == cardID
	})
	return len(c.Members) != before
}

// ContainsCard checks if a card is in this collection.
func (c *Collection) ContainsCard(cardID string) bool {
	return slices.ContainsFunc(c.Members, func(m CollectionMember) bool {
		return m.CardID == cardID
	})
}

// CardIDs returns the member card IDs in insertion order.
func (c *Collection) CardIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.CardID
	}
	return ids
}

// IsShared reports whether the collection has been published to the
// sharing endpoint.
func (c *Collection) IsShared() bool {
	return c.ShareID != ""
}
