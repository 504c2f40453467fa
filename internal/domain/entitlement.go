package domain

import "time"

// Free-tier caps.
const (
	FreeEntryLimit      = 10
	FreeCollectionLimit = 3
)

// Entitlement records the lifetime-unlock purchase state.
// The free tier caps diary entries and collections; a recorded unlock
// removes both caps. Receipt validation stays on the client - the server
// only stores and reports the state.
type Entitlement struct {
	UnlockedAt      time.Time `json:"unlocked_at,omitzero"`
	LifetimeUnlock  bool      `json:"lifetime_unlock"`
	EntryLimit      int       `json:"entry_limit"`
	CollectionLimit int       `json:"collection_limit"`
}

// DefaultEntitlement returns the free-tier state.
func DefaultEntitlement() Entitlement {
	return Entitlement{
		EntryLimit:      FreeEntryLimit,
		CollectionLimit: FreeCollectionLimit,
	}
}

// AllowsEntry reports whether another diary entry may be created given
// the current count.
func (e *Entitlement) AllowsEntry(current int) bool {
	return e.LifetimeUnlock || current < e.EntryLimit
}

// AllowsCollection reports whether another collection may be created
// given the current count.
func (e *Entitlement) AllowsCollection(current int) bool {
	return e.LifetimeUnlock || current < e.CollectionLimit
}
