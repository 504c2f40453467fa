// Package domain defines the core entities for the Chronicle server:
// the remotely fetched card catalog, and the locally owned diary entries,
// favorites, and collections that reference it.
package domain

// Card is a single trading card from the remote catalog.
// Cards are immutable once fetched; the catalog is only ever replaced
// wholesale, never mutated in place.
type Card struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
	SetID         string `json:"set_id"`
}

// CardSet is a named set (expansion) a card belongs to.
type CardSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
