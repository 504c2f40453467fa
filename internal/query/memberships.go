package query

import "github.com/cardchronicle/chronicle-server/internal/domain"

// CountMemberships returns the number of distinct collections containing
// the card. A linear scan is fine at this scale; collections are small
// and few.
func CountMemberships(collections []*domain.Collection, cardID string) int {
	count := 0
	for _, coll := range collections {
		if coll.ContainsCard(cardID) {
			count++
		}
	}
	return count
}
