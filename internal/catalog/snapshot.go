package catalog

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// Snapshot is an immutable view of the catalog. A snapshot is built once
// and never mutated; readers hold it without locking. Cards and sets may
// be loaded independently, so either side can be empty while the other
// is populated.
type Snapshot struct {
	cards    []domain.Card
	sets     []domain.CardSet
	cardByID map[string]*domain.Card
	setName  map[string]string
}

// NewSnapshot builds a snapshot from raw upstream data. Cards are sorted
// by name case-insensitively; sets are reversed so the newest set comes
// first, matching upstream order which is oldest-first.
func NewSnapshot(cards []domain.Card, sets []domain.CardSet) *Snapshot {
	sortedCards := slices.Clone(cards)
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(sortedCards, func(a, b domain.Card) int {
		return c.CompareString(a.Name, b.Name)
	})

	reversedSets := slices.Clone(sets)
	slices.Reverse(reversedSets)

	byID := make(map[string]*domain.Card, len(sortedCards))
	for i := range sortedCards {
		byID[sortedCards[i].ID] = &sortedCards[i]
	}

	names := make(map[string]string, len(reversedSets))
	for _, s := range reversedSets {
		names[s.ID] = s.Name
	}

	return &Snapshot{
		cards:    sortedCards,
		sets:     reversedSets,
		cardByID: byID,
		setName:  names,
	}
}

// Cards returns all cards sorted by name. Callers must not modify the
// returned slice.
func (s *Snapshot) Cards() []domain.Card {
	return s.cards
}

// Sets returns all sets, newest first. Callers must not modify the
// returned slice.
func (s *Snapshot) Sets() []domain.CardSet {
	return s.sets
}

// CardByID looks up a card. The second return is false when the card is
// not in the catalog.
func (s *Snapshot) CardByID(id string) (domain.Card, bool) {
	card, ok := s.cardByID[id]
	if !ok {
		return domain.Card{}, false
	}
	return *card, true
}

// SetName resolves a set ID to its display name. Returns "" when the set
// list has not loaded the set yet; cards render with an empty set name in
// that case rather than failing.
func (s *Snapshot) SetName(setID string) string {
	return s.setName[setID]
}

// CardCount returns the number of cards in the snapshot.
func (s *Snapshot) CardCount() int {
	return len(s.cards)
}

// SetCount returns the number of sets in the snapshot.
func (s *Snapshot) SetCount() int {
	return len(s.sets)
}
