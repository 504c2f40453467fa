package query

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// SortMode orders a collection's cards.
type SortMode string

const (
	SortDateDesc SortMode = "date_desc"
	SortDateAsc  SortMode = "date_asc"
	SortNameAsc  SortMode = "name_asc"
	SortNameDesc SortMode = "name_desc"
)

// ParseSortMode maps a query-string value to a SortMode, defaulting to
// SortDateDesc (the client's default ordering).
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortDateAsc, SortNameAsc, SortNameDesc:
		return SortMode(s)
	default:
		return SortDateDesc
	}
}

// CollectionCard pairs a resolved catalog card with the time it was added
// to the collection.
type CollectionCard struct {
	Card    domain.Card
	AddedAt time.Time
}

// SortCollectionCards returns the pairs ordered by the given mode.
// A zero AddedAt sorts as "now" (most recent) in the date modes - the
// mobile client behaves this way for memberships recorded before the
// added-date field existed, and share links must list cards in the same
// order the user sees. Name comparison is case-insensitive.
func SortCollectionCards(pairs []CollectionCard, mode SortMode) []CollectionCard {
	return sortCollectionCardsAt(pairs, mode, time.Now())
}

// sortCollectionCardsAt is SortCollectionCards with an explicit "now",
// for deterministic tests.
func sortCollectionCardsAt(pairs []CollectionCard, mode SortMode, now time.Time) []CollectionCard {
	out := slices.Clone(pairs)

	switch mode {
	case SortDateDesc:
		slices.SortStableFunc(out, func(a, b CollectionCard) int {
			return addedAtOr(b, now).Compare(addedAtOr(a, now))
		})
	case SortDateAsc:
		slices.SortStableFunc(out, func(a, b CollectionCard) int {
			return addedAtOr(a, now).Compare(addedAtOr(b, now))
		})
	case SortNameAsc:
		c := nameCollator()
		slices.SortStableFunc(out, func(a, b CollectionCard) int {
			return c.CompareString(a.Card.Name, b.Card.Name)
		})
	case SortNameDesc:
		c := nameCollator()
		slices.SortStableFunc(out, func(a, b CollectionCard) int {
			return c.CompareString(b.Card.Name, a.Card.Name)
		})
	}

	return out
}

func addedAtOr(p CollectionCard, fallback time.Time) time.Time {
	if p.AddedAt.IsZero() {
		return fallback
	}
	return p.AddedAt
}

func nameCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}
