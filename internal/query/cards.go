// Package query implements the pure filtering and sorting engine shared by
// the API handlers. All functions here are synchronous, side-effect-free,
// and safe to call from any goroutine: they receive immutable snapshots and
// return fresh slices. Invalid or empty input yields empty or identity
// output, never an error - an unset filter means "everything", not a fault.
package query

import (
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// CardCriteria narrows a card list. All supplied criteria must match
// (logical AND); zero values mean "no constraint".
type CardCriteria struct {
	// SetID keeps only cards from the given set when non-empty.
	SetID string
	// Search keeps only cards whose name contains the text,
	// case-insensitively and locale-aware.
	Search string
	// DiaryOnly keeps only cards present in DiaryCardIDs.
	DiaryOnly bool
	// DiaryCardIDs is the set of card IDs that have at least one diary
	// entry. Callers build it once per query (see DiaryCardIDSet), not
	// per card.
	DiaryCardIDs map[string]struct{}
}

// DiaryCardIDSet collects the distinct card IDs referenced by entries.
// Build it once and reuse it for the whole filter pass.
func DiaryCardIDSet(entries []domain.DiaryEntry) map[string]struct{} {
	ids := make(map[string]struct{}, len(entries))
	for i := range entries {
		ids[entries[i].CardID] = struct{}{}
	}
	return ids
}

// FilterCards returns the cards matching all supplied criteria, in their
// original relative order. Empty criteria returns a copy of the input.
func FilterCards(cards []domain.Card, c CardCriteria) []domain.Card {
	matcher := newContainsMatcher(c.Search)

	out := make([]domain.Card, 0, len(cards))
	for i := range cards {
		card := &cards[i]

		if c.SetID != "" && card.SetID != c.SetID {
			continue
		}
		if !matcher.matches(card.Name) {
			continue
		}
		if c.DiaryOnly {
			if _, ok := c.DiaryCardIDs[card.ID]; !ok {
				continue
			}
		}

		out = append(out, *card)
	}
	return out
}

// containsMatcher performs locale-aware, case-insensitive substring
// matching. The pattern is compiled once per query so the per-item cost
// is a single index scan.
type containsMatcher struct {
	pattern *search.Pattern
}

func newContainsMatcher(text string) containsMatcher {
	if text == "" {
		return containsMatcher{}
	}
	m := search.New(language.Und, search.IgnoreCase)
	return containsMatcher{pattern: m.CompileString(text)}
}

// matches reports whether s contains the pattern. An empty pattern
// matches everything.
func (m containsMatcher) matches(s string) bool {
	if m.pattern == nil {
		return true
	}
	start, _ := m.pattern.IndexString(s)
	return start >= 0
}
