package query

import (
	"time"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// DateMode selects how entry dates are filtered.
type DateMode int

const (
	// DateAny applies no date filter.
	DateAny DateMode = iota
	// DateToday keeps entries from the current calendar day.
	DateToday
	// DateOn keeps entries from the same calendar day as EntryCriteria.On.
	DateOn
)

// EntryCriteria narrows a diary entry list.
type EntryCriteria struct {
	// Mode selects the date filter. Entries without a date never match
	// DateToday or DateOn.
	Mode DateMode
	// On is the reference day for DateOn.
	On time.Time
	// Search keeps entries whose title, text, or card name contains the
	// text, case-insensitively.
	Search string
	// Location is the calendar used for day comparison. "Today" is a
	// user-facing notion, so this defaults to the server's local zone
	// rather than UTC.
	Location *time.Location
	// Now overrides the current time, for tests. Nil means time.Now.
	Now func() time.Time
}

// FilterEntries returns the entries matching the criteria, preserving
// input order.
func FilterEntries(entries []domain.DiaryEntry, c EntryCriteria) []domain.DiaryEntry {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}

	var reference time.Time
	switch c.Mode {
	case DateToday:
		if c.Now != nil {
			reference = c.Now()
		} else {
			reference = time.Now()
		}
	case DateOn:
		reference = c.On
	}

	matcher := newContainsMatcher(c.Search)

	out := make([]domain.DiaryEntry, 0, len(entries))
	for i := range entries {
		entry := &entries[i]

		if c.Mode != DateAny {
			// A missing date is filtered out, not an error.
			if !entry.HasDate() || !sameDay(entry.Date, reference, loc) {
				continue
			}
		}

		if c.Search != "" &&
			!matcher.matches(entry.Title) &&
			!matcher.matches(entry.Text) &&
			!matcher.matches(entry.CardName) {
			continue
		}

		out = append(out, *entry)
	}
	return out
}

// sameDay reports whether a and b fall on the same calendar day in loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
