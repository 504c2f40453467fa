// Package sse streams store change notifications to connected clients
// over Server-Sent Events. Clients re-fetch affected resources when a
// change arrives; the stream carries identity, not state.
package sse

import (
	"time"

	"github.com/cardchronicle/chronicle-server/internal/store"
)

// EventType identifies an SSE event, e.g. "entry.created".
type EventType string

// EventHeartbeat keeps idle connections alive.
const EventHeartbeat EventType = "heartbeat"

// EventCatalogRefreshed announces a new catalog snapshot.
const EventCatalogRefreshed EventType = "catalog.refreshed"

// Event is the wire format for one SSE message.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	CardID    string    `json:"card_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{Type: EventHeartbeat, Timestamp: time.Now()}
}

// NewCatalogRefreshedEvent announces a catalog refresh.
func NewCatalogRefreshedEvent() Event {
	return Event{Type: EventCatalogRefreshed, Timestamp: time.Now()}
}

// fromChange converts a store change into its SSE event. The event type
// is "<resource>.<action>".
func fromChange(change store.ChangeEvent) Event {
	return Event{
		Type:      EventType(change.Resource + "." + string(change.Action)),
		ID:        change.ID,
		CardID:    change.CardID,
		Timestamp: time.Now(),
	}
}
