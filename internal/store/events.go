package store

// ChangeAction describes what happened to a resource.
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// Resource names used in change events.
const (
	ResourceEntry      = "entry"
	ResourceAttachment = "attachment"
	ResourceFavorite   = "favorite"
	ResourceCollection = "collection"
)

// ChangeEvent is broadcast after a store write commits. Clients re-fetch
// the affected resource; the event carries identity, not state.
type ChangeEvent struct {
	Resource string       `json:"resource"`
	Action   ChangeAction `json:"action"`
	ID       string       `json:"id"`
	// CardID is set for entry and favorite changes so card views can
	// refresh their diary indicators without a lookup.
	CardID string `json:"card_id,omitempty"`
}
