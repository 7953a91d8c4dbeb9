package models

import "time"

// ActionType classifies a logged change.
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// Valid reports whether a is a known action.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// ActivityLog records who changed what field of which entity, from what
// value to what value, and when. The ID is assigned by the store on
// creation and never mutated afterwards.
type ActivityLog struct {
	ID               string      `json:"id"`
	Action           ActionType  `json:"action"`
	EntityType       string      `json:"entityType"`
	EntityID         string      `json:"entityId"`
	FieldKey         *FieldValue `json:"fieldKey,omitempty"`
	FieldValueBefore *FieldValue `json:"fieldValueBefore,omitempty"`
	FieldValueAfter  *FieldValue `json:"fieldValueAfter,omitempty"`
	CreatedByID      string      `json:"createdById"`
	CreatedByName    string      `json:"createdByName"`
	CreatedAt        time.Time   `json:"createdAt"`
}
