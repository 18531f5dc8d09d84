package model

import "github.com/google/uuid"

// ChangeType 資料列異動類型
type ChangeType string

const (
	ChangeInserted ChangeType = "inserted"
	ChangeUpdated  ChangeType = "updated"
	ChangeDeleted  ChangeType = "deleted"
)

// RSVPChange is a change notification for one rsvps row, scoped to its event.
// For deletions Row carries at least the id.
type RSVPChange struct {
	Type    ChangeType `json:"type"`
	EventID uuid.UUID  `json:"event_id"`
	Row     *RSVP      `json:"row"`
}
