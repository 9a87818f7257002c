package models

import "time"

// EventStatus enumerates the lifecycle states of a contest event.
type EventStatus string

const (
	EventStatusDraft    EventStatus = "draft"
	EventStatusActive   EventStatus = "active"
	EventStatusFinished EventStatus = "finished"
)

// Event represents a contest/voting event.
type Event struct {
	ID           int64       `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Status       EventStatus `json:"status" db:"status"`
	EventDate    *time.Time  `json:"eventDate,omitempty" db:"event_date"`
	Location     string      `json:"location,omitempty" db:"location"`
	TemplateID   *int64      `json:"templateId,omitempty" db:"template_id"`
	VotingScheme *int64      `json:"votingSchemeId,omitempty" db:"voting_scheme_id"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time  `json:"deletedAt,omitempty" db:"deleted_at"`
	DeleteReason string      `json:"deleteReason,omitempty" db:"delete_reason"`
}

// IsActive reports whether the event accepts entries and votes.
func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive && e.DeletedAt == nil
}

// EventTemplate is a reusable blueprint for events: division types,
// entry categories and default labels.
type EventTemplate struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	DivisionTypes []string  `json:"divisionTypes" db:"division_types"`
	EntryTypes    []string  `json:"entryTypes" db:"entry_types"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// VotingScheme maps ranks to points, e.g. 1st=5, 2nd=3, 3rd=1.
type VotingScheme struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Points    []int     `json:"points" db:"points"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
