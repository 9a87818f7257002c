package models

import "time"

// Participant represents a person or team competing in an event.
type Participant struct {
	ID           int64      `json:"id" db:"id"`
	EventID      int64      `json:"eventId" db:"event_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email,omitempty" db:"email"`
	Club         string     `json:"club,omitempty" db:"club"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	DeleteReason string     `json:"deleteReason,omitempty" db:"delete_reason"`
}

// Entry is one competing item (a dish, a brew, a performance) registered
// by a participant within a division.
type Entry struct {
	ID            int64      `json:"id" db:"id"`
	EventID       int64      `json:"eventId" db:"event_id"`
	DivisionID    int64      `json:"divisionId" db:"division_id"`
	ParticipantID int64      `json:"participantId" db:"participant_id"`
	Name          string     `json:"name" db:"name"`
	EntryType     string     `json:"entryType,omitempty" db:"entry_type"`
	Number        int        `json:"number" db:"number"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	DeleteReason  string     `json:"deleteReason,omitempty" db:"delete_reason"`
}

// Division groups entries that compete against each other.
type Division struct {
	ID           int64      `json:"id" db:"id"`
	EventID      int64      `json:"eventId" db:"event_id"`
	Code         string     `json:"code" db:"code"`
	Name         string     `json:"name" db:"name"`
	DivisionType string     `json:"divisionType" db:"division_type"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	DeleteReason string     `json:"deleteReason,omitempty" db:"delete_reason"`
}

// Vote is one ranked ballot line for an entry.
type Vote struct {
	ID           int64      `json:"id" db:"id"`
	EventID      int64      `json:"eventId" db:"event_id"`
	EntryID      int64      `json:"entryId" db:"entry_id"`
	VoterID      string     `json:"voterId" db:"voter_id"`
	Points       int        `json:"points" db:"points"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	DeleteReason string     `json:"deleteReason,omitempty" db:"delete_reason"`
}
