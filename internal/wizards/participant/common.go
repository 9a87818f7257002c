// internal/wizards/participant/common.go

// Package participant implements the guided commands that manage an
// event's participants: add-participant, update-participant and
// delete-participant. All three operate on the current event.
package participant

import (
	"context"
	"fmt"
	"strings"

	"contest-console/internal/common/logger"
	"contest-console/internal/common/validation"
	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// Deps bundles the collaborators shared by the participant handlers.
type Deps struct {
	Participants repository.ParticipantRepository
	Entries      repository.EntryRepository
	Votes        repository.VoteRepository
	Cascade      *cascade.Deleter
	Logger       logger.Logger
}

// Definitions returns the participant command table entries.
func Definitions(d Deps) []*wizard.Definition {
	return []*wizard.Definition{
		{
			Command:     "add-participant",
			Category:    "Participants",
			Description: "Register a participant in the current event",
			Steps:       []string{"name", "email", "club", "confirm"},
			Handler:     &AddHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"name":    {Type: "string", MinLength: validation.IntPtr(2)},
					"email":   {Type: "string"},
					"club":    {Type: "string"},
					"confirm": {Type: "boolean"},
				},
				Required:             []string{"name", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "update-participant",
			Category:    "Participants",
			Description: "Change a field on a participant",
			Steps:       []string{"participant", "field", "value", "confirm"},
			Handler:     &UpdateHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"participant": {Type: "integer"},
					"field":       {Type: "string", Enum: []string{"name", "email", "club"}},
					"value":       {Type: "string", MinLength: validation.IntPtr(1)},
					"confirm":     {Type: "boolean"},
				},
				Required:             []string{"participant", "field", "value", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "delete-participant",
			Category:    "Participants",
			Description: "Remove a participant together with their entries and votes",
			Steps:       []string{"participant", "confirm"},
			Handler:     &DeleteHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"participant": {Type: "integer"},
					"confirm":     {Type: "boolean"},
				},
				Required:             []string{"participant", "confirm"},
				AdditionalProperties: true,
			},
		},
	}
}

func (d Deps) participantItems(ctx context.Context, fields map[string]interface{}) ([]wizard.SelectionItem, error) {
	eventID, ok := wizard.ScopeEvent(fields)
	if !ok {
		return nil, errNoCurrentEvent
	}
	participants, err := d.Participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items := make([]wizard.SelectionItem, 0, len(participants))
	for _, p := range participants {
		items = append(items, wizard.SelectionItem{ID: p.ID, Name: p.Name})
	}
	return items, nil
}

// findCollider returns the live participant already holding the name
// within the event, excluding excludeID (0 to exclude nothing).
func (d Deps) findCollider(ctx context.Context, eventID int64, name string, excludeID int64) (*models.Participant, error) {
	participants, err := d.Participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		if p.ID != excludeID && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

var errNoCurrentEvent = fmt.Errorf("no current event selected")

const (
	noEventMessage = "Pick a current event first, then try again."
	retryMessage   = "Something went wrong while looking that up. Please try again."
)
