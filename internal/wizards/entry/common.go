// internal/wizards/entry/common.go

// Package entry implements the guided commands that manage competition
// entries: add-entry, update-entry and delete-entry. All three operate
// on the current event.
package entry

import (
	"context"
	"fmt"

	"contest-console/internal/common/logger"
	"contest-console/internal/common/validation"
	"contest-console/internal/repository"
	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// Deps bundles the collaborators shared by the entry handlers.
type Deps struct {
	Events       repository.EventRepository
	Participants repository.ParticipantRepository
	Divisions    repository.DivisionRepository
	Entries      repository.EntryRepository
	Votes        repository.VoteRepository
	Cascade      *cascade.Deleter
	Logger       logger.Logger
}

// Definitions returns the entry command table entries.
func Definitions(d Deps) []*wizard.Definition {
	return []*wizard.Definition{
		{
			Command:     "add-entry",
			Category:    "Entries",
			Description: "Register an entry for a participant in a division",
			Steps:       []string{"participant", "division", "name", "entry_type", "number", "confirm"},
			Handler:     &AddHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"participant": {Type: "integer"},
					"division":    {Type: "integer"},
					"name":        {Type: "string", MinLength: validation.IntPtr(2)},
					"entry_type":  {Type: "string"},
					"number":      {Type: "integer", Minimum: validation.FloatPtr(1)},
					"confirm":     {Type: "boolean"},
				},
				Required:             []string{"participant", "division", "name", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "update-entry",
			Category:    "Entries",
			Description: "Change a field on an entry",
			Steps:       []string{"entry", "field", "value", "confirm"},
			Handler:     &UpdateHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"entry":   {Type: "integer"},
					"field":   {Type: "string", Enum: []string{"name", "number", "entry_type"}},
					"value":   {Type: "string", MinLength: validation.IntPtr(1)},
					"confirm": {Type: "boolean"},
				},
				Required:             []string{"entry", "field", "value", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "delete-entry",
			Category:    "Entries",
			Description: "Delete an entry together with its votes",
			Steps:       []string{"entry", "confirm"},
			Handler:     &DeleteHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"entry":   {Type: "integer"},
					"confirm": {Type: "boolean"},
				},
				Required:             []string{"entry", "confirm"},
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

func (d Deps) divisionItems(ctx context.Context, fields map[string]interface{}) ([]wizard.SelectionItem, error) {
	eventID, ok := wizard.ScopeEvent(fields)
	if !ok {
		return nil, errNoCurrentEvent
	}
	divisions, err := d.Divisions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items := make([]wizard.SelectionItem, 0, len(divisions))
	for _, div := range divisions {
		items = append(items, wizard.SelectionItem{ID: div.ID, Name: div.Name, Code: div.Code})
	}
	return items, nil
}

func (d Deps) entryItems(ctx context.Context, fields map[string]interface{}) ([]wizard.SelectionItem, error) {
	eventID, ok := wizard.ScopeEvent(fields)
	if !ok {
		return nil, errNoCurrentEvent
	}
	entries, err := d.Entries.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items := make([]wizard.SelectionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, wizard.SelectionItem{
			ID:   e.ID,
			Name: e.Name,
			Code: fmt.Sprintf("#%d", e.Number),
		})
	}
	return items, nil
}

// entryTypes resolves the selectable entry-type labels from the current
// event's template. An event without a template accepts free-form types.
func (d Deps) entryTypes(ctx context.Context, fields map[string]interface{}) ([]string, error) {
	eventID, ok := wizard.ScopeEvent(fields)
	if !ok {
		return nil, errNoCurrentEvent
	}
	event, err := d.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.TemplateID == nil {
		return nil, nil
	}
	template, err := d.Events.FindTemplate(ctx, *event.TemplateID)
	if err != nil {
		return nil, err
	}
	return template.EntryTypes, nil
}

var errNoCurrentEvent = fmt.Errorf("no current event selected")

const (
	noEventMessage = "Pick a current event first, then try again."
	retryMessage   = "Something went wrong while looking that up. Please try again."
)
