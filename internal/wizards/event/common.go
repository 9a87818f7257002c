// internal/wizards/event/common.go

// Package event implements the guided commands that manage contest
// events: add-event, update-event and delete-event.
package event

import (
	"context"

	"contest-console/internal/common/logger"
	"contest-console/internal/common/validation"
	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

const dateLayout = "2006-01-02"

// Deps bundles the collaborators shared by the event handlers.
type Deps struct {
	Events  repository.EventRepository
	Entries repository.EntryRepository
	Votes   repository.VoteRepository
	Cascade *cascade.Deleter
	Logger  logger.Logger
}

// Definitions returns the event command table entries.
func Definitions(d Deps) []*wizard.Definition {
	return []*wizard.Definition{
		{
			Command:     "add-event",
			Category:    "Events",
			Description: "Create a new contest event",
			Steps:       []string{"name", "template", "voting_scheme", "event_date", "location", "confirm"},
			Handler:     &AddHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"name":          {Type: "string", MinLength: validation.IntPtr(2)},
					"template":      {Type: "integer"},
					"voting_scheme": {Type: "integer"},
					"event_date":    {Type: "string"},
					"location":      {Type: "string"},
					"confirm":       {Type: "boolean"},
				},
				Required:             []string{"name", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "update-event",
			Category:    "Events",
			Description: "Change a field on an existing event",
			Steps:       []string{"event", "field", "value", "confirm"},
			Handler:     &UpdateHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"event":   {Type: "integer"},
					"field":   {Type: "string", Enum: []string{"name", "status", "event_date", "location"}},
					"value":   {Type: "string", MinLength: validation.IntPtr(1)},
					"confirm": {Type: "boolean"},
				},
				Required:             []string{"event", "field", "value", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "delete-event",
			Category:    "Events",
			Description: "Delete an event together with its entries and votes",
			Steps:       []string{"event", "confirm"},
			Handler:     &DeleteHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"event":   {Type: "integer"},
					"confirm": {Type: "boolean"},
				},
				Required:             []string{"event", "confirm"},
				AdditionalProperties: true,
			},
		},
	}
}

func (d Deps) eventItems(ctx context.Context) ([]wizard.SelectionItem, error) {
	events, err := d.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]wizard.SelectionItem, 0, len(events))
	for _, e := range events {
		items = append(items, wizard.SelectionItem{ID: e.ID, Name: e.Name})
	}
	return items, nil
}

func templateItems(templates []*models.EventTemplate) []wizard.SelectionItem {
	items := make([]wizard.SelectionItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, wizard.SelectionItem{ID: t.ID, Name: t.Name})
	}
	return items
}

func schemeItems(schemes []*models.VotingScheme) []wizard.SelectionItem {
	items := make([]wizard.SelectionItem, 0, len(schemes))
	for _, s := range schemes {
		items = append(items, wizard.SelectionItem{ID: s.ID, Name: s.Name})
	}
	return items
}

const retryMessage = "Something went wrong while looking that up. Please try again."
