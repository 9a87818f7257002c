// internal/wizards/division/common.go

// Package division implements the guided commands that manage an
// event's divisions: add-division, update-division and delete-division.
// All three operate on the current event.
package division

import (
	"context"
	"fmt"
	"regexp"

	"contest-console/internal/common/logger"
	"contest-console/internal/common/validation"
	"contest-console/internal/repository"
	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// Deps bundles the collaborators shared by the division handlers.
type Deps struct {
	Events    repository.EventRepository
	Divisions repository.DivisionRepository
	Entries   repository.EntryRepository
	Votes     repository.VoteRepository
	Cascade   *cascade.Deleter
	Logger    logger.Logger
}

// Definitions returns the division command table entries.
func Definitions(d Deps) []*wizard.Definition {
	return []*wizard.Definition{
		{
			Command:     "add-division",
			Category:    "Divisions",
			Description: "Create a division in the current event",
			Steps:       []string{"division_type", "code", "name", "confirm"},
			Handler:     &AddHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"division_type": {Type: "string", MinLength: validation.IntPtr(1)},
					"code":          {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(10)},
					"name":          {Type: "string", MinLength: validation.IntPtr(2)},
					"confirm":       {Type: "boolean"},
				},
				Required:             []string{"division_type", "code", "name", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "update-division",
			Category:    "Divisions",
			Description: "Change a field on a division",
			Steps:       []string{"division", "field", "value", "confirm"},
			Handler:     &UpdateHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"division": {Type: "integer"},
					"field":    {Type: "string", Enum: []string{"code", "name", "division_type"}},
					"value":    {Type: "string", MinLength: validation.IntPtr(1)},
					"confirm":  {Type: "boolean"},
				},
				Required:             []string{"division", "field", "value", "confirm"},
				AdditionalProperties: true,
			},
		},
		{
			Command:     "delete-division",
			Category:    "Divisions",
			Description: "Delete a division together with its entries and votes",
			Steps:       []string{"division", "confirm"},
			Handler:     &DeleteHandler{d: d},
			FieldSchema: validation.JSONSchema{
				Type: "object",
				Properties: map[string]validation.Property{
					"division": {Type: "integer"},
					"confirm":  {Type: "boolean"},
				},
				Required:             []string{"division", "confirm"},
				AdditionalProperties: true,
			},
		},
	}
}

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)

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

// divisionTypes resolves the selectable type labels from the current
// event's template. An event without a template accepts free-form types.
func (d Deps) divisionTypes(ctx context.Context, fields map[string]interface{}) ([]string, error) {
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
	return template.DivisionTypes, nil
}

var errNoCurrentEvent = fmt.Errorf("no current event selected")

const (
	noEventMessage = "Pick a current event first, then try again."
	retryMessage   = "Something went wrong while looking that up. Please try again."
)
