// internal/wizards/event/update.go
package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contest-console/internal/models"
	"contest-console/internal/wizard"
)

var eventFields = []string{"name", "status", "event_date", "location"}

var eventStatuses = []string{
	string(models.EventStatusDraft),
	string(models.EventStatusActive),
	string(models.EventStatusFinished),
}

// UpdateHandler changes one field on an existing event.
type UpdateHandler struct {
	d Deps
}

const (
	updateStepEvent = iota
	updateStepField
	updateStepValue
	updateStepConfirm
)

func (h *UpdateHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case updateStepEvent:
		return "Which event do you want to change?", nil
	case updateStepField:
		return "What do you want to change?", nil
	case updateStepValue:
		switch wizard.FieldString(fields, "field") {
		case "status":
			return "What should the new status be?", nil
		case "event_date":
			return "What is the new date? Use YYYY-MM-DD.", nil
		case "location":
			return "What is the new location?", nil
		default:
			return "What is the new name?", nil
		}
	case updateStepConfirm:
		return fmt.Sprintf("Set %s to %q? Answer \"yes\" to apply the change.",
			wizard.FieldString(fields, "field"), wizard.FieldString(fields, "value")), nil
	default:
		return "", fmt.Errorf("update-event has no step %d", step)
	}
}

func (h *UpdateHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	switch step {
	case updateStepEvent:
		items, err := h.d.eventItems(ctx)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(items)
	case updateStepField:
		return wizard.NumberedChoices(eventFields)
	case updateStepValue:
		if wizard.FieldString(fields, "field") == "status" {
			return wizard.NumberedChoices(eventStatuses)
		}
		return nil
	default:
		return nil
	}
}

func (h *UpdateHandler) CanSkipStep(step int) bool { return false }

func (h *UpdateHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) wizard.StepValidationResult {
	if input == nil {
		return wizard.Reject("Every step of this command needs an answer. Say \"cancel\" to stop instead.")
	}
	switch step {
	case updateStepEvent:
		items, err := h.d.eventItems(ctx)
		if err != nil {
			return wizard.Reject(retryMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case updateStepField:
		choice, miss := wizard.ResolveChoice(*input, eventFields)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(choice)

	case updateStepValue:
		value := strings.TrimSpace(*input)
		switch wizard.FieldString(fields, "field") {
		case "status":
			choice, miss := wizard.ResolveChoice(value, eventStatuses)
			if miss != "" {
				return wizard.Reject(miss)
			}
			return wizard.Accept(choice)
		case "event_date":
			if _, err := time.Parse(dateLayout, value); err != nil {
				return wizard.Reject("I couldn't read that date. Use YYYY-MM-DD.")
			}
			return wizard.Accept(value)
		default:
			if value == "" {
				return wizard.Reject("Please give a non-empty value.")
			}
			return wizard.Accept(value)
		}

	case updateStepConfirm:
		switch wizard.ParseConfirmation(*input, "update") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, the event stays as it is.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("apply the change"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *UpdateHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	eventID, _ := wizard.FieldInt64(fields, "event")
	field := wizard.FieldString(fields, "field")
	value := wizard.FieldString(fields, "value")

	update := map[string]interface{}{field: value}
	if field == "event_date" {
		date, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("stored date %q no longer parses: %w", value, err)
		}
		update[field] = date
	}

	if err := h.d.Events.Update(ctx, eventID, update); err != nil {
		return nil, err
	}
	h.d.Logger.Info("event updated", map[string]interface{}{
		"event_id": eventID,
		"field":    field,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Done. The event's %s is now %q.", field, value),
		FollowUps: []string{"update-event", "add-division"},
	}, nil
}
