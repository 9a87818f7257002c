// internal/wizards/entry/update.go
package entry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"contest-console/internal/repository"
	"contest-console/internal/wizard"
)

var entryFields = []string{"name", "number", "entry_type"}

// UpdateHandler changes one field on an entry.
type UpdateHandler struct {
	d Deps
}

const (
	updateStepEntry = iota
	updateStepField
	updateStepValue
	updateStepConfirm
)

func (h *UpdateHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case updateStepEntry:
		return "Which entry do you want to change?", nil
	case updateStepField:
		return "What do you want to change?", nil
	case updateStepValue:
		return fmt.Sprintf("What is the new %s?", wizard.FieldString(fields, "field")), nil
	case updateStepConfirm:
		return fmt.Sprintf("Set %s to %q? Answer \"yes\" to apply the change.",
			wizard.FieldString(fields, "field"), wizard.FieldString(fields, "value")), nil
	default:
		return "", fmt.Errorf("update-entry has no step %d", step)
	}
}

func (h *UpdateHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	switch step {
	case updateStepEntry:
		items, err := h.d.entryItems(ctx, fields)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(items)
	case updateStepField:
		return wizard.NumberedChoices(entryFields)
	case updateStepValue:
		if wizard.FieldString(fields, "field") == "entry_type" {
			types, err := h.d.entryTypes(ctx, fields)
			if err == nil && len(types) > 0 {
				return wizard.NumberedChoices(types)
			}
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
	case updateStepEntry:
		items, err := h.d.entryItems(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case updateStepField:
		choice, miss := wizard.ResolveChoice(*input, entryFields)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(choice)

	case updateStepValue:
		value := strings.TrimSpace(*input)
		if value == "" {
			return wizard.Reject("Please give a non-empty value.")
		}
		switch wizard.FieldString(fields, "field") {
		case "number":
			number, err := strconv.Atoi(value)
			if err != nil || number < 1 {
				return wizard.Reject("Entry numbers are positive integers.")
			}
			entryID, _ := wizard.FieldInt64(fields, "entry")
			current, err := h.d.Entries.FindByID(ctx, entryID)
			if err != nil {
				return wizard.Reject(retryMessage)
			}
			collider, err := h.d.Entries.FindByNumber(ctx, current.DivisionID, number, entryID)
			switch {
			case err == nil:
				return wizard.Reject(fmt.Sprintf("number %d is already used by %s.", number, collider.Name))
			case errors.Is(err, repository.ErrNotFound):
				return wizard.Accept(value)
			default:
				return wizard.Reject(retryMessage)
			}
		case "entry_type":
			types, err := h.d.entryTypes(ctx, fields)
			if err == nil && len(types) > 0 {
				choice, miss := wizard.ResolveChoice(value, types)
				if miss != "" {
					return wizard.Reject(miss)
				}
				return wizard.Accept(choice)
			}
		}
		return wizard.Accept(value)

	case updateStepConfirm:
		switch wizard.ParseConfirmation(*input, "update") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, nothing was changed.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("apply the change"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *UpdateHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	entryID, _ := wizard.FieldInt64(fields, "entry")
	field := wizard.FieldString(fields, "field")
	value := wizard.FieldString(fields, "value")

	update := map[string]interface{}{field: value}
	if field == "number" {
		number, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("stored number %q no longer parses: %w", value, err)
		}
		update[field] = number
	}

	if err := h.d.Entries.Update(ctx, entryID, update); err != nil {
		return nil, err
	}
	h.d.Logger.Info("entry updated", map[string]interface{}{
		"entry_id": entryID,
		"field":    field,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Done. The entry's %s is now %q.", field, value),
		FollowUps: []string{"update-entry", "add-entry"},
	}, nil
}
