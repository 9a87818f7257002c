// internal/wizards/division/update.go
package division

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contest-console/internal/repository"
	"contest-console/internal/wizard"
)

var divisionFields = []string{"code", "name", "division_type"}

// UpdateHandler changes one field on a division.
type UpdateHandler struct {
	d Deps
}

const (
	updateStepDivision = iota
	updateStepField
	updateStepValue
	updateStepConfirm
)

func (h *UpdateHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case updateStepDivision:
		return "Which division do you want to change?", nil
	case updateStepField:
		return "What do you want to change?", nil
	case updateStepValue:
		return fmt.Sprintf("What is the new %s?", wizard.FieldString(fields, "field")), nil
	case updateStepConfirm:
		return fmt.Sprintf("Set %s to %q? Answer \"yes\" to apply the change.",
			wizard.FieldString(fields, "field"), wizard.FieldString(fields, "value")), nil
	default:
		return "", fmt.Errorf("update-division has no step %d", step)
	}
}

func (h *UpdateHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	switch step {
	case updateStepDivision:
		items, err := h.d.divisionItems(ctx, fields)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(items)
	case updateStepField:
		return wizard.NumberedChoices(divisionFields)
	case updateStepValue:
		if wizard.FieldString(fields, "field") == "division_type" {
			types, err := h.d.divisionTypes(ctx, fields)
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
	case updateStepDivision:
		items, err := h.d.divisionItems(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case updateStepField:
		choice, miss := wizard.ResolveChoice(*input, divisionFields)
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
		case "code":
			code := strings.ToUpper(value)
			if !codePattern.MatchString(code) {
				return wizard.Reject("Codes are 1-10 letters or digits, like P or AM2.")
			}
			eventID, ok := wizard.ScopeEvent(fields)
			if !ok {
				return wizard.Reject(noEventMessage)
			}
			divisionID, _ := wizard.FieldInt64(fields, "division")
			collider, err := h.d.Divisions.FindByCode(ctx, eventID, code, divisionID)
			switch {
			case err == nil:
				return wizard.Reject(fmt.Sprintf("code %q is already used by %s.", code, collider.Name))
			case errors.Is(err, repository.ErrNotFound):
				return wizard.Accept(code)
			default:
				return wizard.Reject(retryMessage)
			}
		case "division_type":
			types, err := h.d.divisionTypes(ctx, fields)
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
	divisionID, _ := wizard.FieldInt64(fields, "division")
	field := wizard.FieldString(fields, "field")
	value := wizard.FieldString(fields, "value")

	if err := h.d.Divisions.Update(ctx, divisionID, map[string]interface{}{field: value}); err != nil {
		return nil, err
	}
	h.d.Logger.Info("division updated", map[string]interface{}{
		"division_id": divisionID,
		"field":       field,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Done. The division's %s is now %q.", field, value),
		FollowUps: []string{"update-division", "add-entry"},
	}, nil
}
