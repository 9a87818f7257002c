// internal/wizards/participant/update.go
package participant

import (
	"context"
	"fmt"
	"strings"

	"contest-console/internal/wizard"
)

var participantFields = []string{"name", "email", "club"}

// UpdateHandler changes one field on a participant.
type UpdateHandler struct {
	d Deps
}

const (
	updateStepParticipant = iota
	updateStepField
	updateStepValue
	updateStepConfirm
)

func (h *UpdateHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case updateStepParticipant:
		return "Which participant do you want to change?", nil
	case updateStepField:
		return "What do you want to change?", nil
	case updateStepValue:
		return fmt.Sprintf("What is the new %s?", wizard.FieldString(fields, "field")), nil
	case updateStepConfirm:
		return fmt.Sprintf("Set %s to %q? Answer \"yes\" to apply the change.",
			wizard.FieldString(fields, "field"), wizard.FieldString(fields, "value")), nil
	default:
		return "", fmt.Errorf("update-participant has no step %d", step)
	}
}

func (h *UpdateHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	switch step {
	case updateStepParticipant:
		items, err := h.d.participantItems(ctx, fields)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(items)
	case updateStepField:
		return wizard.NumberedChoices(participantFields)
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
	case updateStepParticipant:
		items, err := h.d.participantItems(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case updateStepField:
		choice, miss := wizard.ResolveChoice(*input, participantFields)
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
		case "email":
			if !strings.Contains(value, "@") {
				return wizard.Reject("That doesn't look like an email address.")
			}
		case "name":
			eventID, ok := wizard.ScopeEvent(fields)
			if !ok {
				return wizard.Reject(noEventMessage)
			}
			participantID, _ := wizard.FieldInt64(fields, "participant")
			collider, err := h.d.findCollider(ctx, eventID, value, participantID)
			if err != nil {
				return wizard.Reject(retryMessage)
			}
			if collider != nil {
				return wizard.Reject(fmt.Sprintf("name %q is already used by %s.", value, collider.Name))
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
	participantID, _ := wizard.FieldInt64(fields, "participant")
	field := wizard.FieldString(fields, "field")
	value := wizard.FieldString(fields, "value")

	if err := h.d.Participants.Update(ctx, participantID, map[string]interface{}{field: value}); err != nil {
		return nil, err
	}
	h.d.Logger.Info("participant updated", map[string]interface{}{
		"participant_id": participantID,
		"field":          field,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Done. The participant's %s is now %q.", field, value),
		FollowUps: []string{"update-participant", "add-entry"},
	}, nil
}
