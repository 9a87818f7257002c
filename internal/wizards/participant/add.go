// internal/wizards/participant/add.go
package participant

import (
	"context"
	"fmt"
	"strings"

	"contest-console/internal/models"
	"contest-console/internal/wizard"
)

// AddHandler registers a participant in the current event.
type AddHandler struct {
	d Deps
}

const (
	addStepName = iota
	addStepEmail
	addStepClub
	addStepConfirm
)

func (h *AddHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	if _, ok := wizard.ScopeEvent(fields); !ok {
		return "", errNoCurrentEvent
	}
	switch step {
	case addStepName:
		return "What is the participant's name?", nil
	case addStepEmail:
		return "What is their email address? Say \"skip\" if unknown.", nil
	case addStepClub:
		return "Which club or team do they belong to? Say \"skip\" for none.", nil
	case addStepConfirm:
		return fmt.Sprintf("Register %q in the current event? Answer \"yes\" to add them.",
			wizard.FieldString(fields, "name")), nil
	default:
		return "", fmt.Errorf("add-participant has no step %d", step)
	}
}

func (h *AddHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	return nil
}

func (h *AddHandler) CanSkipStep(step int) bool {
	return step == addStepEmail || step == addStepClub
}

func (h *AddHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) wizard.StepValidationResult {
	if input == nil {
		switch step {
		case addStepName:
			return wizard.Reject("A participant name is required and can't be skipped.")
		case addStepConfirm:
			return wizard.Reject(wizard.ConfirmationHint("register the participant"))
		}
	}

	switch step {
	case addStepName:
		name := strings.TrimSpace(*input)
		if len(name) < 2 {
			return wizard.Reject("The participant needs a name of at least 2 characters.")
		}
		eventID, ok := wizard.ScopeEvent(fields)
		if !ok {
			return wizard.Reject(noEventMessage)
		}
		collider, err := h.d.findCollider(ctx, eventID, name, 0)
		if err != nil {
			return wizard.Reject(retryMessage)
		}
		if collider != nil {
			return wizard.Reject(fmt.Sprintf("name %q is already used by %s.", name, collider.Name))
		}
		return wizard.Accept(name)

	case addStepEmail:
		if input == nil {
			return wizard.Accept(nil)
		}
		email := strings.TrimSpace(*input)
		if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
			return wizard.Reject("That doesn't look like an email address. Try again, or say \"skip\".")
		}
		return wizard.Accept(email)

	case addStepClub:
		if input == nil {
			return wizard.Accept(nil)
		}
		club := strings.TrimSpace(*input)
		if club == "" {
			return wizard.Reject("Please name a club, or say \"skip\".")
		}
		return wizard.Accept(club)

	case addStepConfirm:
		switch wizard.ParseConfirmation(*input, "add") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, I won't register them.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("register the participant"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *AddHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	eventID, ok := wizard.ScopeEvent(fields)
	if !ok {
		return nil, errNoCurrentEvent
	}

	created, err := h.d.Participants.Create(ctx, &models.Participant{
		EventID: eventID,
		Name:    wizard.FieldString(fields, "name"),
		Email:   wizard.FieldString(fields, "email"),
		Club:    wizard.FieldString(fields, "club"),
	})
	if err != nil {
		return nil, err
	}
	h.d.Logger.Info("participant registered", map[string]interface{}{
		"participant_id": created.ID,
		"event_id":       eventID,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Registered %q (ID %d).", created.Name, created.ID),
		FollowUps: []string{"add-entry", "add-participant"},
	}, nil
}
