// internal/wizards/division/add.go
package division

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/wizard"
)

// AddHandler creates a division in the current event.
type AddHandler struct {
	d Deps
}

const (
	addStepType = iota
	addStepCode
	addStepName
	addStepConfirm
)

func (h *AddHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	if _, ok := wizard.ScopeEvent(fields); !ok {
		return "", errNoCurrentEvent
	}
	switch step {
	case addStepType:
		return "What type of division is this?", nil
	case addStepCode:
		return "What short code should the division use? For example P or AM.", nil
	case addStepName:
		return "What should the division be called?", nil
	case addStepConfirm:
		return fmt.Sprintf("Create division [%s] %q (%s)? Answer \"yes\" to create it.",
			wizard.FieldString(fields, "code"),
			wizard.FieldString(fields, "name"),
			wizard.FieldString(fields, "division_type")), nil
	default:
		return "", fmt.Errorf("add-division has no step %d", step)
	}
}

func (h *AddHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	if step != addStepType {
		return nil
	}
	types, err := h.d.divisionTypes(ctx, fields)
	if err != nil || len(types) == 0 {
		return nil
	}
	return wizard.NumberedChoices(types)
}

func (h *AddHandler) CanSkipStep(step int) bool { return false }

func (h *AddHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) wizard.StepValidationResult {
	if input == nil {
		return wizard.Reject("Every step of this command needs an answer. Say \"cancel\" to stop instead.")
	}
	switch step {
	case addStepType:
		types, err := h.d.divisionTypes(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		if len(types) == 0 {
			value := strings.TrimSpace(*input)
			if value == "" {
				return wizard.Reject("Please name the division type.")
			}
			return wizard.Accept(value)
		}
		choice, miss := wizard.ResolveChoice(*input, types)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(choice)

	case addStepCode:
		code := strings.ToUpper(strings.TrimSpace(*input))
		if !codePattern.MatchString(code) {
			return wizard.Reject("Codes are 1-10 letters or digits, like P or AM2.")
		}
		eventID, ok := wizard.ScopeEvent(fields)
		if !ok {
			return wizard.Reject(noEventMessage)
		}
		collider, err := h.d.Divisions.FindByCode(ctx, eventID, code, 0)
		switch {
		case err == nil:
			return wizard.Reject(fmt.Sprintf("code %q is already used by %s.", code, collider.Name))
		case errors.Is(err, repository.ErrNotFound):
			return wizard.Accept(code)
		default:
			return wizard.Reject(retryMessage)
		}

	case addStepName:
		name := strings.TrimSpace(*input)
		if len(name) < 2 {
			return wizard.Reject("The division needs a name of at least 2 characters.")
		}
		return wizard.Accept(name)

	case addStepConfirm:
		switch wizard.ParseConfirmation(*input, "create") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, I won't create the division.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("create the division"))
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

	created, err := h.d.Divisions.Create(ctx, &models.Division{
		EventID:      eventID,
		Code:         wizard.FieldString(fields, "code"),
		Name:         wizard.FieldString(fields, "name"),
		DivisionType: wizard.FieldString(fields, "division_type"),
	})
	if err != nil {
		return nil, err
	}
	h.d.Logger.Info("division created", map[string]interface{}{
		"division_id": created.ID,
		"event_id":    eventID,
		"code":        created.Code,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Created division [%s] %q (ID %d).", created.Code, created.Name, created.ID),
		FollowUps: []string{"add-entry", "add-division"},
	}, nil
}
