// internal/wizards/entry/add.go
package entry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"contest-console/internal/models"
	"contest-console/internal/repository"
	"contest-console/internal/wizard"
)

// AddHandler registers an entry for a participant in a division. The
// entry number is unique within the division; left unset it is assigned
// as the highest existing number in the division/type bucket plus one.
type AddHandler struct {
	d Deps
}

const (
	addStepParticipant = iota
	addStepDivision
	addStepName
	addStepType
	addStepNumber
	addStepConfirm
)

func (h *AddHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	if _, ok := wizard.ScopeEvent(fields); !ok {
		return "", errNoCurrentEvent
	}
	switch step {
	case addStepParticipant:
		return "Whose entry is this?", nil
	case addStepDivision:
		return "Which division does it compete in?", nil
	case addStepName:
		return "What is the entry called?", nil
	case addStepType:
		return "What type of entry is it? Say \"skip\" if unsure.", nil
	case addStepNumber:
		return "Which entry number should it get? Say \"skip\" to assign the next free number.", nil
	case addStepConfirm:
		number := "auto-assigned"
		if n, ok := wizard.FieldInt64(fields, "number"); ok {
			number = strconv.FormatInt(n, 10)
		}
		return fmt.Sprintf("Register entry %q with number %s? Answer \"yes\" to register it.",
			wizard.FieldString(fields, "name"), number), nil
	default:
		return "", fmt.Errorf("add-entry has no step %d", step)
	}
}

func (h *AddHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	switch step {
	case addStepParticipant:
		items, err := h.d.participantItems(ctx, fields)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(items)
	case addStepDivision:
		items, err := h.d.divisionItems(ctx, fields)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(items)
	case addStepType:
		types, err := h.d.entryTypes(ctx, fields)
		if err != nil || len(types) == 0 {
			return nil
		}
		return wizard.NumberedChoices(types)
	default:
		return nil
	}
}

func (h *AddHandler) CanSkipStep(step int) bool {
	return step == addStepType || step == addStepNumber
}

func (h *AddHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) wizard.StepValidationResult {
	if input == nil {
		switch step {
		case addStepParticipant, addStepDivision:
			return wizard.Reject("Pick one of the listed records; this step can't be skipped.")
		case addStepName:
			return wizard.Reject("The entry name is required and can't be skipped.")
		case addStepConfirm:
			return wizard.Reject(wizard.ConfirmationHint("register the entry"))
		}
	}

	switch step {
	case addStepParticipant:
		items, err := h.d.participantItems(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case addStepDivision:
		items, err := h.d.divisionItems(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case addStepName:
		name := strings.TrimSpace(*input)
		if len(name) < 2 {
			return wizard.Reject("The entry needs a name of at least 2 characters.")
		}
		return wizard.Accept(name)

	case addStepType:
		if input == nil {
			return wizard.Accept(nil)
		}
		types, err := h.d.entryTypes(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
		}
		if len(types) == 0 {
			value := strings.TrimSpace(*input)
			if value == "" {
				return wizard.Reject("Please name the entry type, or say \"skip\".")
			}
			return wizard.Accept(value)
		}
		choice, miss := wizard.ResolveChoice(*input, types)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(choice)

	case addStepNumber:
		if input == nil {
			return wizard.Accept(nil)
		}
		number, err := strconv.Atoi(strings.TrimSpace(*input))
		if err != nil || number < 1 {
			return wizard.Reject("Entry numbers are positive integers. Try again, or say \"skip\".")
		}
		divisionID, _ := wizard.FieldInt64(fields, "division")
		collider, err := h.d.Entries.FindByNumber(ctx, divisionID, number, 0)
		switch {
		case err == nil:
			return wizard.Reject(fmt.Sprintf("number %d is already used by %s.", number, collider.Name))
		case errors.Is(err, repository.ErrNotFound):
			return wizard.Accept(number)
		default:
			return wizard.Reject(retryMessage)
		}

	case addStepConfirm:
		switch wizard.ParseConfirmation(*input, "register") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, I won't register the entry.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("register the entry"))
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
	participantID, _ := wizard.FieldInt64(fields, "participant")
	divisionID, _ := wizard.FieldInt64(fields, "division")
	entryType := wizard.FieldString(fields, "entry_type")

	number, hasNumber := wizard.FieldInt64(fields, "number")
	if !hasNumber {
		max, err := h.d.Entries.MaxNumber(ctx, divisionID, entryType)
		if err != nil {
			return nil, err
		}
		number = int64(max) + 1
	}

	created, err := h.d.Entries.Create(ctx, &models.Entry{
		EventID:       eventID,
		DivisionID:    divisionID,
		ParticipantID: participantID,
		Name:          wizard.FieldString(fields, "name"),
		EntryType:     entryType,
		Number:        int(number),
	})
	if err != nil {
		return nil, err
	}
	h.d.Logger.Info("entry registered", map[string]interface{}{
		"entry_id":    created.ID,
		"division_id": divisionID,
		"number":      created.Number,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Registered entry #%d %q (ID %d).", created.Number, created.Name, created.ID),
		FollowUps: []string{"add-entry", "update-entry"},
	}, nil
}
