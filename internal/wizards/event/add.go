// internal/wizards/event/add.go
package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contest-console/internal/models"
	"contest-console/internal/wizard"
)

// AddHandler collects the fields for a new event and creates it as a
// draft.
type AddHandler struct {
	d Deps
}

const (
	addStepName = iota
	addStepTemplate
	addStepScheme
	addStepDate
	addStepLocation
	addStepConfirm
)

func (h *AddHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case addStepName:
		return "What should the event be called?", nil
	case addStepTemplate:
		return "Which template should the event use? Say \"skip\" for none.", nil
	case addStepScheme:
		return "Which voting scheme applies? Say \"skip\" to decide later.", nil
	case addStepDate:
		return "When does it take place? Use YYYY-MM-DD, or \"skip\" if undecided.", nil
	case addStepLocation:
		return "Where does it take place? Say \"skip\" if undecided.", nil
	case addStepConfirm:
		return fmt.Sprintf("Create event %q as a draft? Answer \"yes\" to create it.", wizard.FieldString(fields, "name")), nil
	default:
		return "", fmt.Errorf("add-event has no step %d", step)
	}
}

func (h *AddHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	switch step {
	case addStepTemplate:
		templates, err := h.d.Events.ListTemplates(ctx)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(templateItems(templates))
	case addStepScheme:
		schemes, err := h.d.Events.ListVotingSchemes(ctx)
		if err != nil {
			return nil
		}
		return wizard.PreviewOptions(schemeItems(schemes))
	default:
		return nil
	}
}

func (h *AddHandler) CanSkipStep(step int) bool {
	switch step {
	case addStepTemplate, addStepScheme, addStepDate, addStepLocation:
		return true
	default:
		return false
	}
}

func (h *AddHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) wizard.StepValidationResult {
	if input == nil {
		switch step {
		case addStepName:
			return wizard.Reject("The event name is required and can't be skipped.")
		case addStepConfirm:
			return wizard.Reject(wizard.ConfirmationHint("create the event"))
		}
	}

	switch step {
	case addStepName:
		name := strings.TrimSpace(*input)
		if len(name) < 2 {
			return wizard.Reject("The event needs a name of at least 2 characters.")
		}
		return wizard.Accept(name)

	case addStepTemplate:
		if input == nil {
			return wizard.Accept(nil)
		}
		templates, err := h.d.Events.ListTemplates(ctx)
		if err != nil {
			return wizard.Reject(retryMessage)
		}
		item, miss := wizard.ResolveSelection(*input, templateItems(templates))
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case addStepScheme:
		if input == nil {
			return wizard.Accept(nil)
		}
		schemes, err := h.d.Events.ListVotingSchemes(ctx)
		if err != nil {
			return wizard.Reject(retryMessage)
		}
		item, miss := wizard.ResolveSelection(*input, schemeItems(schemes))
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case addStepDate:
		if input == nil {
			return wizard.Accept(nil)
		}
		raw := strings.TrimSpace(*input)
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return wizard.Reject("I couldn't read that date. Use YYYY-MM-DD, for example 2026-09-12.")
		}
		return wizard.Accept(raw)

	case addStepLocation:
		if input == nil {
			return wizard.Accept(nil)
		}
		location := strings.TrimSpace(*input)
		if location == "" {
			return wizard.Reject("Please name a location, or say \"skip\".")
		}
		return wizard.Accept(location)

	case addStepConfirm:
		switch wizard.ParseConfirmation(*input, "create") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, I won't create the event.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("create the event"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *AddHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	event := &models.Event{
		Name:     wizard.FieldString(fields, "name"),
		Status:   models.EventStatusDraft,
		Location: wizard.FieldString(fields, "location"),
	}
	if id, ok := wizard.FieldInt64(fields, "template"); ok {
		event.TemplateID = &id
	}
	if id, ok := wizard.FieldInt64(fields, "voting_scheme"); ok {
		event.VotingScheme = &id
	}
	if raw := wizard.FieldString(fields, "event_date"); raw != "" {
		if date, err := time.Parse(dateLayout, raw); err == nil {
			event.EventDate = &date
		}
	}

	created, err := h.d.Events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	h.d.Logger.Info("event created", map[string]interface{}{
		"event_id": created.ID,
		"name":     created.Name,
	})

	return &wizard.ExecutionResult{
		Message:   fmt.Sprintf("Created event %q (ID %d) as a draft.", created.Name, created.ID),
		FollowUps: []string{"add-division", "add-participant", "update-event"},
	}, nil
}
