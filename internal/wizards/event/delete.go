// internal/wizards/event/delete.go
package event

import (
	"context"
	"fmt"

	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// DeleteHandler removes an event and cascades over its entries and
// votes.
type DeleteHandler struct {
	d Deps
}

const (
	deleteStepEvent = iota
	deleteStepConfirm
)

func (h *DeleteHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case deleteStepEvent:
		return "Which event do you want to delete?", nil
	case deleteStepConfirm:
		eventID, _ := wizard.FieldInt64(fields, "event")
		event, err := h.d.Events.FindByID(ctx, eventID)
		if err != nil {
			return "", err
		}
		entries, err := h.d.Entries.ListByEvent(ctx, eventID)
		if err != nil {
			return "", err
		}
		votes, err := h.d.Votes.CountByEvent(ctx, eventID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleting %q will also remove %d entries and %d votes. This cannot be undone. Proceed?",
			event.Name, len(entries), votes), nil
	default:
		return "", fmt.Errorf("delete-event has no step %d", step)
	}
}

func (h *DeleteHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	if step != deleteStepEvent {
		return nil
	}
	items, err := h.d.eventItems(ctx)
	if err != nil {
		return nil
	}
	return wizard.PreviewOptions(items)
}

func (h *DeleteHandler) CanSkipStep(step int) bool { return false }

func (h *DeleteHandler) ValidateStep(ctx context.Context, step int, input *string, fields map[string]interface{}) wizard.StepValidationResult {
	if input == nil {
		return wizard.Reject("Every step of a delete is required. Say \"cancel\" to stop instead.")
	}
	switch step {
	case deleteStepEvent:
		items, err := h.d.eventItems(ctx)
		if err != nil {
			return wizard.Reject(retryMessage)
		}
		item, miss := wizard.ResolveSelection(*input, items)
		if miss != "" {
			return wizard.Reject(miss)
		}
		return wizard.Accept(item.ID)

	case deleteStepConfirm:
		switch wizard.ParseConfirmation(*input, "delete") {
		case wizard.ConfirmYes:
			return wizard.Accept(true)
		case wizard.ConfirmNo:
			return wizard.Abort("Okay, the event stays.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("delete the event"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *DeleteHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	eventID, _ := wizard.FieldInt64(fields, "event")
	event, err := h.d.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	entries, err := h.d.Entries.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	entryIDs := make([]int64, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}

	outcome, err := h.d.Cascade.Run(ctx, cascade.Request{
		EntityType:   "event",
		EntityID:     event.ID,
		Snapshot:     event,
		Entries:      entries,
		VoteEntryIDs: entryIDs,
		Reason:       fmt.Sprintf("event %q deleted via guided command", event.Name),
		ActorID:      wizard.FieldString(fields, wizard.FieldActor),
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			return h.d.Events.SoftDelete(ctx, event.ID, reason, actorID)
		},
	})
	if err != nil {
		return nil, err
	}

	return &wizard.ExecutionResult{
		Message: fmt.Sprintf("Deleted event %q together with %d entries and %d votes.",
			event.Name, outcome.EntriesDeleted, outcome.VotesDeleted),
		FollowUps: []string{"add-event"},
	}, nil
}
