// internal/wizards/entry/delete.go
package entry

import (
	"context"
	"fmt"

	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// DeleteHandler removes an entry and its votes.
type DeleteHandler struct {
	d Deps
}

const (
	deleteStepEntry = iota
	deleteStepConfirm
)

func (h *DeleteHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case deleteStepEntry:
		return "Which entry do you want to delete?", nil
	case deleteStepConfirm:
		entryID, _ := wizard.FieldInt64(fields, "entry")
		entry, err := h.d.Entries.FindByID(ctx, entryID)
		if err != nil {
			return "", err
		}
		votes, err := h.d.Votes.CountByEntry(ctx, entryID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleting entry #%d %q will also remove %d votes. This cannot be undone. Proceed?",
			entry.Number, entry.Name, votes), nil
	default:
		return "", fmt.Errorf("delete-entry has no step %d", step)
	}
}

func (h *DeleteHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	if step != deleteStepEntry {
		return nil
	}
	items, err := h.d.entryItems(ctx, fields)
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
	case deleteStepEntry:
		items, err := h.d.entryItems(ctx, fields)
		if err != nil {
			return wizard.Reject(noEventMessage)
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
			return wizard.Abort("Okay, the entry stays.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("delete the entry"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *DeleteHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	entryID, _ := wizard.FieldInt64(fields, "entry")
	entry, err := h.d.Entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	outcome, err := h.d.Cascade.Run(ctx, cascade.Request{
		EntityType:   "entry",
		EntityID:     entry.ID,
		Snapshot:     entry,
		VoteEntryIDs: []int64{entry.ID},
		Reason:       fmt.Sprintf("entry %q deleted via guided command", entry.Name),
		ActorID:      wizard.FieldString(fields, wizard.FieldActor),
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			return h.d.Entries.SoftDelete(ctx, entry.ID, reason, actorID)
		},
	})
	if err != nil {
		return nil, err
	}

	return &wizard.ExecutionResult{
		Message: fmt.Sprintf("Deleted entry #%d %q together with %d votes.",
			entry.Number, entry.Name, outcome.VotesDeleted),
		FollowUps: []string{"add-entry"},
	}, nil
}
