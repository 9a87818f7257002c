// internal/wizards/division/delete.go
package division

import (
	"context"
	"fmt"

	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// DeleteHandler removes a division and cascades over its entries and
// votes.
type DeleteHandler struct {
	d Deps
}

const (
	deleteStepDivision = iota
	deleteStepConfirm
)

func (h *DeleteHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case deleteStepDivision:
		return "Which division do you want to delete?", nil
	case deleteStepConfirm:
		divisionID, _ := wizard.FieldInt64(fields, "division")
		division, err := h.d.Divisions.FindByID(ctx, divisionID)
		if err != nil {
			return "", err
		}
		entries, err := h.d.Entries.ListByDivision(ctx, divisionID)
		if err != nil {
			return "", err
		}
		entryIDs := make([]int64, len(entries))
		for i, e := range entries {
			entryIDs[i] = e.ID
		}
		votes, err := h.d.Cascade.CountVotes(ctx, entryIDs)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleting division [%s] %q will also remove %d entries and %d votes. This cannot be undone. Proceed?",
			division.Code, division.Name, len(entries), votes), nil
	default:
		return "", fmt.Errorf("delete-division has no step %d", step)
	}
}

func (h *DeleteHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	if step != deleteStepDivision {
		return nil
	}
	items, err := h.d.divisionItems(ctx, fields)
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
	case deleteStepDivision:
		items, err := h.d.divisionItems(ctx, fields)
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
			return wizard.Abort("Okay, the division stays.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("delete the division"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *DeleteHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	divisionID, _ := wizard.FieldInt64(fields, "division")
	division, err := h.d.Divisions.FindByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	entries, err := h.d.Entries.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	entryIDs := make([]int64, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}

	outcome, err := h.d.Cascade.Run(ctx, cascade.Request{
		EntityType:   "division",
		EntityID:     division.ID,
		Snapshot:     division,
		Entries:      entries,
		VoteEntryIDs: entryIDs,
		Reason:       fmt.Sprintf("division %q deleted via guided command", division.Name),
		ActorID:      wizard.FieldString(fields, wizard.FieldActor),
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			return h.d.Divisions.SoftDelete(ctx, division.ID, reason, actorID)
		},
	})
	if err != nil {
		return nil, err
	}

	return &wizard.ExecutionResult{
		Message: fmt.Sprintf("Deleted division %q together with %d entries and %d votes.",
			division.Name, outcome.EntriesDeleted, outcome.VotesDeleted),
		FollowUps: []string{"add-division"},
	}, nil
}
