// internal/wizards/participant/delete.go
package participant

import (
	"context"
	"fmt"

	"contest-console/internal/wizard"
	"contest-console/internal/wizards/cascade"
)

// DeleteHandler removes a participant and cascades over their entries
// and votes.
type DeleteHandler struct {
	d Deps
}

const (
	deleteStepParticipant = iota
	deleteStepConfirm
)

func (h *DeleteHandler) PromptForStep(ctx context.Context, step int, fields map[string]interface{}) (string, error) {
	switch step {
	case deleteStepParticipant:
		return "Which participant do you want to remove?", nil
	case deleteStepConfirm:
		participantID, _ := wizard.FieldInt64(fields, "participant")
		participant, err := h.d.Participants.FindByID(ctx, participantID)
		if err != nil {
			return "", err
		}
		entries, err := h.d.Entries.ListByParticipant(ctx, participantID)
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
		return fmt.Sprintf("Removing %q will also delete %d entries and %d votes. This cannot be undone. Proceed?",
			participant.Name, len(entries), votes), nil
	default:
		return "", fmt.Errorf("delete-participant has no step %d", step)
	}
}

func (h *DeleteHandler) OptionsForStep(ctx context.Context, step int, fields map[string]interface{}) []string {
	if step != deleteStepParticipant {
		return nil
	}
	items, err := h.d.participantItems(ctx, fields)
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
	case deleteStepParticipant:
		items, err := h.d.participantItems(ctx, fields)
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
			return wizard.Abort("Okay, the participant stays.")
		default:
			return wizard.Reject(wizard.ConfirmationHint("remove the participant"))
		}

	default:
		return wizard.Reject(retryMessage)
	}
}

func (h *DeleteHandler) Execute(ctx context.Context, fields map[string]interface{}) (*wizard.ExecutionResult, error) {
	participantID, _ := wizard.FieldInt64(fields, "participant")
	participant, err := h.d.Participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	entries, err := h.d.Entries.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	entryIDs := make([]int64, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}

	outcome, err := h.d.Cascade.Run(ctx, cascade.Request{
		EntityType:   "participant",
		EntityID:     participant.ID,
		Snapshot:     participant,
		Entries:      entries,
		VoteEntryIDs: entryIDs,
		Reason:       fmt.Sprintf("participant %q removed via guided command", participant.Name),
		ActorID:      wizard.FieldString(fields, wizard.FieldActor),
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			return h.d.Participants.SoftDelete(ctx, participant.ID, reason, actorID)
		},
	})
	if err != nil {
		return nil, err
	}

	return &wizard.ExecutionResult{
		Message: fmt.Sprintf("Removed %q together with %d entries and %d votes.",
			participant.Name, outcome.EntriesDeleted, outcome.VotesDeleted),
		FollowUps: []string{"add-participant"},
	}, nil
}
