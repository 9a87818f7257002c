// internal/wizards/cascade/cascade.go

// Package cascade implements the shared soft-delete pipeline for
// destructive wizard commands: an audit record is written before any row
// is touched, then dependents fall before the target.
package cascade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/common/logger"
	"contest-console/internal/models"
	"contest-console/internal/repository"
)

// Deleter runs cascading soft deletes in audit-first order.
type Deleter struct {
	history repository.DeletionHistoryRepository
	votes   repository.VoteRepository
	entries repository.EntryRepository
	logger  logger.Logger
}

func NewDeleter(
	history repository.DeletionHistoryRepository,
	votes repository.VoteRepository,
	entries repository.EntryRepository,
	log logger.Logger,
) *Deleter {
	return &Deleter{history: history, votes: votes, entries: entries, logger: log}
}

// Request describes one cascade. Entries are dependent rows soft-deleted
// before the target; VoteEntryIDs are the entry IDs whose votes are
// purged first (the dependents' IDs, plus the target's own when the
// target is an entry).
type Request struct {
	EntityType   string
	EntityID     int64
	Snapshot     interface{}
	Entries      []*models.Entry
	VoteEntryIDs []int64
	Reason       string
	ActorID      string
	DeleteTarget func(ctx context.Context, reason, actorID string) error
}

// Outcome reports what the cascade removed.
type Outcome struct {
	EntriesDeleted int
	VotesDeleted   int
	HistoryID      string
}

// CountVotes totals live votes across the given entries, for previews
// and for the audit record's related counts.
func (d *Deleter) CountVotes(ctx context.Context, entryIDs []int64) (int, error) {
	total := 0
	for _, id := range entryIDs {
		n, err := d.votes.CountByEntry(ctx, id)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Run executes the cascade. The deletion-history record is written
// first so a crash mid-cascade leaves an auditable trail; then votes,
// then entries, then the target itself.
func (d *Deleter) Run(ctx context.Context, req Request) (*Outcome, error) {
	snapshot, err := json.Marshal(req.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("serialize %s snapshot: %w", req.EntityType, err)
	}

	voteCount, err := d.CountVotes(ctx, req.VoteEntryIDs)
	if err != nil {
		return nil, err
	}

	record := &models.DeletionHistory{
		ID:         uuid.New().String(),
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Snapshot:   string(snapshot),
		RelatedDeletions: map[string]int{
			"entries": len(req.Entries),
			"votes":   voteCount,
		},
		Reason:  req.Reason,
		ActorID: req.ActorID,
	}
	if err := d.history.Create(ctx, record); err != nil {
		return nil, err
	}

	outcome := &Outcome{EntriesDeleted: len(req.Entries), HistoryID: record.ID}
	for _, entryID := range req.VoteEntryIDs {
		n, err := d.votes.SoftDeleteByEntry(ctx, entryID, req.Reason, req.ActorID)
		if err != nil {
			return nil, d.abort(record.ID, "votes", err)
		}
		outcome.VotesDeleted += n
	}
	for _, entry := range req.Entries {
		if err := d.entries.SoftDelete(ctx, entry.ID, req.Reason, req.ActorID); err != nil {
			return nil, d.abort(record.ID, "entries", err)
		}
	}
	if err := req.DeleteTarget(ctx, req.Reason, req.ActorID); err != nil {
		return nil, d.abort(record.ID, req.EntityType, err)
	}

	return outcome, nil
}

// abort logs a mid-cascade failure against the audit record so the
// partial state can be reconciled by hand.
func (d *Deleter) abort(historyID, stage string, err error) error {
	d.logger.Error("cascade stopped mid-flight", map[string]interface{}{
		"history_id": historyID,
		"stage":      stage,
		"error":      err.Error(),
	})
	if apperrors.IsCode(err, apperrors.ErrCodeQueryExecutionFailed) {
		return err
	}
	return apperrors.NewQueryExecutionFailedError("cascade "+stage, err)
}
