// internal/wizards/cascade/cascade_test.go
package cascade

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/common/logger"
	"contest-console/internal/models"
	"contest-console/internal/repository"
)

// ==========================
// Test Doubles
// ==========================

// recorder logs the order in which the cascade touches each collaborator.
type recorder struct {
	calls []string
}

func (r *recorder) note(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type stubHistory struct {
	rec       *recorder
	records   []*models.DeletionHistory
	createErr error
}

func (s *stubHistory) Create(ctx context.Context, rec *models.DeletionHistory) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rec.note("history %s/%d", rec.EntityType, rec.EntityID)
	s.records = append(s.records, rec)
	return nil
}

type stubVotes struct {
	repository.VoteRepository
	rec       *recorder
	perEntry  map[int64]int
	deleteErr error
}

func (s *stubVotes) CountByEntry(ctx context.Context, entryID int64) (int, error) {
	return s.perEntry[entryID], nil
}

func (s *stubVotes) SoftDeleteByEntry(ctx context.Context, entryID int64, reason, actorID string) (int, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	s.rec.note("votes %d", entryID)
	return s.perEntry[entryID], nil
}

type stubEntries struct {
	repository.EntryRepository
	rec *recorder
}

func (s *stubEntries) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	s.rec.note("entry %d", id)
	return nil
}

// ==========================
// Tests
// ==========================

func TestRun_AuditFirstThenVotesEntriesTarget(t *testing.T) {
	rec := &recorder{}
	history := &stubHistory{rec: rec}
	votes := &stubVotes{rec: rec, perEntry: map[int64]int{4: 2, 5: 3}}
	deleter := NewDeleter(history, votes, &stubEntries{rec: rec}, logger.NewTestLogger(t))

	target := &models.Participant{ID: 9, EventID: 12, Name: "Ada"}
	outcome, err := deleter.Run(context.Background(), Request{
		EntityType: "participant",
		EntityID:   9,
		Snapshot:   target,
		Entries: []*models.Entry{
			{ID: 4, ParticipantID: 9},
			{ID: 5, ParticipantID: 9},
		},
		VoteEntryIDs: []int64{4, 5},
		Reason:       "operator request",
		ActorID:      "operator-1",
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			rec.note("target %s/%s", reason, actorID)
			return nil
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, outcome.EntriesDeleted)
	assert.Equal(t, 5, outcome.VotesDeleted)
	assert.NotEmpty(t, outcome.HistoryID)

	// the audit record lands before anything is deleted, the target last
	assert.Equal(t, []string{
		"history participant/9",
		"votes 4",
		"votes 5",
		"entry 4",
		"entry 5",
		"target operator request/operator-1",
	}, rec.calls)

	assert.Len(t, history.records, 1)
	record := history.records[0]
	assert.Equal(t, outcome.HistoryID, record.ID)
	assert.Equal(t, map[string]int{"entries": 2, "votes": 5}, record.RelatedDeletions)
	assert.Contains(t, record.Snapshot, `"Ada"`)
	assert.Equal(t, "operator-1", record.ActorID)
}

func TestRun_HistoryFailureStopsEverything(t *testing.T) {
	rec := &recorder{}
	history := &stubHistory{rec: rec, createErr: fmt.Errorf("insert failed")}
	votes := &stubVotes{rec: rec, perEntry: map[int64]int{4: 1}}
	deleter := NewDeleter(history, votes, &stubEntries{rec: rec}, logger.NewTestLogger(t))

	outcome, err := deleter.Run(context.Background(), Request{
		EntityType:   "entry",
		EntityID:     4,
		Snapshot:     &models.Entry{ID: 4},
		VoteEntryIDs: []int64{4},
		Reason:       "operator request",
		ActorID:      "operator-1",
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			rec.note("target")
			return nil
		},
	})

	assert.Nil(t, outcome)
	assert.Error(t, err)
	assert.Empty(t, rec.calls)
}

func TestRun_VoteFailureIsWrappedAndLeavesTargetAlone(t *testing.T) {
	rec := &recorder{}
	history := &stubHistory{rec: rec}
	votes := &stubVotes{rec: rec, perEntry: map[int64]int{4: 1}, deleteErr: fmt.Errorf("timeout")}
	deleter := NewDeleter(history, votes, &stubEntries{rec: rec}, logger.NewTestLogger(t))

	targetDeleted := false
	outcome, err := deleter.Run(context.Background(), Request{
		EntityType:   "entry",
		EntityID:     4,
		Snapshot:     &models.Entry{ID: 4},
		VoteEntryIDs: []int64{4},
		Reason:       "operator request",
		ActorID:      "operator-1",
		DeleteTarget: func(ctx context.Context, reason, actorID string) error {
			targetDeleted = true
			return nil
		},
	})

	assert.Nil(t, outcome)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeQueryExecutionFailed))
	assert.False(t, targetDeleted)
	// the audit record stays for reconciliation
	assert.Len(t, history.records, 1)
}

func TestCountVotes_SumsAcrossEntries(t *testing.T) {
	votes := &stubVotes{rec: &recorder{}, perEntry: map[int64]int{1: 2, 2: 0, 3: 7}}
	deleter := NewDeleter(&stubHistory{rec: &recorder{}}, votes, &stubEntries{rec: &recorder{}}, logger.NewTestLogger(t))

	total, err := deleter.CountVotes(context.Background(), []int64{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, 9, total)
}
