// internal/repository/repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/models"
)

// ErrNotFound is returned when a lookup matches no live row.
var ErrNotFound = errors.New("record not found")

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-index conflict.
// This is the backstop for the check-then-create race: two wizards may both
// pass the duplicate pre-check, but only one commit survives the index.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// EventRepository provides persistence for events plus the template and
// voting-scheme catalogs the prompt assembler snapshots.
type EventRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64, reason, actorID string) error
	ListTemplates(ctx context.Context) ([]*models.EventTemplate, error)
	FindTemplate(ctx context.Context, id int64) (*models.EventTemplate, error)
	ListVotingSchemes(ctx context.Context) ([]*models.VotingScheme, error)
}

// ParticipantRepository provides persistence for participants.
type ParticipantRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Participant, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Participant, error)
	Create(ctx context.Context, p *models.Participant) (*models.Participant, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64, reason, actorID string) error
}

// EntryRepository provides persistence for entries.
type EntryRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Entry, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Entry, error)
	ListByDivision(ctx context.Context, divisionID int64) ([]*models.Entry, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]*models.Entry, error)
	// FindByNumber locates a live sibling with the given number inside the
	// division, excluding excludeID (0 to exclude nothing).
	FindByNumber(ctx context.Context, divisionID int64, number int, excludeID int64) (*models.Entry, error)
	// MaxNumber returns the highest live entry number within the same
	// division and entry-type bucket, 0 when the bucket is empty.
	MaxNumber(ctx context.Context, divisionID int64, entryType string) (int, error)
	Create(ctx context.Context, e *models.Entry) (*models.Entry, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64, reason, actorID string) error
}

// DivisionRepository provides persistence for divisions.
type DivisionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Division, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Division, error)
	// FindByCode locates a live division with the given code inside the
	// event, excluding excludeID (0 to exclude nothing).
	FindByCode(ctx context.Context, eventID int64, code string, excludeID int64) (*models.Division, error)
	Create(ctx context.Context, d *models.Division) (*models.Division, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64, reason, actorID string) error
}

// VoteRepository provides read and cascade-delete access to votes.
type VoteRepository interface {
	CountByEntry(ctx context.Context, entryID int64) (int, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
	SoftDeleteByEntry(ctx context.Context, entryID int64, reason, actorID string) (int, error)
}

// DeletionHistoryRepository persists pre-cascade audit records.
type DeletionHistoryRepository interface {
	Create(ctx context.Context, rec *models.DeletionHistory) error
}

// KnowledgeRepository provides read access to the knowledge corpus.
type KnowledgeRepository interface {
	ListEnabled(ctx context.Context) ([]*models.KnowledgeDocument, error)
}

// ProviderRepository manages AI provider configuration rows.
type ProviderRepository interface {
	GetSelected(ctx context.Context) (*models.AIProvider, error)
	FindByCode(ctx context.Context, code string) (*models.AIProvider, error)
	List(ctx context.Context) ([]*models.AIProvider, error)
	// Select marks the given provider active and atomically deselects all
	// others in one transaction.
	Select(ctx context.Context, code string) error
}

// mapNotFound converts sql.ErrNoRows to the repository sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// mapWriteError converts driver errors on insert/update into the
// application taxonomy. Unique violations become integrity conflicts so a
// lost check-then-create race surfaces exactly like the pre-check.
func mapWriteError(operation, field, value string, err error) error {
	if isUniqueViolation(err) {
		return apperrors.NewDuplicateRecordError(field, value, "another record")
	}
	return apperrors.NewQueryExecutionFailedError(operation, err)
}
