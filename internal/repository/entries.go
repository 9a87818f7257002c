// internal/repository/entries.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"contest-console/internal/models"
)

const entryColumns = `id, event_id, division_id, participant_id, name, entry_type, number, created_at, updated_at, deleted_at, delete_reason`

type PostgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.Entry, error) {
	var e models.Entry
	var entryType, deleteReason sql.NullString
	err := row.Scan(&e.ID, &e.EventID, &e.DivisionID, &e.ParticipantID, &e.Name,
		&entryType, &e.Number, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt, &deleteReason)
	if err != nil {
		return nil, err
	}
	e.EntryType = entryType.String
	e.DeleteReason = deleteReason.String
	return &e, nil
}

func (r *PostgresEntryRepository) FindByID(ctx context.Context, id int64) (*models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries WHERE id = $1 AND deleted_at IS NULL`, entryColumns)
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return e, nil
}

func (r *PostgresEntryRepository) listWhere(ctx context.Context, where string, arg interface{}) ([]*models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries WHERE %s AND deleted_at IS NULL ORDER BY number`, entryColumns, where)
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresEntryRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Entry, error) {
	return r.listWhere(ctx, "event_id = $1", eventID)
}

func (r *PostgresEntryRepository) ListByDivision(ctx context.Context, divisionID int64) ([]*models.Entry, error) {
	return r.listWhere(ctx, "division_id = $1", divisionID)
}

func (r *PostgresEntryRepository) ListByParticipant(ctx context.Context, participantID int64) ([]*models.Entry, error) {
	return r.listWhere(ctx, "participant_id = $1", participantID)
}

func (r *PostgresEntryRepository) FindByNumber(ctx context.Context, divisionID int64, number int, excludeID int64) (*models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries
		WHERE division_id = $1 AND number = $2 AND id != $3 AND deleted_at IS NULL`, entryColumns)
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, divisionID, number, excludeID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return e, nil
}

func (r *PostgresEntryRepository) MaxNumber(ctx context.Context, divisionID int64, entryType string) (int, error) {
	query := `SELECT COALESCE(MAX(number), 0) FROM entries
		WHERE division_id = $1 AND entry_type = $2 AND deleted_at IS NULL`
	var max int
	if err := r.db.QueryRowContext(ctx, query, divisionID, entryType).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func (r *PostgresEntryRepository) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	query := `INSERT INTO entries (event_id, division_id, participant_id, name, entry_type, number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		e.EventID, e.DivisionID, e.ParticipantID, e.Name, e.EntryType, e.Number,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("entry create", "entry number", fmt.Sprint(e.Number), err)
	}
	return e, nil
}

func (r *PostgresEntryRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	set, args := buildSetClause(fields)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE entries SET %s, updated_at = NOW() WHERE id = $%d AND deleted_at IS NULL`, set, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("entry update", "entry number", fmt.Sprint(fields["number"]), err)
	}
	return requireRow(res)
}

func (r *PostgresEntryRepository) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	query := `UPDATE entries SET deleted_at = NOW(), delete_reason = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, auditReason(reason, actorID))
	if err != nil {
		return err
	}
	return requireRow(res)
}
