// internal/repository/participants.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"contest-console/internal/models"
)

const participantColumns = `id, event_id, name, email, club, created_at, updated_at, deleted_at, delete_reason`

type PostgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) *PostgresParticipantRepository {
	return &PostgresParticipantRepository{db: db}
}

func scanParticipant(row interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	var p models.Participant
	var email, club, deleteReason sql.NullString
	err := row.Scan(&p.ID, &p.EventID, &p.Name, &email, &club,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &deleteReason)
	if err != nil {
		return nil, err
	}
	p.Email = email.String
	p.Club = club.String
	p.DeleteReason = deleteReason.String
	return &p, nil
}

func (r *PostgresParticipantRepository) FindByID(ctx context.Context, id int64) (*models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE id = $1 AND deleted_at IS NULL`, participantColumns)
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PostgresParticipantRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE event_id = $1 AND deleted_at IS NULL ORDER BY name`, participantColumns)
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *PostgresParticipantRepository) Create(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	query := `INSERT INTO participants (event_id, name, email, club, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.EventID, p.Name, p.Email, p.Club).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("participant create", "name", p.Name, err)
	}
	return p, nil
}

func (r *PostgresParticipantRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	set, args := buildSetClause(fields)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE participants SET %s, updated_at = NOW() WHERE id = $%d AND deleted_at IS NULL`, set, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("participant update", "name", fmt.Sprint(fields["name"]), err)
	}
	return requireRow(res)
}

func (r *PostgresParticipantRepository) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	query := `UPDATE participants SET deleted_at = NOW(), delete_reason = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, auditReason(reason, actorID))
	if err != nil {
		return err
	}
	return requireRow(res)
}
