// internal/repository/divisions.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"contest-console/internal/models"
)

const divisionColumns = `id, event_id, code, name, division_type, created_at, updated_at, deleted_at, delete_reason`

type PostgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) *PostgresDivisionRepository {
	return &PostgresDivisionRepository{db: db}
}

func scanDivision(row interface{ Scan(...interface{}) error }) (*models.Division, error) {
	var d models.Division
	var deleteReason sql.NullString
	err := row.Scan(&d.ID, &d.EventID, &d.Code, &d.Name, &d.DivisionType,
		&d.CreatedAt, &d.UpdatedAt, &d.DeletedAt, &deleteReason)
	if err != nil {
		return nil, err
	}
	d.DeleteReason = deleteReason.String
	return &d, nil
}

func (r *PostgresDivisionRepository) FindByID(ctx context.Context, id int64) (*models.Division, error) {
	query := fmt.Sprintf(`SELECT %s FROM divisions WHERE id = $1 AND deleted_at IS NULL`, divisionColumns)
	d, err := scanDivision(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return d, nil
}

func (r *PostgresDivisionRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Division, error) {
	query := fmt.Sprintf(`SELECT %s FROM divisions WHERE event_id = $1 AND deleted_at IS NULL ORDER BY code`, divisionColumns)
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []*models.Division
	for rows.Next() {
		d, err := scanDivision(rows)
		if err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

func (r *PostgresDivisionRepository) FindByCode(ctx context.Context, eventID int64, code string, excludeID int64) (*models.Division, error) {
	query := fmt.Sprintf(`SELECT %s FROM divisions
		WHERE event_id = $1 AND UPPER(code) = UPPER($2) AND id != $3 AND deleted_at IS NULL`, divisionColumns)
	d, err := scanDivision(r.db.QueryRowContext(ctx, query, eventID, code, excludeID))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return d, nil
}

func (r *PostgresDivisionRepository) Create(ctx context.Context, d *models.Division) (*models.Division, error) {
	query := `INSERT INTO divisions (event_id, code, name, division_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, d.EventID, d.Code, d.Name, d.DivisionType).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("division create", "code", d.Code, err)
	}
	return d, nil
}

func (r *PostgresDivisionRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	set, args := buildSetClause(fields)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE divisions SET %s, updated_at = NOW() WHERE id = $%d AND deleted_at IS NULL`, set, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("division update", "code", fmt.Sprint(fields["code"]), err)
	}
	return requireRow(res)
}

func (r *PostgresDivisionRepository) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	query := `UPDATE divisions SET deleted_at = NOW(), delete_reason = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, auditReason(reason, actorID))
	if err != nil {
		return err
	}
	return requireRow(res)
}
