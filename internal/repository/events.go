// internal/repository/events.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"contest-console/internal/models"
)

const eventColumns = `id, name, status, event_date, location, template_id, voting_scheme_id, created_at, updated_at, deleted_at, delete_reason`

type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var e models.Event
	var deleteReason sql.NullString
	var location sql.NullString
	err := row.Scan(&e.ID, &e.Name, &e.Status, &e.EventDate, &location,
		&e.TemplateID, &e.VotingScheme, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt, &deleteReason)
	if err != nil {
		return nil, err
	}
	e.Location = location.String
	e.DeleteReason = deleteReason.String
	return &e, nil
}

func (r *PostgresEventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND deleted_at IS NULL`, eventColumns)
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return e, nil
}

func (r *PostgresEventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE deleted_at IS NULL ORDER BY created_at DESC`, eventColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `INSERT INTO events (name, status, event_date, location, template_id, voting_scheme_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		event.Name, event.Status, event.EventDate, event.Location, event.TemplateID, event.VotingScheme,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("event create", "name", event.Name, err)
	}
	return event, nil
}

func (r *PostgresEventRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	set, args := buildSetClause(fields)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s, updated_at = NOW() WHERE id = $%d AND deleted_at IS NULL`, set, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("event update", "name", fmt.Sprint(fields["name"]), err)
	}
	return requireRow(res)
}

func (r *PostgresEventRepository) SoftDelete(ctx context.Context, id int64, reason, actorID string) error {
	query := `UPDATE events SET deleted_at = NOW(), delete_reason = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, auditReason(reason, actorID))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresEventRepository) ListTemplates(ctx context.Context) ([]*models.EventTemplate, error) {
	query := `SELECT id, name, division_types, entry_types, created_at FROM event_templates ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.EventTemplate
	for rows.Next() {
		var t models.EventTemplate
		if err := rows.Scan(&t.ID, &t.Name, pq.Array(&t.DivisionTypes), pq.Array(&t.EntryTypes), &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *PostgresEventRepository) FindTemplate(ctx context.Context, id int64) (*models.EventTemplate, error) {
	query := `SELECT id, name, division_types, entry_types, created_at FROM event_templates WHERE id = $1`
	var t models.EventTemplate
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, pq.Array(&t.DivisionTypes), pq.Array(&t.EntryTypes), &t.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

func (r *PostgresEventRepository) ListVotingSchemes(ctx context.Context) ([]*models.VotingScheme, error) {
	query := `SELECT id, name, points, created_at FROM voting_schemes ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemes []*models.VotingScheme
	for rows.Next() {
		var s models.VotingScheme
		var points []int64
		if err := rows.Scan(&s.ID, &s.Name, pq.Array(&points), &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Points = make([]int, len(points))
		for i, p := range points {
			s.Points[i] = int(p)
		}
		schemes = append(schemes, &s)
	}
	return schemes, rows.Err()
}

// buildSetClause renders "col = $1, col2 = $2" with stable ordering.
func buildSetClause(fields map[string]interface{}) (string, []interface{}) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for i, col := range cols {
		parts = append(parts, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	return strings.Join(parts, ", "), args
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// auditReason stamps the actor and time into the stored delete reason.
func auditReason(reason, actorID string) string {
	return fmt.Sprintf("%s (by %s at %s)", reason, actorID, time.Now().UTC().Format(time.RFC3339))
}
