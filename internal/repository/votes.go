// internal/repository/votes.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"contest-console/internal/models"
)

type PostgresVoteRepository struct {
	db *sql.DB
}

func NewPostgresVoteRepository(db *sql.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

func (r *PostgresVoteRepository) CountByEntry(ctx context.Context, entryID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM votes WHERE entry_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, query, entryID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresVoteRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM votes WHERE event_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SoftDeleteByEntry stamps the audit reason on every live vote of the entry
// and marks them deleted in one statement. Returns the number of votes
// removed.
func (r *PostgresVoteRepository) SoftDeleteByEntry(ctx context.Context, entryID int64, reason, actorID string) (int, error) {
	query := `UPDATE votes SET deleted_at = NOW(), delete_reason = $2
		WHERE entry_id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, entryID, auditReason(reason, actorID))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type PostgresDeletionHistoryRepository struct {
	db *sql.DB
}

func NewPostgresDeletionHistoryRepository(db *sql.DB) *PostgresDeletionHistoryRepository {
	return &PostgresDeletionHistoryRepository{db: db}
}

func (r *PostgresDeletionHistoryRepository) Create(ctx context.Context, rec *models.DeletionHistory) error {
	related, err := json.Marshal(rec.RelatedDeletions)
	if err != nil {
		return err
	}
	query := `INSERT INTO deletion_history (id, entity_type, entity_id, snapshot, related_deletions, reason, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.EntityType, rec.EntityID, rec.Snapshot, related, rec.Reason, rec.ActorID)
	return err
}
