// internal/repository/knowledge.go
package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"contest-console/internal/models"
)

type PostgresKnowledgeRepository struct {
	db *sql.DB
}

func NewPostgresKnowledgeRepository(db *sql.DB) *PostgresKnowledgeRepository {
	return &PostgresKnowledgeRepository{db: db}
}

func (r *PostgresKnowledgeRepository) ListEnabled(ctx context.Context) ([]*models.KnowledgeDocument, error) {
	query := `SELECT id, title, body, keywords, priority, enabled, created_at
		FROM knowledge_documents WHERE enabled = TRUE ORDER BY priority DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.KnowledgeDocument
	for rows.Next() {
		var d models.KnowledgeDocument
		if err := rows.Scan(&d.ID, &d.Title, &d.Body, pq.Array(&d.Keywords), &d.Priority, &d.Enabled, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
