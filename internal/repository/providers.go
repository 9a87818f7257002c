// internal/repository/providers.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"contest-console/internal/models"
)

const providerColumns = `id, code, name, base_url, model, temperature, max_tokens, selected, encrypted_credential, created_at, updated_at`

type PostgresProviderRepository struct {
	db *sql.DB
}

func NewPostgresProviderRepository(db *sql.DB) *PostgresProviderRepository {
	return &PostgresProviderRepository{db: db}
}

func scanProvider(row interface{ Scan(...interface{}) error }) (*models.AIProvider, error) {
	var p models.AIProvider
	var credential sql.NullString
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.BaseURL, &p.Model,
		&p.Temperature, &p.MaxTokens, &p.Selected, &credential, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.EncryptedCredential = credential.String
	return &p, nil
}

func (r *PostgresProviderRepository) GetSelected(ctx context.Context) (*models.AIProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM ai_providers WHERE selected = TRUE`, providerColumns)
	p, err := scanProvider(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PostgresProviderRepository) FindByCode(ctx context.Context, code string) (*models.AIProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM ai_providers WHERE code = $1`, providerColumns)
	p, err := scanProvider(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (r *PostgresProviderRepository) List(ctx context.Context) ([]*models.AIProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM ai_providers ORDER BY code`, providerColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*models.AIProvider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// Select activates one provider and deselects all others atomically.
func (r *PostgresProviderRepository) Select(ctx context.Context, code string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE ai_providers SET selected = FALSE, updated_at = NOW() WHERE selected = TRUE`); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `UPDATE ai_providers SET selected = TRUE, updated_at = NOW() WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	return tx.Commit()
}
