// internal/scoring/scoring.go
package scoring

import (
	"context"
	"database/sql"
)

// ResultRow is one ranked line of an event's results.
type ResultRow struct {
	EntryID         int64  `json:"entryId"`
	EntryName       string `json:"entryName"`
	ParticipantName string `json:"participantName"`
	DivisionName    string `json:"divisionName"`
	TotalPoints     int    `json:"totalPoints"`
	VoteCount       int    `json:"voteCount"`
}

// Service is the read-only results collaborator. The tally engine itself is
// external; this service only reads ranked sums.
type Service interface {
	GetResults(ctx context.Context, eventID int64) ([]ResultRow, error)
	GetLeaderboard(ctx context.Context, eventID int64, divisionID *int64, limit int) ([]ResultRow, error)
}

type PostgresService struct {
	db *sql.DB
}

func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

const resultsQuery = `
	SELECT e.id, e.name, p.name, d.name,
		COALESCE(SUM(v.points), 0) AS total_points,
		COUNT(v.id) AS vote_count
	FROM entries e
	JOIN participants p ON p.id = e.participant_id
	JOIN divisions d ON d.id = e.division_id
	LEFT JOIN votes v ON v.entry_id = e.id AND v.deleted_at IS NULL
	WHERE e.event_id = $1 AND e.deleted_at IS NULL`

func (s *PostgresService) GetResults(ctx context.Context, eventID int64) ([]ResultRow, error) {
	query := resultsQuery + `
	GROUP BY e.id, e.name, p.name, d.name
	ORDER BY total_points DESC, vote_count DESC, e.number`
	return s.queryResults(ctx, query, eventID)
}

func (s *PostgresService) GetLeaderboard(ctx context.Context, eventID int64, divisionID *int64, limit int) ([]ResultRow, error) {
	if divisionID != nil {
		query := resultsQuery + ` AND e.division_id = $2
	GROUP BY e.id, e.name, p.name, d.name
	ORDER BY total_points DESC, vote_count DESC, e.number
	LIMIT $3`
		return s.queryResults(ctx, query, eventID, *divisionID, limit)
	}

	query := resultsQuery + `
	GROUP BY e.id, e.name, p.name, d.name
	ORDER BY total_points DESC, vote_count DESC, e.number
	LIMIT $2`
	return s.queryResults(ctx, query, eventID, limit)
}

func (s *PostgresService) queryResults(ctx context.Context, query string, args ...interface{}) ([]ResultRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.EntryID, &r.EntryName, &r.ParticipantName, &r.DivisionName, &r.TotalPoints, &r.VoteCount); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
