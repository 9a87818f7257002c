// internal/repository/entries_test.go
package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperrors "contest-console/internal/common/errors"
	"contest-console/internal/models"
)

func entryRows(entries ...*models.Entry) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "event_id", "division_id", "participant_id", "name",
		"entry_type", "number", "created_at", "updated_at", "deleted_at", "delete_reason",
	})
	for _, e := range entries {
		rows.AddRow(e.ID, e.EventID, e.DivisionID, e.ParticipantID, e.Name,
			e.EntryType, e.Number, time.Now(), time.Now(), nil, nil)
	}
	return rows
}

func TestEntryMaxNumber_EmptyBucketIsZero(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(number\), 0\) FROM entries`).
		WithArgs(int64(5), "Stout").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	max, err := repo.MaxNumber(context.Background(), 5, "Stout")
	assert.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestEntryMaxNumber_ScopedToDivisionAndType(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(number\), 0\) FROM entries`).
		WithArgs(int64(5), "Lager").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(17))

	max, err := repo.MaxNumber(context.Background(), 5, "Lager")
	assert.NoError(t, err)
	assert.Equal(t, 17, max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryFindByNumber_ExcludesTheEditedRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM entries`).
		WithArgs(int64(5), 7, int64(33)).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByNumber(context.Background(), 5, 7, 33)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntryCreate_LostRaceSurfacesAsDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectQuery(`INSERT INTO entries`).
		WithArgs(int64(12), int64(5), int64(9), "Porter", "Stout", 7).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "entries_division_number_live_idx"})

	got, err := repo.Create(context.Background(), &models.Entry{
		EventID: 12, DivisionID: 5, ParticipantID: 9, Name: "Porter", EntryType: "Stout", Number: 7,
	})
	assert.Nil(t, got)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateRecord))
	assert.Contains(t, err.Error(), "entry number")
}

func TestEntryListByDivision_OrderedByNumber(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM entries WHERE division_id`).
		WithArgs(int64(5)).
		WillReturnRows(entryRows(
			&models.Entry{ID: 1, EventID: 12, DivisionID: 5, ParticipantID: 9, Name: "Porter", Number: 1},
			&models.Entry{ID: 2, EventID: 12, DivisionID: 5, ParticipantID: 8, Name: "Lager", Number: 2},
		))

	got, err := repo.ListByDivision(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, "Lager", got[1].Name)
}
