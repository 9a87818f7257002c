// internal/repository/divisions_test.go
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

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func divisionRows(divisions ...*models.Division) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "event_id", "code", "name", "division_type",
		"created_at", "updated_at", "deleted_at", "delete_reason",
	})
	for _, d := range divisions {
		rows.AddRow(d.ID, d.EventID, d.Code, d.Name, d.DivisionType,
			time.Now(), time.Now(), nil, nil)
	}
	return rows
}

// ==========================
// Tests
// ==========================

func TestDivisionFindByCode_Hit(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM divisions`).
		WithArgs(int64(12), "P", int64(0)).
		WillReturnRows(divisionRows(&models.Division{ID: 3, EventID: 12, Code: "P", Name: "Pro", DivisionType: "Professional"}))

	got, err := repo.FindByCode(context.Background(), 12, "P", 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "Pro", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDivisionFindByCode_MissIsErrNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM divisions`).
		WithArgs(int64(12), "ZZ", int64(7)).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByCode(context.Background(), 12, "ZZ", 7)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDivisionCreate_ReturnsGeneratedID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectQuery(`INSERT INTO divisions`).
		WithArgs(int64(12), "AM", "Amateur Masters", "Amateur").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(41), time.Now(), time.Now()))

	got, err := repo.Create(context.Background(), &models.Division{
		EventID: 12, Code: "AM", Name: "Amateur Masters", DivisionType: "Amateur",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(41), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDivisionCreate_LostRaceSurfacesAsDuplicate(t *testing.T) {
	// Two wizards can both pass the duplicate pre-check; the loser of the
	// insert race must see the same integrity error the pre-check raises.
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectQuery(`INSERT INTO divisions`).
		WithArgs(int64(12), "P", "Pro", "Professional").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "divisions_event_code_live_idx"})

	got, err := repo.Create(context.Background(), &models.Division{
		EventID: 12, Code: "P", Name: "Pro", DivisionType: "Professional",
	})
	assert.Nil(t, got)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDuplicateRecord))
	assert.Contains(t, err.Error(), `"P"`)
}

func TestDivisionUpdate_ZeroRowsIsErrNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectExec(`UPDATE divisions SET`).
		WithArgs("New Name", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 3, map[string]interface{}{"name": "New Name"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDivisionSoftDelete_StampsReason(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectExec(`UPDATE divisions SET deleted_at`).
		WithArgs(int64(3), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SoftDelete(context.Background(), 3, "operator request", "operator-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDivisionListByEvent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresDivisionRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM divisions WHERE event_id`).
		WithArgs(int64(12)).
		WillReturnRows(divisionRows(
			&models.Division{ID: 1, EventID: 12, Code: "AM", Name: "Amateur"},
			&models.Division{ID: 2, EventID: 12, Code: "P", Name: "Pro"},
		))

	got, err := repo.ListByEvent(context.Background(), 12)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "AM", got[0].Code)
	assert.Equal(t, "P", got[1].Code)
}
