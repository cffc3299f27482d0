package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func participantColumns() []string {
	return []string{"id", "nik", "full_name", "entity", "facility", "department", "created_at"}
}

func TestParticipantRepositoryFindByNIK(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	rows := sqlmock.NewRows(participantColumns()).
		AddRow("p1", "1001", "Budi Santoso", "SWG-1", "Plant A", "Sewing", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nik, full_name, entity, facility, department, created_at FROM participants WHERE nik = $1")).
		WithArgs("1001").
		WillReturnRows(rows)

	participant, err := repo.FindByNIK(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "p1", participant.ID)
	require.NotNil(t, participant.FullName)
	assert.Equal(t, "Budi Santoso", *participant.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryGetOrCreateInsertsWhenMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectQuery("SELECT id, nik, full_name").
		WithArgs("2002").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO participants").
		WillReturnResult(sqlmock.NewResult(1, 1))

	participant, err := repo.GetOrCreate(context.Background(), "2002")
	require.NoError(t, err)
	assert.Equal(t, "2002", participant.NIK)
	assert.NotEmpty(t, participant.ID)
	assert.Nil(t, participant.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryGetOrCreateRefetchesOnRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectQuery("SELECT id, nik, full_name").
		WithArgs("3003").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO participants").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery("SELECT id, nik, full_name").
		WithArgs("3003").
		WillReturnRows(sqlmock.NewRows(participantColumns()).
			AddRow("winner", "3003", nil, nil, nil, nil, time.Now()))

	participant, err := repo.GetOrCreate(context.Background(), "3003")
	require.NoError(t, err)
	assert.Equal(t, "winner", participant.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryGetOrCreatePropagatesInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectQuery("SELECT id, nik, full_name").
		WithArgs("4004").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO participants").
		WillReturnError(assert.AnError)

	_, err := repo.GetOrCreate(context.Background(), "4004")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
