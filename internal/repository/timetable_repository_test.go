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
	"github.com/stretchr/testify/require"

	"github.com/acadgrid/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleWeek() models.Week {
	return models.Week{
		"Monday": {
			{Index: 0, Time: "8:10-9:00", Type: models.SlotTheory, Session: models.SectionedSession(map[string]models.SessionEntry{
				"A": {Kind: models.SlotTheory, CourseID: "MA101", CourseName: "Calculus", Teacher: "t1"},
			})},
			{Index: 4, Time: "Tea Break", Type: models.SlotBreak, Session: models.BreakSession("Tea Break")},
		},
	}
}

func TestTimetableRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	timetable := &models.Timetable{SemesterID: "sem-1", Days: sampleWeek()}
	require.NoError(t, repo.Create(context.Background(), timetable))
	require.NotEmpty(t, timetable.ID)
	require.False(t, timetable.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Timetable{SemesterID: "sem-1", Days: sampleWeek()})
	require.ErrorIs(t, err, ErrDuplicateTimetable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateRequiresSemester(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	require.Error(t, repo.Create(context.Background(), &models.Timetable{}))
	require.Error(t, repo.Create(context.Background(), nil))
}

func TestTimetableRepositoryFindBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	days := `{"Monday":[{"index":4,"time":"Tea Break","type":"break","session":"Tea Break"}]}`
	rows := sqlmock.NewRows([]string{"id", "semester_id", "days", "created_at"}).
		AddRow("tt-1", "sem-1", []byte(days), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_id, days, created_at FROM timetables")).
		WithArgs("sem-1").
		WillReturnRows(rows)

	found, err := repo.FindBySemester(context.Background(), "sem-1")
	require.NoError(t, err)
	require.Equal(t, "tt-1", found.ID)
	require.Equal(t, models.SessionBreak, found.Days["Monday"][0].Session.State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindBySemesterNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, semester_id, days, created_at FROM timetables")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySemester(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTimetableRepositoryExistsBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsBySemester(context.Background(), "sem-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetables")).
		WithArgs("sem-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteBySemester(context.Background(), "sem-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteBySemesterMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetables")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteBySemester(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
