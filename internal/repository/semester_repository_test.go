package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func semesterRows() *sqlmock.Rows {
	sections := `["A","B"]`
	courses := `[{"courseId":"CS102","courseName":"Data Structures","theoryHours":2,"tutorialHours":1,"labHours":6,"credits":4,"assignees":[{"teacher":"t1","sections":["A","B"]}]}]`
	return sqlmock.NewRows([]string{"id", "cohort_id", "department_id", "stream", "semester_num", "is_odd", "year", "sections", "courses", "created_at", "updated_at"}).
		AddRow("sem-1", "cohort-1", nil, "CSE", 3, true, 2026, []byte(sections), []byte(courses), time.Now(), time.Now())
}

func TestSemesterRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE id =")).
		WithArgs("sem-1").
		WillReturnRows(semesterRows())

	sem, err := repo.FindByID(context.Background(), "sem-1")
	require.NoError(t, err)
	require.Equal(t, "CSE", sem.Stream)
	require.Equal(t, []string{"A", "B"}, sem.Sections)
	require.Len(t, sem.Courses, 1)
	require.Equal(t, "CS102", sem.Courses[0].CourseID)
	require.Equal(t, 6, sem.Courses[0].LabHours)
	require.Equal(t, "cohort-1", sem.CohortID)
	require.Empty(t, sem.DepartmentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE id =")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSemesterRepositoryFindByStream(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSemesterRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE stream =")).
		WithArgs("CSE", 3).
		WillReturnRows(semesterRows())

	sem, err := repo.FindByStream(context.Background(), "CSE", 3)
	require.NoError(t, err)
	require.Equal(t, "sem-1", sem.ID)
	require.Equal(t, 3, sem.SemesterNum)
	require.NoError(t, mock.ExpectationsWereMet())
}
