package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/acadgrid/timetable-api/internal/models"
)

// SemesterRepository reads semester records: the course list with hour
// splits and the teacher-section assignments the generator consumes.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

type semesterRow struct {
	ID           string         `db:"id"`
	CohortID     sql.NullString `db:"cohort_id"`
	DepartmentID sql.NullString `db:"department_id"`
	Stream       string         `db:"stream"`
	SemesterNum  int            `db:"semester_num"`
	IsOdd        bool           `db:"is_odd"`
	Year         int            `db:"year"`
	Sections     types.JSONText `db:"sections"`
	Courses      types.JSONText `db:"courses"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

const semesterColumns = `id, cohort_id, department_id, stream, semester_num, is_odd, year, sections, courses, created_at, updated_at`

func (r *SemesterRepository) decode(row semesterRow) (*models.Semester, error) {
	sem := &models.Semester{
		ID:           row.ID,
		CohortID:     row.CohortID.String,
		DepartmentID: row.DepartmentID.String,
		Stream:       row.Stream,
		SemesterNum:  row.SemesterNum,
		IsOdd:        row.IsOdd,
		Year:         row.Year,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &sem.Sections); err != nil {
			return nil, fmt.Errorf("decode semester sections: %w", err)
		}
	}
	if len(row.Courses) > 0 {
		if err := json.Unmarshal(row.Courses, &sem.Courses); err != nil {
			return nil, fmt.Errorf("decode semester courses: %w", err)
		}
	}
	return sem, nil
}

// FindByID loads a semester by its identifier.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	query := fmt.Sprintf(`SELECT %s FROM semesters WHERE id = $1`, semesterColumns)
	var row semesterRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return r.decode(row)
}

// FindByStream resolves a semester by its stream code and number, the lookup
// students use before they know the semester id.
func (r *SemesterRepository) FindByStream(ctx context.Context, stream string, semesterNum int) (*models.Semester, error) {
	query := fmt.Sprintf(`SELECT %s FROM semesters WHERE stream = $1 AND semester_num = $2`, semesterColumns)
	var row semesterRow
	if err := r.db.GetContext(ctx, &row, query, stream, semesterNum); err != nil {
		return nil, err
	}
	return r.decode(row)
}
