package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/acadgrid/timetable-api/internal/models"
)

// ErrDuplicateTimetable is returned when an insert hits the one-timetable-
// per-semester uniqueness constraint. The constraint is what serializes two
// concurrent generation runs for the same semester: the second writer fails
// here instead of corrupting the grid.
var ErrDuplicateTimetable = errors.New("timetable already exists for semester")

const uniqueViolation = pq.ErrorCode("23505")

// TimetableRepository persists generated weekly grids, one per semester.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

type timetableRow struct {
	ID         string         `db:"id"`
	SemesterID string         `db:"semester_id"`
	Days       types.JSONText `db:"days"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Create inserts the timetable in a single atomic write.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	if timetable == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if timetable.SemesterID == "" {
		return fmt.Errorf("semester_id is required")
	}
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = time.Now().UTC()
	}

	days, err := json.Marshal(timetable.Days)
	if err != nil {
		return fmt.Errorf("encode timetable days: %w", err)
	}

	const query = `INSERT INTO timetables (id, semester_id, days, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, timetable.ID, timetable.SemesterID, types.JSONText(days), timetable.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateTimetable
		}
		return fmt.Errorf("insert timetable: %w", err)
	}
	return nil
}

// FindBySemester loads the persisted grid for a semester.
func (r *TimetableRepository) FindBySemester(ctx context.Context, semesterID string) (*models.Timetable, error) {
	const query = `SELECT id, semester_id, days, created_at FROM timetables WHERE semester_id = $1`
	var row timetableRow
	if err := r.db.GetContext(ctx, &row, query, semesterID); err != nil {
		return nil, err
	}

	timetable := &models.Timetable{
		ID:         row.ID,
		SemesterID: row.SemesterID,
		CreatedAt:  row.CreatedAt,
	}
	if err := json.Unmarshal(row.Days, &timetable.Days); err != nil {
		return nil, fmt.Errorf("decode timetable days: %w", err)
	}
	return timetable, nil
}

// ExistsBySemester reports whether a timetable is already persisted, the
// precondition gate checked before a generation run starts.
func (r *TimetableRepository) ExistsBySemester(ctx context.Context, semesterID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM timetables WHERE semester_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, semesterID); err != nil {
		return false, fmt.Errorf("check timetable existence: %w", err)
	}
	return exists, nil
}

// DeleteBySemester removes a semester's timetable, permitting regeneration.
func (r *TimetableRepository) DeleteBySemester(ctx context.Context, semesterID string) error {
	const query = `DELETE FROM timetables WHERE semester_id = $1`
	result, err := r.db.ExecContext(ctx, query, semesterID)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
