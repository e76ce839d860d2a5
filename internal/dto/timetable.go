package dto

import "github.com/acadgrid/timetable-api/internal/models"

// GenerateTimetableRequest triggers a generation run for one semester.
type GenerateTimetableRequest struct {
	SemesterID string `json:"semesterId" validate:"required"`
}

// LookupTimetableRequest resolves a timetable via stream code and semester
// number, the path students take before they know the semester id.
type LookupTimetableRequest struct {
	Stream      string `json:"stream" validate:"required"`
	SemesterNum int    `json:"semesterNum" validate:"required,min=1"`
}

// SemesterSummary identifies the semester a timetable belongs to.
type SemesterSummary struct {
	ID          string   `json:"id"`
	Stream      string   `json:"stream"`
	SemesterNum int      `json:"semesterNum"`
	Year        int      `json:"year"`
	Sections    []string `json:"sections,omitempty"`
}

// CombinedTimetableResponse carries the full grid with per-slot section maps.
type CombinedTimetableResponse struct {
	Semester SemesterSummary `json:"semester"`
	Days     models.Week     `json:"days"`
}

// FilteredTimetableResponse carries a section- or teacher-scoped view.
type FilteredTimetableResponse struct {
	Semester SemesterSummary     `json:"semester"`
	Days     models.FilteredWeek `json:"days"`
}
