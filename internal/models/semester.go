package models

import (
	"fmt"
	"time"
)

// Assignee links a teacher to the sections they cover for a course.
type Assignee struct {
	Teacher  string   `json:"teacher"`
	Sections []string `json:"sections"`
}

// Course is a single course of a semester with its weekly L-T-P hour split.
type Course struct {
	CourseID      string     `json:"courseId"`
	CourseName    string     `json:"courseName"`
	TheoryHours   int        `json:"theoryHours"`
	TutorialHours int        `json:"tutorialHours"`
	LabHours      int        `json:"labHours"`
	Credits       float64    `json:"credits"`
	Assignees     []Assignee `json:"assignees"`
}

// TheoryPeriodsPerWeek derives the weekly theory demand (L + T).
func (c Course) TheoryPeriodsPerWeek() int {
	return c.TheoryHours + c.TutorialHours
}

// LabBlocksPerWeek derives the weekly lab-block demand (P / 3).
func (c Course) LabBlocksPerWeek() int {
	return c.LabHours / 3
}

// Validate checks the declared hour split. labHours must be a non-negative
// multiple of 3; a lab block always spans three contiguous hours.
func (c Course) Validate() error {
	if c.TheoryHours < 0 || c.TutorialHours < 0 || c.LabHours < 0 {
		return fmt.Errorf("course %s: hour values cannot be negative", c.CourseID)
	}
	if c.LabHours%3 != 0 {
		return fmt.Errorf("course %s: labHours must be a multiple of 3", c.CourseID)
	}
	return nil
}

// Semester is the record-store contract the generator consumes.
type Semester struct {
	ID           string    `json:"id"`
	CohortID     string    `json:"cohortId,omitempty"`
	DepartmentID string    `json:"departmentId,omitempty"`
	Stream       string    `json:"stream"`
	SemesterNum  int       `json:"semesterNum"`
	IsOdd        bool      `json:"isOdd"`
	Year         int       `json:"year"`
	Sections     []string  `json:"sections"`
	Courses      []Course  `json:"courses"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CourseSectionRef identifies one course-section pairing.
type CourseSectionRef struct {
	CourseID string `json:"courseId"`
	Section  string `json:"section"`
}

// UnassignedSectionsError reports course-section pairs with no covering assignee.
type UnassignedSectionsError struct {
	Pairs []CourseSectionRef `json:"pairs"`
}

// Error implements the error interface.
func (e *UnassignedSectionsError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d course-section pairs have no assigned teacher", len(e.Pairs))
}

// UnassignedPairs collects every declared section of every course that no
// assignee covers. Generation must be refused while this list is non-empty.
func UnassignedPairs(sem *Semester) []CourseSectionRef {
	var missing []CourseSectionRef
	for _, course := range sem.Courses {
		for _, section := range sem.Sections {
			covered := false
			for _, a := range course.Assignees {
				for _, s := range a.Sections {
					if s == section {
						covered = true
						break
					}
				}
				if covered {
					break
				}
			}
			if !covered {
				missing = append(missing, CourseSectionRef{CourseID: course.CourseID, Section: section})
			}
		}
	}
	return missing
}
