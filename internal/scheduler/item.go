package scheduler

import (
	"fmt"

	"github.com/acadgrid/timetable-api/internal/models"
)

// Placement priorities. Lower places first; labs precede all theory.
const (
	PriorityLab    = 1
	PriorityTheory = 2
)

// Item is one atomic placement request: a single theory period or lab block
// for a (course, section, teacher) triple. Immutable once built.
type Item struct {
	Priority   int
	Kind       models.SlotType
	CourseID   string
	CourseName string
	Section    string
	Teacher    string
}

// BuildItems expands a semester's course list into the flat item list: for
// each course, for each assignee, for each of that assignee's sections, one
// item per required lab block and one per required theory period. Hour-split
// validation happens before this point; coverage preflight is the caller's
// responsibility.
func BuildItems(courses []models.Course) ([]Item, error) {
	var items []Item
	for _, course := range courses {
		theoryPeriods := course.TheoryPeriodsPerWeek()
		labBlocks := course.LabBlocksPerWeek()

		for _, assignee := range course.Assignees {
			if assignee.Teacher == "" {
				return nil, fmt.Errorf("course %s: assignee without teacher", course.CourseID)
			}
			for _, section := range assignee.Sections {
				for i := 0; i < labBlocks; i++ {
					items = append(items, Item{
						Priority:   PriorityLab,
						Kind:       models.SlotLab,
						CourseID:   course.CourseID,
						CourseName: course.CourseName,
						Section:    section,
						Teacher:    assignee.Teacher,
					})
				}
				for i := 0; i < theoryPeriods; i++ {
					items = append(items, Item{
						Priority:   PriorityTheory,
						Kind:       models.SlotTheory,
						CourseID:   course.CourseID,
						CourseName: course.CourseName,
						Section:    section,
						Teacher:    assignee.Teacher,
					})
				}
			}
		}
	}
	return items, nil
}
