package scheduler

import "github.com/acadgrid/timetable-api/internal/models"

// Project flattens a finished board into the persisted weekly shape. Break
// slots carry their label; theory and lab slots carry only real sessions,
// dropping the occupied placeholders written under lab overlaps. A slot with
// no real session for any section projects to the free sentinel.
func Project(board *Board) models.Week {
	week := make(models.Week, len(board.grid.Days))
	for _, day := range board.grid.Days {
		slots := make([]models.TimetableSlot, 0, len(board.grid.Slots))
		for _, slot := range board.grid.Slots {
			out := models.TimetableSlot{
				Index: slot.Index,
				Time:  slot.Time,
				Type:  slot.Kind,
			}

			if slot.Kind == models.SlotBreak {
				out.Session = models.BreakSession(slot.Time)
				slots = append(slots, out)
				continue
			}

			bySection := make(map[string]models.SessionEntry)
			for section, session := range board.cells[day][slot.Index] {
				if session.Kind != models.SlotTheory && session.Kind != models.SlotLab {
					continue
				}
				bySection[section] = models.SessionEntry{
					Kind:       session.Kind,
					CourseID:   session.CourseID,
					CourseName: session.CourseName,
					Teacher:    session.Teacher,
				}
			}
			out.Session = models.SectionedSession(bySection)
			slots = append(slots, out)
		}
		week[day] = slots
	}
	return week
}

// SectionView extracts one section's entries from a persisted week. Cells
// the section does not occupy come back with a nil session; breaks come back
// as labelled break sessions.
func SectionView(grid *Grid, week models.Week, section string) models.FilteredWeek {
	out := make(models.FilteredWeek, len(grid.Days))
	for _, day := range grid.Days {
		slots := make([]models.FilteredSlot, 0, len(week[day]))
		for _, slot := range week[day] {
			filtered := models.FilteredSlot{Index: slot.Index, Time: slot.Time, Type: slot.Type}

			switch slot.Session.State {
			case models.SessionBreak:
				filtered.Session = &models.FilteredSession{Kind: models.SlotBreak, Label: slot.Session.BreakLabel}
			case models.SessionSectioned:
				if entry, ok := slot.Session.BySection[section]; ok {
					filtered.Session = &models.FilteredSession{
						Kind:       entry.Kind,
						CourseID:   entry.CourseID,
						CourseName: entry.CourseName,
						Section:    section,
						Teacher:    entry.Teacher,
					}
				}
			}
			slots = append(slots, filtered)
		}
		out[day] = slots
	}
	return out
}

// TeacherView scans every section's entries for the matching teacher and
// returns that teacher's weekly view.
func TeacherView(grid *Grid, week models.Week, teacherID string) models.FilteredWeek {
	out := make(models.FilteredWeek, len(grid.Days))
	for _, day := range grid.Days {
		slots := make([]models.FilteredSlot, 0, len(week[day]))
		for _, slot := range week[day] {
			filtered := models.FilteredSlot{Index: slot.Index, Time: slot.Time, Type: slot.Type}

			switch slot.Session.State {
			case models.SessionBreak:
				filtered.Session = &models.FilteredSession{Kind: models.SlotBreak, Label: slot.Session.BreakLabel}
			case models.SessionSectioned:
				for section, entry := range slot.Session.BySection {
					if entry.Teacher != teacherID {
						continue
					}
					filtered.Session = &models.FilteredSession{
						Kind:       entry.Kind,
						CourseID:   entry.CourseID,
						CourseName: entry.CourseName,
						Section:    section,
						Teacher:    entry.Teacher,
					}
					break
				}
			}
			slots = append(slots, filtered)
		}
		out[day] = slots
	}
	return out
}
