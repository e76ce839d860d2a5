package scheduler

import "github.com/acadgrid/timetable-api/internal/models"

// SessionOccupied marks a theory cell reserved by a lab block's overlap for
// one section. It keeps the cell unavailable without duplicating course
// identity; projections never surface it.
const SessionOccupied models.SlotType = "occupied"

// Session is an occupying record in a board cell.
type Session struct {
	Kind       models.SlotType
	CourseID   string
	CourseName string
	Section    string
	Teacher    string
}

// Board is the mutable grid-state for one generation run. It is exclusively
// owned by that run; placement scans are read-only until the single
// committing write, so a failed placement leaves the board untouched.
type Board struct {
	grid  *Grid
	cells map[string][]map[string]Session
	busy  map[string]map[string]map[int]bool
	loads map[string]map[string]DailyLoad
}

// NewBoard creates an empty board over the given grid.
func NewBoard(grid *Grid) *Board {
	cells := make(map[string][]map[string]Session, len(grid.Days))
	for _, day := range grid.Days {
		dayCells := make([]map[string]Session, len(grid.Slots))
		for _, slot := range grid.Slots {
			if slot.Kind != models.SlotBreak {
				dayCells[slot.Index] = make(map[string]Session)
			}
		}
		cells[day] = dayCells
	}
	return &Board{
		grid:  grid,
		cells: cells,
		busy:  make(map[string]map[string]map[int]bool),
		loads: make(map[string]map[string]DailyLoad),
	}
}

func (b *Board) ensureTeacher(teacherID string) {
	if b.busy[teacherID] == nil {
		b.busy[teacherID] = make(map[string]map[int]bool, len(b.grid.Days))
		for _, day := range b.grid.Days {
			b.busy[teacherID][day] = make(map[int]bool)
		}
	}
	if b.loads[teacherID] == nil {
		b.loads[teacherID] = make(map[string]DailyLoad, len(b.grid.Days))
	}
}

// PlaceLab commits the lab item at the first feasible (day, lab slot) pair,
// scanning days Monday to Friday and lab slots in grid preference order. The
// teacher must be free at the slot and at every overlapped slot, the section
// must have no occupant at any of them, and the workload policy must allow
// one more lab that day. On commit the overlapped theory cells are reserved
// for the section and the teacher is marked busy across all of them.
func (b *Board) PlaceLab(teacherID string, item Item) bool {
	b.ensureTeacher(teacherID)

	for _, day := range b.grid.Days {
		if !CanAdd(b.loads[teacherID][day], models.SlotLab) {
			continue
		}

		busySet := b.busy[teacherID][day]
		for _, slot := range b.grid.LabSlots {
			overlaps := b.grid.Overlap[slot]

			teacherFree := !busySet[slot]
			for _, o := range overlaps {
				if busySet[o] {
					teacherFree = false
					break
				}
			}
			if !teacherFree {
				continue
			}

			cell := b.cells[day][slot]
			if _, taken := cell[item.Section]; taken {
				continue
			}
			sectionFree := true
			for _, o := range overlaps {
				if _, taken := b.cells[day][o][item.Section]; taken {
					sectionFree = false
					break
				}
			}
			if !sectionFree {
				continue
			}

			cell[item.Section] = Session{
				Kind:       models.SlotLab,
				CourseID:   item.CourseID,
				CourseName: item.CourseName,
				Section:    item.Section,
				Teacher:    teacherID,
			}
			for _, o := range overlaps {
				b.cells[day][o][item.Section] = Session{Kind: SessionOccupied, Section: item.Section}
			}
			busySet[slot] = true
			for _, o := range overlaps {
				busySet[o] = true
			}
			load := b.loads[teacherID][day]
			load.Lab++
			b.loads[teacherID][day] = load
			return true
		}
	}
	return false
}

// PlaceTheory commits the theory item at the first (day, theory slot) pair
// where the teacher is free, the section's cell is unoccupied, and the
// workload policy allows one more theory period that day.
func (b *Board) PlaceTheory(teacherID string, item Item) bool {
	b.ensureTeacher(teacherID)

	for _, day := range b.grid.Days {
		if !CanAdd(b.loads[teacherID][day], models.SlotTheory) {
			continue
		}

		busySet := b.busy[teacherID][day]
		for _, slot := range b.grid.TheorySlots {
			if busySet[slot] {
				continue
			}
			cell := b.cells[day][slot]
			if _, taken := cell[item.Section]; taken {
				continue
			}

			cell[item.Section] = Session{
				Kind:       models.SlotTheory,
				CourseID:   item.CourseID,
				CourseName: item.CourseName,
				Section:    item.Section,
				Teacher:    teacherID,
			}
			busySet[slot] = true
			load := b.loads[teacherID][day]
			load.Theory++
			b.loads[teacherID][day] = load
			return true
		}
	}
	return false
}

// SectionSession returns the occupant of (day, slot) for a section.
func (b *Board) SectionSession(day string, slot int, section string) (Session, bool) {
	cells, ok := b.cells[day]
	if !ok || slot < 0 || slot >= len(cells) || cells[slot] == nil {
		return Session{}, false
	}
	session, ok := cells[slot][section]
	return session, ok
}

// TeacherBusy reports whether the teacher is committed at (day, slot).
func (b *Board) TeacherBusy(teacherID, day string, slot int) bool {
	if b.busy[teacherID] == nil {
		return false
	}
	return b.busy[teacherID][day][slot]
}

// TeacherLoads returns a copy of the teacher's per-day load counters,
// suitable for diagnostics after a placement failure.
func (b *Board) TeacherLoads(teacherID string) map[string]DailyLoad {
	snapshot := make(map[string]DailyLoad, len(b.grid.Days))
	for _, day := range b.grid.Days {
		snapshot[day] = b.loads[teacherID][day]
	}
	return snapshot
}
