package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadgrid/timetable-api/internal/models"
)

func labItem(courseID, section, teacher string) Item {
	return Item{Priority: PriorityLab, Kind: models.SlotLab, CourseID: courseID, CourseName: courseID, Section: section, Teacher: teacher}
}

func theoryItem(courseID, section, teacher string) Item {
	return Item{Priority: PriorityTheory, Kind: models.SlotTheory, CourseID: courseID, CourseName: courseID, Section: section, Teacher: teacher}
}

func TestPlaceTheoryFirstFit(t *testing.T) {
	board := NewBoard(NewGrid())

	require.True(t, board.PlaceTheory("t1", theoryItem("CS101", "A", "t1")))

	session, ok := board.SectionSession("Monday", 0, "A")
	require.True(t, ok)
	assert.Equal(t, models.SlotTheory, session.Kind)
	assert.Equal(t, "CS101", session.CourseID)
	assert.True(t, board.TeacherBusy("t1", "Monday", 0))
	assert.Equal(t, DailyLoad{Theory: 1}, board.TeacherLoads("t1")["Monday"])
}

func TestPlaceLabPrefersLeastOverlappingSlot(t *testing.T) {
	board := NewBoard(NewGrid())

	require.True(t, board.PlaceLab("t1", labItem("CS102", "A", "t1")))

	session, ok := board.SectionSession("Monday", 5, "A")
	require.True(t, ok)
	assert.Equal(t, models.SlotLab, session.Kind)

	// Overlapped theory cells are reserved for the section and the teacher.
	for _, o := range []int{6, 7} {
		occupied, ok := board.SectionSession("Monday", o, "A")
		require.True(t, ok)
		assert.Equal(t, SessionOccupied, occupied.Kind)
		assert.True(t, board.TeacherBusy("t1", "Monday", o))
	}
	assert.Equal(t, DailyLoad{Lab: 1}, board.TeacherLoads("t1")["Monday"])
}

func TestPlaceLabSkipsSectionConflicts(t *testing.T) {
	board := NewBoard(NewGrid())

	// Another teacher already holds Monday slot 5 for section A.
	require.True(t, board.PlaceLab("t1", labItem("CS102", "A", "t1")))
	require.True(t, board.PlaceLab("t2", labItem("PH101", "A", "t2")))

	session, ok := board.SectionSession("Monday", 9, "A")
	require.True(t, ok)
	assert.Equal(t, "PH101", session.CourseID)
}

func TestPlaceLabRespectsTeacherAcrossSections(t *testing.T) {
	board := NewBoard(NewGrid())

	require.True(t, board.PlaceLab("t1", labItem("CS102", "A", "t1")))
	require.True(t, board.PlaceLab("t1", labItem("CS102", "B", "t1")))

	// Same teacher cannot run two sections in the same slot.
	_, atFive := board.SectionSession("Monday", 5, "B")
	assert.False(t, atFive)
	session, ok := board.SectionSession("Monday", 9, "B")
	require.True(t, ok)
	assert.Equal(t, "CS102", session.CourseID)
}

func TestPlaceTheoryAvoidsOccupiedOverlapCells(t *testing.T) {
	board := NewBoard(NewGrid())

	// Three labs fill Monday slots 5, 9 and 3 for section A, reserving
	// every theory cell of the day through their overlaps.
	require.True(t, board.PlaceLab("t1", labItem("CS102", "A", "t1")))
	require.True(t, board.PlaceLab("t2", labItem("PH101", "A", "t2")))
	require.True(t, board.PlaceLab("t3", labItem("CH101", "A", "t3")))

	require.True(t, board.PlaceTheory("t4", theoryItem("MA101", "A", "t4")))

	monday, ok := board.SectionSession("Monday", 0, "A")
	require.True(t, ok)
	assert.Equal(t, SessionOccupied, monday.Kind)
	session, ok := board.SectionSession("Tuesday", 0, "A")
	require.True(t, ok)
	assert.Equal(t, "MA101", session.CourseID)
}

func TestPlaceFailureLeavesBoardUntouched(t *testing.T) {
	grid := NewGrid()
	board := NewBoard(grid)

	// Fill every day to the two-lab cap for one teacher and section pair.
	for i := 0; i < 10; i++ {
		require.True(t, board.PlaceLab("t1", labItem("CS102", "A", "t1")))
	}
	before := board.TeacherLoads("t1")

	assert.False(t, board.PlaceLab("t1", labItem("CS102", "A", "t1")))
	assert.Equal(t, before, board.TeacherLoads("t1"))
}
