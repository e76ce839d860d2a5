package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadgrid/timetable-api/internal/models"
)

func TestBuildItemsExpandsHourSplit(t *testing.T) {
	courses := []models.Course{
		{
			CourseID:    "CS102",
			CourseName:  "Data Structures",
			TheoryHours: 2,
			LabHours:    6,
			Assignees:   []models.Assignee{{Teacher: "t1", Sections: []string{"A", "B"}}},
		},
	}

	items, err := BuildItems(courses)
	require.NoError(t, err)
	require.Len(t, items, 8)

	labs, theories := 0, 0
	for _, item := range items {
		switch item.Kind {
		case models.SlotLab:
			labs++
			assert.Equal(t, PriorityLab, item.Priority)
		case models.SlotTheory:
			theories++
			assert.Equal(t, PriorityTheory, item.Priority)
		}
	}
	assert.Equal(t, 4, labs)
	assert.Equal(t, 4, theories)
}

func TestBuildItemsRejectsEmptyTeacher(t *testing.T) {
	courses := []models.Course{
		{CourseID: "CS101", TheoryHours: 3, Assignees: []models.Assignee{{Sections: []string{"A"}}}},
	}

	_, err := BuildItems(courses)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CS101")
}

func TestScheduleThreeTheoryPeriodsFillMonday(t *testing.T) {
	engine := NewEngine(NewGrid())
	items := []Item{
		theoryItem("MA101", "A", "t1"),
		theoryItem("MA101", "A", "t1"),
		theoryItem("MA101", "A", "t1"),
	}

	board, err := engine.Schedule(items)
	require.NoError(t, err)

	for _, slot := range []int{0, 1, 2} {
		session, ok := board.SectionSession("Monday", slot, "A")
		require.True(t, ok)
		assert.Equal(t, "MA101", session.CourseID)
	}
	assert.Equal(t, DailyLoad{Theory: 3}, board.TeacherLoads("t1")["Monday"])
}

func TestScheduleTwoLabBlocksShareMonday(t *testing.T) {
	engine := NewEngine(NewGrid())
	items := []Item{
		labItem("CS102", "A", "t1"),
		labItem("CS102", "A", "t1"),
	}

	board, err := engine.Schedule(items)
	require.NoError(t, err)

	for _, slot := range []int{5, 9} {
		session, ok := board.SectionSession("Monday", slot, "A")
		require.True(t, ok)
		assert.Equal(t, models.SlotLab, session.Kind)
	}
	assert.Equal(t, DailyLoad{Lab: 2}, board.TeacherLoads("t1")["Monday"])
}

func TestScheduleLabsBeforeTheory(t *testing.T) {
	engine := NewEngine(NewGrid())

	// Theory listed first; the lab must still win the preferred slot.
	items := []Item{
		theoryItem("MA101", "A", "t2"),
		labItem("CS102", "A", "t1"),
	}

	board, err := engine.Schedule(items)
	require.NoError(t, err)

	session, ok := board.SectionSession("Monday", 5, "A")
	require.True(t, ok)
	assert.Equal(t, "CS102", session.CourseID)
}

func TestScheduleIsDeterministic(t *testing.T) {
	items := []Item{
		labItem("CS102", "A", "t1"),
		theoryItem("MA101", "A", "t2"),
		theoryItem("PH101", "B", "t3"),
		labItem("CH101", "B", "t4"),
	}

	first, err := NewEngine(NewGrid()).Schedule(items)
	require.NoError(t, err)
	second, err := NewEngine(NewGrid()).Schedule(items)
	require.NoError(t, err)

	grid := NewGrid()
	for _, day := range grid.Days {
		for _, slot := range grid.Slots {
			for _, section := range []string{"A", "B"} {
				a, okA := first.SectionSession(day, slot.Index, section)
				b, okB := second.SectionSession(day, slot.Index, section)
				require.Equal(t, okA, okB)
				assert.Equal(t, a, b)
			}
		}
	}
}

func TestScheduleHeavierTeacherPlacesFirst(t *testing.T) {
	engine := NewEngine(NewGrid())

	// t2 carries twice the theory demand of t1 and must claim slot 0.
	items := []Item{
		theoryItem("MA101", "A", "t1"),
		theoryItem("PH101", "A", "t2"),
		theoryItem("PH101", "B", "t2"),
	}

	board, err := engine.Schedule(items)
	require.NoError(t, err)

	session, ok := board.SectionSession("Monday", 0, "A")
	require.True(t, ok)
	assert.Equal(t, "PH101", session.CourseID)
}

func TestScheduleOverloadedTeacherFails(t *testing.T) {
	engine := NewEngine(NewGrid())

	// Sixteen weekly theory periods exceed the fifteen a teacher can hold.
	var items []Item
	for i := 0; i < 16; i++ {
		items = append(items, theoryItem("MA101", "A", "t1"))
	}

	board, err := engine.Schedule(items)
	require.Nil(t, board)

	var placement *PlacementError
	require.ErrorAs(t, err, &placement)
	assert.Equal(t, models.SlotTheory, placement.Item.Kind)
	assert.Equal(t, "t1", placement.Item.Teacher)
	assert.Equal(t, DailyLoad{Theory: 3}, placement.Loads["Monday"])
}

func TestScheduleTwoTeachersNeverCollide(t *testing.T) {
	engine := NewEngine(NewGrid())

	var items []Item
	for i := 0; i < 5; i++ {
		items = append(items, theoryItem("MA101", "A", "t1"))
		items = append(items, theoryItem("PH101", "A", "t2"))
	}

	board, err := engine.Schedule(items)
	require.NoError(t, err)

	grid := NewGrid()
	placed := 0
	for _, day := range grid.Days {
		for _, slot := range grid.TheorySlots {
			if session, ok := board.SectionSession(day, slot, "A"); ok {
				placed++
				assert.Contains(t, []string{"t1", "t2"}, session.Teacher)
			}
		}
	}
	assert.Equal(t, 10, placed)
}
