package scheduler

import (
	"fmt"
	"sort"

	"github.com/acadgrid/timetable-api/internal/models"
)

// PlacementError reports the first item the board could not accommodate,
// along with the responsible teacher's per-day load snapshot at the moment
// of failure.
type PlacementError struct {
	Item  Item
	Loads map[string]DailyLoad
}

// Error implements the error interface.
func (e *PlacementError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("could not place %s for %s (%s), teacher %s", e.Item.Kind, e.Item.CourseID, e.Item.Section, e.Item.Teacher)
}

// Engine drives item ordering and placement over a fresh board.
type Engine struct {
	grid *Grid
}

// NewEngine creates an engine bound to a grid.
func NewEngine(grid *Grid) *Engine {
	return &Engine{grid: grid}
}

type teacherNeed struct {
	theory int
	lab    int
}

func (n teacherNeed) score() int {
	return 2*n.lab + n.theory
}

// Schedule places every item on a new board, in deterministic order: all lab
// items before all theory items, and within each priority the teachers with
// the heaviest total demand first. The run aborts on the first item that
// cannot be placed; the partially filled board is discarded by the caller.
func (e *Engine) Schedule(items []Item) (*Board, error) {
	need := make(map[string]teacherNeed)
	for _, item := range items {
		n := need[item.Teacher]
		if item.Kind == models.SlotLab {
			n.lab++
		} else {
			n.theory++
		}
		need[item.Teacher] = n
	}

	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return need[ordered[i].Teacher].score() > need[ordered[j].Teacher].score()
	})

	board := NewBoard(e.grid)
	for _, item := range ordered {
		var placed bool
		if item.Kind == models.SlotLab {
			placed = board.PlaceLab(item.Teacher, item)
		} else {
			placed = board.PlaceTheory(item.Teacher, item)
		}
		if !placed {
			return nil, &PlacementError{Item: item, Loads: board.TeacherLoads(item.Teacher)}
		}
	}
	return board, nil
}
