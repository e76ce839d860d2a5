package scheduler

import (
	"sort"

	"github.com/acadgrid/timetable-api/internal/models"
)

// Slot is one cell of the fixed weekly grid.
type Slot struct {
	Index int
	Time  string
	Kind  models.SlotType
}

// Grid is the immutable weekly structure: five weekdays, twelve slots per
// day, and the overlap relation between lab slots and the theory slots they
// span. Construct once at startup and pass explicitly to Board and Engine.
type Grid struct {
	Days    []string
	Slots   []Slot
	Overlap map[int][]int

	// Derived orderings.
	TheorySlots []int
	LabSlots    []int
}

// NewGrid builds the canonical weekly grid.
func NewGrid() *Grid {
	g := &Grid{
		Days: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		Slots: []Slot{
			{Index: 0, Time: "8:10-9:00", Kind: models.SlotTheory},
			{Index: 1, Time: "9:00-9:50", Kind: models.SlotTheory},
			{Index: 2, Time: "9:50-10:40", Kind: models.SlotTheory},
			{Index: 3, Time: "8:10-10:25", Kind: models.SlotLab},
			{Index: 4, Time: "Tea Break", Kind: models.SlotBreak},
			{Index: 5, Time: "10:50-1:05", Kind: models.SlotLab},
			{Index: 6, Time: "11:00-11:50", Kind: models.SlotTheory},
			{Index: 7, Time: "11:50-12:40", Kind: models.SlotTheory},
			{Index: 8, Time: "Lunch Break", Kind: models.SlotBreak},
			{Index: 9, Time: "1:25-3:40", Kind: models.SlotLab},
			{Index: 10, Time: "2:00-2:50", Kind: models.SlotTheory},
			{Index: 11, Time: "2:50-3:40", Kind: models.SlotTheory},
		},
		Overlap: map[int][]int{
			3: {0, 1, 2},
			5: {6, 7},
			9: {10, 11},
		},
	}
	g.derive()
	return g
}

// derive computes the ordered theory-slot list and the lab-slot preference
// order: fewest overlapped theory cells first, ties broken on slot index.
func (g *Grid) derive() {
	g.TheorySlots = g.TheorySlots[:0]
	g.LabSlots = g.LabSlots[:0]
	for _, slot := range g.Slots {
		switch slot.Kind {
		case models.SlotTheory:
			g.TheorySlots = append(g.TheorySlots, slot.Index)
		case models.SlotLab:
			g.LabSlots = append(g.LabSlots, slot.Index)
		}
	}
	sort.SliceStable(g.LabSlots, func(i, j int) bool {
		oi := len(g.Overlap[g.LabSlots[i]])
		oj := len(g.Overlap[g.LabSlots[j]])
		if oi == oj {
			return g.LabSlots[i] < g.LabSlots[j]
		}
		return oi < oj
	})
}
