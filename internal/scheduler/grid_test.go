package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadgrid/timetable-api/internal/models"
)

func TestNewGridShape(t *testing.T) {
	g := NewGrid()

	require.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, g.Days)
	require.Len(t, g.Slots, 12)

	assert.Equal(t, models.SlotBreak, g.Slots[4].Kind)
	assert.Equal(t, "Tea Break", g.Slots[4].Time)
	assert.Equal(t, models.SlotBreak, g.Slots[8].Kind)
	assert.Equal(t, "Lunch Break", g.Slots[8].Time)

	assert.Equal(t, []int{0, 1, 2, 6, 7, 10, 11}, g.TheorySlots)
}

func TestLabPreferenceOrder(t *testing.T) {
	g := NewGrid()

	// Morning lab blocks three theory cells, the other two block two each.
	assert.Equal(t, []int{5, 9, 3}, g.LabSlots)
}

func TestOverlapsCoverDisjointTheoryCells(t *testing.T) {
	g := NewGrid()

	seen := make(map[int]int)
	for lab, overlaps := range g.Overlap {
		require.Equal(t, models.SlotLab, g.Slots[lab].Kind)
		for _, o := range overlaps {
			require.Equal(t, models.SlotTheory, g.Slots[o].Kind)
			seen[o]++
		}
	}
	for slot, count := range seen {
		assert.Equalf(t, 1, count, "theory slot %d overlapped by more than one lab", slot)
	}
	assert.Len(t, seen, len(g.TheorySlots))
}
