package scheduler

import "github.com/acadgrid/timetable-api/internal/models"

// DailyLoad counts a teacher's committed periods for one day.
type DailyLoad struct {
	Theory int `json:"theory"`
	Lab    int `json:"lab"`
}

// CanAdd reports whether one more period of the requested kind fits the
// teacher's day. A day caps out at one of: 3 theory, 2 labs, or 2 theory
// plus 1 lab.
func CanAdd(load DailyLoad, kind models.SlotType) bool {
	t := load.Theory
	l := load.Lab

	if kind == models.SlotTheory {
		if t+1 <= 3 && l == 0 {
			return true
		}
		if t+1 <= 2 && l <= 1 {
			return true
		}
		return false
	}

	if l+1 <= 2 && t == 0 {
		return true
	}
	if l+1 <= 1 && t <= 2 {
		return true
	}
	return false
}
