package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SlotType classifies a weekly grid cell.
type SlotType string

const (
	SlotTheory SlotType = "theory"
	SlotLab    SlotType = "lab"
	SlotBreak  SlotType = "break"
)

// SessionEntry is one section's occupant of a timetable cell.
type SessionEntry struct {
	Kind       SlotType `json:"kind"`
	CourseID   string   `json:"courseId"`
	CourseName string   `json:"courseName"`
	Teacher    string   `json:"teacher"`
}

// SessionState tags the SlotSession union.
type SessionState int

const (
	SessionFree SessionState = iota
	SessionBreak
	SessionSectioned
)

// SlotSession is the session cell of a persisted timetable slot: free, a
// labelled break, or a section-to-session mapping. The wire encoding is the
// durable contract other tooling relies on: the literal "FREE", the break
// label string, or a {"bySection":{...}} object.
type SlotSession struct {
	State      SessionState
	BreakLabel string
	BySection  map[string]SessionEntry
}

// FreeSession returns the free sentinel.
func FreeSession() SlotSession {
	return SlotSession{State: SessionFree}
}

// BreakSession returns a labelled break session.
func BreakSession(label string) SlotSession {
	return SlotSession{State: SessionBreak, BreakLabel: label}
}

// SectionedSession returns a session holding per-section entries.
func SectionedSession(bySection map[string]SessionEntry) SlotSession {
	if len(bySection) == 0 {
		return FreeSession()
	}
	return SlotSession{State: SessionSectioned, BySection: bySection}
}

type sectionedPayload struct {
	BySection map[string]SessionEntry `json:"bySection"`
}

// MarshalJSON encodes the session in the legacy storage shape.
func (s SlotSession) MarshalJSON() ([]byte, error) {
	switch s.State {
	case SessionBreak:
		return json.Marshal(s.BreakLabel)
	case SessionSectioned:
		return json.Marshal(sectionedPayload{BySection: s.BySection})
	default:
		return json.Marshal("FREE")
	}
}

// UnmarshalJSON decodes the legacy storage shape back into the union.
func (s *SlotSession) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		if label == "FREE" || label == "" {
			*s = FreeSession()
			return nil
		}
		*s = BreakSession(label)
		return nil
	}

	var payload sectionedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode sectioned session: %w", err)
	}
	*s = SectionedSession(payload.BySection)
	return nil
}

// TimetableSlot is one cell of a persisted weekday column.
type TimetableSlot struct {
	Index   int         `json:"index"`
	Time    string      `json:"time"`
	Type    SlotType    `json:"type"`
	Session SlotSession `json:"session"`
}

// Week maps weekday name to its ordered slot list.
type Week map[string][]TimetableSlot

// Timetable is the persisted weekly grid for one semester.
type Timetable struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semesterId"`
	Days       Week      `json:"days"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// FilteredSession is a session scoped to a single viewer (section or teacher).
type FilteredSession struct {
	Kind       SlotType `json:"kind"`
	Label      string   `json:"label,omitempty"`
	CourseID   string   `json:"courseId,omitempty"`
	CourseName string   `json:"courseName,omitempty"`
	Section    string   `json:"section,omitempty"`
	Teacher    string   `json:"teacher,omitempty"`
}

// FilteredSlot is one cell of a section- or teacher-scoped view. A nil
// Session means the cell is free for that viewer.
type FilteredSlot struct {
	Index   int              `json:"index"`
	Time    string           `json:"time"`
	Type    SlotType         `json:"type"`
	Session *FilteredSession `json:"session"`
}

// FilteredWeek maps weekday name to a viewer-scoped slot list.
type FilteredWeek map[string][]FilteredSlot
