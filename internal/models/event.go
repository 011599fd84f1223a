package models

import (
	"strings"
	"time"
)

// Event types.
const (
	EventTypeSession    = "Session"
	EventTypeMeeting    = "Meeting"
	EventTypeAssessment = "Assessment"
	EventTypeReminder   = "Reminder"
)

// Event statuses.
const (
	EventStatusScheduled    = "Scheduled"
	EventStatusCompleted    = "Completed"
	EventStatusExcused      = "Excused Absence"
	EventStatusMakeupNeeded = "Makeup Needed"
)

// EventStatuses lists the accepted status values.
var EventStatuses = []string{EventStatusScheduled, EventStatusCompleted, EventStatusExcused, EventStatusMakeupNeeded}

// ValidEventStatus reports whether status is one of EventStatuses.
func ValidEventStatus(status string) bool {
	for _, s := range EventStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Event is a calendar occurrence: a therapy session, meeting, assessment or reminder.
// TimeOfStart and TimeOfEnd only carry a clock time; the date lives in DateOfSession.
type Event struct {
	ID               int64     `db:"id" json:"id"`
	StudentID        *int64    `db:"student_id" json:"student_id,omitempty"`
	EventType        string    `db:"event_type" json:"event_type"`
	DateOfSession    time.Time `db:"date_of_session" json:"date_of_session"`
	TimeOfStart      time.Time `db:"time_of_start" json:"time_of_start"`
	TimeOfEnd        time.Time `db:"time_of_end" json:"time_of_end"`
	Status           string    `db:"status" json:"status"`
	Active           bool      `db:"active" json:"active"`
	PlanNotes        *string   `db:"plan_notes" json:"plan_notes,omitempty"`
	MakeupForEventID *int64    `db:"makeup_for_event_id" json:"makeup_for_event_id,omitempty"`
	IsMakeup         bool      `db:"is_makeup" json:"is_makeup"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Start combines the session date with its start clock time.
func (e Event) Start() time.Time {
	return combine(e.DateOfSession, e.TimeOfStart)
}

// End combines the session date with its end clock time.
func (e Event) End() time.Time {
	return combine(e.DateOfSession, e.TimeOfEnd)
}

// EventWithStudent carries the student's names alongside the event.
type EventWithStudent struct {
	Event
	FirstName *string `db:"first_name" json:"first_name,omitempty"`
	LastName  *string `db:"last_name" json:"last_name,omitempty"`
}

// StudentName returns "First Last" or empty when the event has no student.
func (e EventWithStudent) StudentName() string {
	var parts []string
	if e.FirstName != nil {
		parts = append(parts, *e.FirstName)
	}
	if e.LastName != nil {
		parts = append(parts, *e.LastName)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Title renders the calendar label, e.g. "Session - Ana Lopez".
func (e EventWithStudent) Title() string {
	if name := e.StudentName(); name != "" && e.StudentID != nil {
		return e.EventType + " - " + name
	}
	return e.EventType
}

// CalendarEvent is the JSON shape consumed by the calendar view.
type CalendarEvent struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Status    string  `json:"status"`
	PlanNotes *string `json:"plan_notes"`
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	Date      *time.Time
	StudentID *int64
	Status    string
}

// EventPatch holds the optional fields of a partial event update.
type EventPatch struct {
	StudentID     *int64
	ClearStudent  bool
	EventType     *string
	DateOfSession *time.Time
	TimeOfStart   *time.Time
	TimeOfEnd     *time.Time
	Status        *string
	PlanNotes     *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.StudentID == nil && !p.ClearStudent && p.EventType == nil && p.DateOfSession == nil &&
		p.TimeOfStart == nil && p.TimeOfEnd == nil && p.Status == nil && p.PlanNotes == nil
}

func combine(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}
