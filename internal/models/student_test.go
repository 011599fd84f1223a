package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestStudentNames(t *testing.T) {
	s := Student{FirstName: "Ana", LastName: "Lopez"}
	assert.Equal(t, "Ana Lopez", s.FullName())
	assert.Equal(t, "Ana", s.DisplayName())
	assert.Equal(t, "AL", s.Initials())

	s.PreferredName = strPtr(" Annie ")
	assert.Equal(t, "Annie", s.DisplayName())
}

func TestStudentMonthlyServiceCount(t *testing.T) {
	cases := map[string]int{"4": 4, " 8 ": 8, "2x weekly": 0, "": 0, "-3": 0}
	for raw, want := range cases {
		s := Student{MonthlyServices: strPtr(raw)}
		assert.Equal(t, want, s.MonthlyServiceCount(), raw)
	}
	assert.Zero(t, Student{}.MonthlyServiceCount())
}

func TestEventTitleAndTimes(t *testing.T) {
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC)
	id := int64(3)
	ev := EventWithStudent{
		Event:     Event{StudentID: &id, EventType: EventTypeSession, DateOfSession: day, TimeOfStart: clock, TimeOfEnd: clock.Add(30 * time.Minute)},
		FirstName: strPtr("Ana"),
		LastName:  strPtr("Lopez"),
	}

	assert.Equal(t, "Session - Ana Lopez", ev.Title())
	assert.Equal(t, "2025-03-04T09:30:00", ev.Start().Format("2006-01-02T15:04:05"))
	assert.Equal(t, "2025-03-04T10:00:00", ev.End().Format("2006-01-02T15:04:05"))

	reminder := EventWithStudent{Event: Event{EventType: EventTypeReminder}}
	assert.Equal(t, "Reminder", reminder.Title())
}
