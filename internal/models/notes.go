package models

import "time"

// SoapNote is a persisted SOAP narrative.
type SoapNote struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	NoteDate  time.Time `db:"note_date" json:"note_date"`
	NoteText  string    `db:"note_text" json:"note_text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SoapNoteWithStudent joins the note with the student's names for listings and export.
type SoapNoteWithStudent struct {
	SoapNote
	FirstName     string  `db:"first_name" json:"first_name"`
	LastName      string  `db:"last_name" json:"last_name"`
	PreferredName *string `db:"preferred_name" json:"preferred_name,omitempty"`
}

// SoapNoteFilter narrows note listings. Dates are inclusive.
type SoapNoteFilter struct {
	StudentID *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// QuarterlyReport is a saved progress narrative for one quarter, e.g. "2025-Q4".
type QuarterlyReport struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	Quarter     string    `db:"quarter" json:"quarter"`
	ReportText  string    `db:"report_text" json:"report_text"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
}

// QuarterlyReportWithStudent adds the student's names to a saved report.
type QuarterlyReportWithStudent struct {
	QuarterlyReport
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// Activity is a selectable therapy activity.
type Activity struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// MonthlyQuota overrides the expected session count for a student in a "YYYY-MM" month.
type MonthlyQuota struct {
	ID               int64  `db:"id" json:"id"`
	StudentID        int64  `db:"student_id" json:"student_id"`
	Month            string `db:"month" json:"month"`
	RequiredSessions int    `db:"required_sessions" json:"required_sessions"`
}
