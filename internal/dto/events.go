package dto

import "github.com/noah-isme/slp-caseload/internal/models"

// CreatedEventsResponse reports how many events a create call produced.
type CreatedEventsResponse struct {
	Created int            `json:"created"`
	Events  []models.Event `json:"events"`
}

// StudentSessionsResponse is a student's session history with their trial data.
type StudentSessionsResponse struct {
	Student    models.Student            `json:"student"`
	Sessions   []models.EventWithStudent `json:"sessions"`
	TrialLogs  models.TrialLogBuckets    `json:"trial_logs"`
	Objectives []models.StudentObjective `json:"objectives"`
}

// SessionListResponse echoes the filters alongside matching sessions.
type SessionListResponse struct {
	Sessions     []models.EventWithStudent `json:"sessions"`
	Students     []models.Student          `json:"students"`
	FilterDate   string                    `json:"filter_date,omitempty"`
	FilterStatus string                    `json:"filter_status,omitempty"`
	Statuses     []string                  `json:"statuses"`
}

// BulkSessionsForm lists the students offered on the bulk scheduling form.
type BulkSessionsForm struct {
	Students        []models.Student `json:"students"`
	Statuses        []string         `json:"statuses"`
	DurationMinutes int              `json:"duration_minutes"`
}
