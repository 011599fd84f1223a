package dto

import (
	"github.com/noah-isme/slp-caseload/internal/models"
	"github.com/noah-isme/slp-caseload/internal/narrative"
)

// SoapFormResponse feeds the SOAP note generator form.
type SoapFormResponse struct {
	Students         []models.Student          `json:"students"`
	Objectives       []models.StudentObjective `json:"objectives"`
	Activities       []models.Activity         `json:"activities"`
	Months           []string                  `json:"months"`
	CurrentMonth     string                    `json:"current_month"`
	SelectedStudent  *models.Student           `json:"selected_student,omitempty"`
	MonthlyServices  string                    `json:"monthly_services"`
	SessionCount     int                       `json:"session_count"`
	SessionTypes     []string                  `json:"session_types"`
	SupportLevels    []string                  `json:"support_levels"`
	VisualCueOptions []string                  `json:"visual_cue_options"`
	VerbalCueOptions []string                  `json:"verbal_cue_options"`
}

// SoapNoteResult is a generated note, optionally persisted.
type SoapNoteResult struct {
	narrative.SoapNote
	FullNote  string           `json:"full_note"`
	StudentID int64            `json:"student_id"`
	NoteDate  string           `json:"note_date"`
	Saved     *models.SoapNote `json:"saved,omitempty"`
}

// SoapNoteListResponse returns notes with the filters that produced them.
type SoapNoteListResponse struct {
	Notes         []models.SoapNoteWithStudent `json:"soap_notes"`
	Students      []models.Student             `json:"students"`
	FilterStudent *int64                       `json:"filter_student,omitempty"`
	StartDate     string                       `json:"start_date,omitempty"`
	EndDate       string                       `json:"end_date,omitempty"`
}

// QuarterlyStartResponse is the per-objective entry grid for a student.
type QuarterlyStartResponse struct {
	Student         models.Student              `json:"student"`
	Goals           []models.GoalWithObjectives `json:"goals"`
	Quarters        []string                    `json:"quarters"`
	DefaultQuarter  string                      `json:"default_quarter"`
	ProgressOptions []string                    `json:"progress_options"`
	ClosingOptions  []string                    `json:"closing_options"`
	SupportLevels   []string                    `json:"support_levels"`
}

// QuarterlyReportResult is a generated, not yet saved, quarterly narrative.
type QuarterlyReportResult struct {
	Student    models.Student `json:"student"`
	Quarter    string         `json:"quarter"`
	Paragraphs []string       `json:"paragraphs"`
}
